package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogapi/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid is returned for every token that fails verification.
var ErrTokenInvalid = errors.New("token invalid")

// TokenConfig carries the signing secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

// TokenService signs and verifies access and refresh tokens.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenService validates cfg and returns a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 10 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	return &TokenService{cfg: cfg, now: time.Now}, nil
}

// RefreshTTL is the lifetime of refresh tokens, used for the cookie expiry.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

// IssueAccessToken mints a short-lived access token for userID.
func (s *TokenService) IssueAccessToken(userID uint) (string, error) {
	return s.issue(userID, s.cfg.AccessSecret, s.cfg.AccessTTL, "access")
}

// IssueRefreshToken mints a refresh token for userID.
func (s *TokenService) IssueRefreshToken(userID uint) (string, error) {
	return s.issue(userID, s.cfg.RefreshSecret, s.cfg.RefreshTTL, "refresh")
}

func (s *TokenService) issue(userID uint, secret string, ttl time.Duration, kind string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	observability.TokensIssued.WithLabelValues(kind).Inc()
	return signed, nil
}

// VerifyAccessToken checks an access token and returns its claims.
func (s *TokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.verify(token, s.cfg.AccessSecret)
}

// VerifyRefreshToken checks a refresh token and returns its claims.
func (s *TokenService) VerifyRefreshToken(token string) (*Claims, error) {
	return s.verify(token, s.cfg.RefreshSecret)
}

func (s *TokenService) verify(token, secret string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RefreshAccessToken verifies refreshToken for userID and mints a new access
// token. The refresh token itself is not rotated.
func (s *TokenService) RefreshAccessToken(userID uint, refreshToken string) (string, error) {
	claims, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	subject, err := claims.UserID()
	if err != nil || subject != userID {
		return "", ErrTokenInvalid
	}
	return s.IssueAccessToken(userID)
}
