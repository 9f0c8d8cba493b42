// Package middleware provides request logging, authentication helpers, rate
// limiting, tracing and metrics middleware for the application.
package middleware

import (
	"strings"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set once a request is authenticated.
const (
	AuthLocalsKey   = "auth"
	UserIDLocalsKey = "userID"
)

// Authentication failure reasons, returned as the error message of a 401.
const (
	ReasonAuthMissing      = "AUTH_MISSING"
	ReasonAuthWrongType    = "AUTH_WRONG_TYPE"
	ReasonAuthTokenMissing = "AUTH_TOKEN_MISSING"
	ReasonAuthTokenInvalid = "AUTH_TOKEN_INVALID"
)

// RequestAuth is the authenticated caller attached to a request.
type RequestAuth struct {
	Token string
	User  *models.User
}

// ParseBearer extracts the token from an Authorization header value. On
// failure it returns the rejection reason.
func ParseBearer(header string) (token, reason string) {
	if header == "" {
		return "", ReasonAuthMissing
	}
	parts := strings.Split(header, " ")
	if !strings.EqualFold(parts[0], "bearer") {
		return "", ReasonAuthWrongType
	}
	if len(parts) < 2 || parts[1] == "" {
		return "", ReasonAuthTokenMissing
	}
	return parts[1], ""
}

// SetAuth attaches auth to the request locals.
func SetAuth(c *fiber.Ctx, auth *RequestAuth) {
	c.Locals(AuthLocalsKey, auth)
	c.Locals(UserIDLocalsKey, auth.User.ID)
}

// CurrentAuth returns the auth attached by the authentication middleware.
// It panics if that middleware did not run for the route.
func CurrentAuth(c *fiber.Ctx) *RequestAuth {
	auth, ok := c.Locals(AuthLocalsKey).(*RequestAuth)
	if !ok || auth == nil || auth.User == nil {
		panic("middleware: CurrentAuth called on a route without authentication")
	}
	return auth
}
