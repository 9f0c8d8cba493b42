// Package service holds the business rules between handlers and repositories.
package service

import (
	"context"
	"errors"

	"blogapi/internal/auth"
	"blogapi/internal/models"
	"blogapi/internal/policy"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type CreateUserInput struct {
	Actor    *models.User
	Type     string
	Name     string
	Email    string
	Password string
}

type CreateAdminInput struct {
	Actor    *models.User
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult carries the tokens minted for a successful login.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type DeleteUserInput struct {
	Actor    *models.User
	TargetID uint
}

// UserListing is the result of ListUsers. ShowIDs is set for viewers allowed
// to manage users.
type UserListing struct {
	Users   []models.User
	ShowIDs bool
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenService, bcryptCost int) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// ListUsers returns every user for user managers and non-admins for everyone else.
func (s *UserService) ListUsers(ctx context.Context, actor *models.User) (*UserListing, error) {
	manager := policy.Has(actor, policy.CapManageUsers)
	users, err := s.userRepo.List(ctx, manager)
	if err != nil {
		return nil, err
	}
	return &UserListing{Users: users, ShowIDs: manager}, nil
}

// Register creates a BLOGGER account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateRegistration(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}
	return s.create(ctx, models.UserTypeBlogger, in.Name, in.Email, in.Password)
}

// CreateUser creates an account of any type. Only user managers may call it.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := policy.CanManageUsers(in.Actor); err != nil {
		return nil, err
	}
	if err := validation.ValidateUserType(in.Type); err != nil {
		return nil, err
	}
	if err := validation.ValidateRegistration(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}

	userType := models.UserType(in.Type)
	if userType == "" {
		userType = models.UserTypeBlogger
	}
	return s.create(ctx, userType, in.Name, in.Email, in.Password)
}

// CreateAdmin creates an ADMIN account. Only user managers may call it.
func (s *UserService) CreateAdmin(ctx context.Context, in CreateAdminInput) (*models.User, error) {
	if err := policy.CanManageUsers(in.Actor); err != nil {
		return nil, err
	}
	if err := validation.ValidateRegistration(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}
	return s.create(ctx, models.UserTypeAdmin, in.Name, in.Email, in.Password)
}

func (s *UserService) create(ctx context.Context, userType models.UserType, name, email, password string) (*models.User, error) {
	if err := s.ensureAvailable(ctx, name, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Type:         userType,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ensureAvailable(ctx context.Context, name, email string) error {
	existing, err := s.userRepo.FindByNameOrEmail(ctx, name, email)
	if err != nil {
		return err
	}
	switch {
	case existing == nil:
		return nil
	case existing.Name == name:
		return models.NewValidationError("NAME_ALREADY_USED")
	default:
		return models.NewValidationError("EMAIL_ALREADY_USED")
	}
}

// Login checks the credentials and mints an access and a refresh token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validation.ValidateLogin(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByNameOrEmail(ctx, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("EMAIL_OR_PASSWORD_INCORRECT")
	}

	ok, err := auth.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !ok {
		return nil, models.NewUnauthorizedError("EMAIL_OR_PASSWORD_INCORRECT")
	}

	access, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges the refresh token of userID for a new access token.
func (s *UserService) Refresh(ctx context.Context, userID uint, refreshToken string) (string, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}
	if refreshToken == "" {
		return "", models.NewUnauthorizedError("Token not found")
	}

	access, err := s.tokens.RefreshAccessToken(userID, refreshToken)
	if errors.Is(err, auth.ErrTokenInvalid) {
		return "", models.NewNotAcceptableError("Unauthorized")
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return access, nil
}

// DeleteBlogger removes a BLOGGER account together with its posts and comments.
func (s *UserService) DeleteBlogger(ctx context.Context, in DeleteUserInput) error {
	if err := policy.CanManageUsers(in.Actor); err != nil {
		return err
	}

	target, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteUser(in.Actor, target); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, target.ID)
}
