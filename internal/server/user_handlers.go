package server

import (
	"time"

	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

const refreshCookieName = "jwt"

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ListUsers handles GET /api/v1/users
// @Summary List users
// @Description Admins see every user with ids; bloggers see non-admin users without ids
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} userView
// @Failure 401 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	listing, err := s.userService.ListUsers(c.UserContext(), actor(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(newUserViews(listing.Users, listing.ShowIDs))
}

// Register handles POST /api/v1/users/register
// @Summary Register
// @Description Create a BLOGGER account
// @Tags users
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Registration"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusCreated, "User successfully created.")
}

// Login handles POST /api/v1/users/login
// @Summary Login
// @Description Authenticate by email or name. The refresh token is set as the jwt cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Credentials"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    result.RefreshToken,
		Expires:  time.Now().Add(s.tokens.RefreshTTL()),
		HTTPOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: fiber.CookieSameSiteNoneMode,
	})

	return c.JSON(fiber.Map{"token": result.AccessToken})
}

// Refresh handles POST /api/v1/users/refresh/:id
// @Summary Refresh access token
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{accessToken=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 406 {object} models.ErrorResponse
// @Router /users/refresh/{id} [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	access, err := s.userService.Refresh(c.UserContext(), id, c.Cookies(refreshCookieName))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"accessToken": access})
}

// CreateUser handles POST /api/v1/users
// @Summary Create a user
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param request body object{type=string,name=string,email=string,password=string} true "User"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		credentialsRequest
		Type string `json:"type"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.userService.CreateUser(c.UserContext(), service.CreateUserInput{
		Actor:    actor(c),
		Type:     req.Type,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAdmin handles POST /api/v1/users/admins
// @Summary Create an admin
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body credentialsRequest true "Admin"
// @Success 201 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/admins [post]
func (s *Server) CreateAdmin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.userService.CreateAdmin(c.UserContext(), service.CreateAdminInput{
		Actor:    actor(c),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		return s.respondError(c, err)
	}
	return message(c, fiber.StatusCreated, "Admin successfully created.")
}

// DeleteUser handles DELETE /api/v1/users/admins/:id. Only BLOGGER accounts
// can be deleted; their posts and comments go with them.
// @Summary Delete a blogger
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/admins/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteBlogger(c.UserContext(), service.DeleteUserInput{
		Actor:    actor(c),
		TargetID: id,
	}); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
