package server

import (
	"fmt"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respondMessage(c, fiber.StatusCreated,
		fmt.Sprintf("User with email %s created successfully", user.Email), true)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login. The response carries a bearer token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	token, _, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"token": token})
}

// Logout handles POST /api/logout. It revokes the caller's active session.
func (s *Server) Logout(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if err := s.authService.Logout(c.Context(), user.ID); err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, "Logged out successfully", true)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/forgot-password.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	message, err := s.authService.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, message, true)
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /api/reset-password.
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	message, err := s.authService.ResetPassword(c.Context(), req.Email, req.Token, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK, message, true)
}
