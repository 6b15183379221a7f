package server

import (
	"os"
	"path/filepath"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type profileUpdateRequest struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// UpdateProfile handles POST /api/profile/update. When the image URL changes,
// the previously stored file is removed from disk.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user := s.currentUser(c)
	previousImageURL := user.ProfileImageURL

	if _, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:          user.ID,
		Name:            req.Name,
		ProfileImageURL: req.ProfileImageURL,
	}); err != nil {
		return models.RespondWithError(c, err)
	}

	// The replaced file is removed only once the row update has stuck, so a
	// rejected update never orphans the stored image.
	if req.ProfileImageURL != "" && req.ProfileImageURL != previousImageURL && previousImageURL != "" {
		old := filepath.Join(s.config.UploadDir, filepath.FromSlash(previousImageURL))
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			middleware.Logger.WarnContext(c.UserContext(), "failed to remove old profile image",
				"path", old, "error", err)
		}
	}

	return respondMessage(c, fiber.StatusOK, "Profile updated successfully", true)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles POST /api/profile/change-password.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user := s.currentUser(c)
	if err := s.authService.ChangePassword(c.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return models.RespondWithError(c, err)
	}

	return respondMessage(c, fiber.StatusOK, "Password changed successfully", true)
}
