package server

import (
	"fmt"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/user. It returns the authenticated user.
func (s *Server) GetMe(c *fiber.Ctx) error {
	return respondData(c, fiber.StatusOK, s.currentUser(c))
}

// GetUsers handles GET /api/user/list. Admin only.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page, perPage := s.pageParams(c)
	users, err := s.userService.ListUsers(c.Context(), "/api/user/list", page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, users)
}

// GetAdminsList handles GET /api/user/adminsList. Admin only.
func (s *Server) GetAdminsList(c *fiber.Ctx) error {
	page, perPage := s.pageParams(c)
	admins, err := s.userService.ListAdmins(c.Context(), "/api/user/adminsList", page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, admins)
}

// GetUserPosts handles GET /api/user/:id/posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUserByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	page, perPage := s.pageParams(c)
	path := fmt.Sprintf("/api/user/%d/posts", id)
	posts, err := s.postService.ListPostsByUser(c.Context(), id, path, page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, posts)
}

// GetUserComments handles GET /api/user/:id/comments.
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUserByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	page, perPage := s.pageParams(c)
	path := fmt.Sprintf("/api/user/%d/comments", id)
	comments, err := s.commentService.ListByUser(c.Context(), id, path, page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, comments)
}

// GetUserLikedPosts handles GET /api/user/:id/liked-posts.
func (s *Server) GetUserLikedPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUserByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	page, perPage := s.pageParams(c)
	path := fmt.Sprintf("/api/user/%d/liked-posts", id)
	posts, err := s.postService.ListLikedPosts(c.Context(), id, path, page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, posts)
}

type roleChangeRequest struct {
	Password string `json:"password"`
}

// PromoteUser handles POST /api/user/:id/promote-to-admin. Admin only; the
// acting admin re-confirms their own password.
func (s *Server) PromoteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req roleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	promoted, err := s.authService.Promote(c.Context(), s.currentUser(c), id, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("User with email %s promoted to admin", promoted.Email), true)
}

// DemoteUser handles POST /api/user/:id/demote-to-user. Admin only.
func (s *Server) DemoteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req roleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	demoted, err := s.authService.Demote(c.Context(), s.currentUser(c), id, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("User with email %s demote to user", demoted.Email), true)
}
