package server

import (
	"fmt"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TagIDs      []uint `json:"tags"`
	CategoryIDs []uint `json:"categories"`
}

// Home handles GET /api/. It serves the same paginated feed as the post index.
func (s *Server) Home(c *fiber.Ctx) error {
	return s.GetPosts(c)
}

// GetPosts handles GET /api/post.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, perPage := s.pageParams(c)
	posts, err := s.postService.ListPosts(c.Context(), "/api/post", page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, posts)
}

// GetPost handles GET /api/post/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondData(c, fiber.StatusOK, post)
}

// CreatePost handles POST /api/post. Admin only.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user := s.currentUser(c)
	post, err := s.postService.CreatePost(c.Context(), service.PostInput{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		TagIDs:      req.TagIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    post,
		"message": "post created successfully",
		"success": true,
	})
}

// UpdatePost handles PUT /api/post/:id. Admin only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user := s.currentUser(c)
	post, err := s.postService.UpdatePost(c.Context(), id, service.PostInput{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		TagIDs:      req.TagIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    post,
		"message": "post updated successfully",
		"success": true,
	})
}

// DeletePost handles DELETE /api/post/:id. Admin only. Comments, likes and
// taxonomy links go with the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("post with id %d deleted successfully", id), true)
}

// LikePost handles POST /api/post/:id/like. A repeat like is reported with
// success false but still returns 200.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user := s.currentUser(c)
	changed, err := s.postService.LikePost(c.Context(), user.ID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if !changed {
		return respondMessage(c, fiber.StatusOK,
			fmt.Sprintf("post with id: %d has already been liked by user with id: %d", id, user.ID), false)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("post with id: %d liked successfully by user with id: %d", id, user.ID), true)
}

// UnlikePost handles POST /api/post/:id/unlike.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user := s.currentUser(c)
	changed, err := s.postService.UnlikePost(c.Context(), user.ID, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if !changed {
		return respondMessage(c, fiber.StatusOK,
			fmt.Sprintf("user with id: %d didnt like post with id: %d before", user.ID, id), false)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("post with id: %d unliked successfully by user with id: %d", id, user.ID), true)
}

// GetPostComments handles GET /api/post/:id/comments.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page, perPage := s.pageParams(c)
	path := fmt.Sprintf("/api/post/%d/comments", id)
	comments, err := s.commentService.ListByPost(c.Context(), id, path, page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, comments)
}
