package server

import (
	"fmt"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	PostID   uint   `json:"post_id"`
	ParentID uint   `json:"parent_id"`
	Text     string `json:"text"`
}

// GetComments handles GET /api/comment. Admin only.
func (s *Server) GetComments(c *fiber.Ctx) error {
	page, perPage := s.pageParams(c)
	comments, err := s.commentService.ListAll(c.Context(), "/api/comment", page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, comments)
}

// CreateComment handles POST /api/comment. Creation and the post counter
// update are two separate service calls; the comment exists before the
// counter moves.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user := s.currentUser(c)
	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:   user.ID,
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Text:     req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.commentService.IncrementCommentCount(c.Context(), comment.PostID, 1); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    comment,
		"message": "Comment created successfully",
		"success": true,
	})
}

type commentUpdateRequest struct {
	Text string `json:"text"`
}

// UpdateComment handles PUT /api/comment/:id. Authors may edit their own
// comments; admins may edit any.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), s.currentUser(c), id, req.Text)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    comment,
		"message": fmt.Sprintf("Comment with id %d updated successfully", id),
		"success": true,
	})
}

// DeleteComment handles DELETE /api/comment/:id. Admin only. Replies are
// removed with the comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.commentService.DeleteCommentWithReplies(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("Comment with id %d and its replies deleted successfully", id), true)
}
