package server

import (
	"errors"
	"strconv"

	"quill/internal/models"
	"quill/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the error response.
var errResponseWritten = errors.New("response written")

// parseID reads a positive integer route parameter. On failure the 404
// response is written and errResponseWritten is returned.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, models.NewNotFoundError())
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// pageParams reads pagination query parameters and clamps them to bounds.
func (s *Server) pageParams(c *fiber.Ctx) (page, perPage int) {
	return pagination.Clamp(c.QueryInt("page", 1), c.QueryInt("per_page", 10))
}

// currentUser returns the authenticated user stored by AuthRequired, or nil.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// respondData writes a {data, success} envelope.
func respondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"data":    data,
		"success": true,
	})
}

// respondMessage writes a {message, success} envelope.
func respondMessage(c *fiber.Ctx, status int, message string, success bool) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": success,
	})
}

// respondPage writes a paginated collection as the response body. The
// paginator shape (data, meta, links) is the envelope itself.
func respondPage[T any](c *fiber.Ctx, page *pagination.Page[T]) error {
	return c.Status(fiber.StatusOK).JSON(page)
}
