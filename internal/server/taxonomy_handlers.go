package server

import (
	"fmt"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name     string `json:"name"`
	ParentID uint   `json:"parent_id"`
}

// GetCategories handles GET /api/category. The full set is returned
// unpaginated.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.taxonomyService.ListCategories(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondData(c, fiber.StatusOK, categories)
}

// CreateCategory handles POST /api/category. Admin only.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	category, err := s.taxonomyService.CreateCategory(c.Context(), service.CategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    category,
		"message": "Category created successfully",
		"success": true,
	})
}

// UpdateCategory handles PUT /api/category/:id. Admin only. A request that
// omits parent_id detaches the category to root.
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	category, err := s.taxonomyService.UpdateCategory(c.Context(), id, service.CategoryInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    category,
		"message": "Category updated successfully",
		"success": true,
	})
}

// DeleteCategory handles DELETE /api/category/:id. Admin only. Child
// categories survive and become roots.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.taxonomyService.DeleteCategory(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("category with id %d deleted successfully", id), true)
}

// GetCategoryPosts handles GET /api/category/:id/posts.
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page, perPage := s.pageParams(c)
	path := fmt.Sprintf("/api/category/%d/posts", id)
	posts, err := s.taxonomyService.ListPostsForCategory(c.Context(), id, path, page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, posts)
}

type tagRequest struct {
	Name string `json:"name"`
}

// GetTags handles GET /api/tag. The full set is returned unpaginated.
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.taxonomyService.ListTags(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondData(c, fiber.StatusOK, tags)
}

// GetTag handles GET /api/tag/:id.
func (s *Server) GetTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tag, err := s.taxonomyService.GetTag(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondData(c, fiber.StatusOK, tag)
}

// CreateTag handles POST /api/tag. Admin only.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req tagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	tag, err := s.taxonomyService.CreateTag(c.Context(), req.Name)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    tag,
		"message": "Tag created successfully",
		"success": true,
	})
}

// UpdateTag handles PUT /api/tag/:id. Admin only.
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req tagRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	tag, err := s.taxonomyService.UpdateTag(c.Context(), id, req.Name)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    tag,
		"message": "Tag updated successfully",
		"success": true,
	})
}

// DeleteTag handles DELETE /api/tag/:id. Admin only. Tagged posts survive.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.taxonomyService.DeleteTag(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return respondMessage(c, fiber.StatusOK,
		fmt.Sprintf("Tag with id %d deleted successfully", id), true)
}

// GetTagPosts handles GET /api/tag/:id/posts.
func (s *Server) GetTagPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page, perPage := s.pageParams(c)
	path := fmt.Sprintf("/api/tag/%d/posts", id)
	posts, err := s.taxonomyService.ListPostsForTag(c.Context(), id, path, page, perPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return respondPage(c, posts)
}
