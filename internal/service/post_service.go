package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/validation"
)

// PostService implements post CRUD, the tag/category sync and like toggling.
type PostService struct {
	postRepo     repository.PostRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
}

func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
	}
}

type PostInput struct {
	UserID      uint
	Title       string
	Description string
	TagIDs      []uint
	CategoryIDs []uint
}

// validatePostInput enforces the request contract: minimum lengths, both id
// sets present, every referenced id existing.
func (s *PostService) validatePostInput(ctx context.Context, in PostInput) error {
	fields := map[string]string{}
	if err := validation.ValidatePostTitle(in.Title); err != nil {
		fields["title"] = err.Error()
	}
	if err := validation.ValidatePostDescription(in.Description); err != nil {
		fields["description"] = err.Error()
	}
	if len(in.TagIDs) == 0 {
		fields["tags"] = "The tags field is required."
	}
	if len(in.CategoryIDs) == 0 {
		fields["categories"] = "The categories field is required."
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields)
	}

	missingTags, err := s.tagRepo.MissingIDs(ctx, in.TagIDs)
	if err != nil {
		return err
	}
	if len(missingTags) > 0 {
		fields["tags"] = "The selected tags is invalid."
	}
	missingCategories, err := s.categoryRepo.MissingIDs(ctx, in.CategoryIDs)
	if err != nil {
		return err
	}
	if len(missingCategories) > 0 {
		fields["categories"] = "The selected categories is invalid."
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields)
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	if err := s.validatePostInput(ctx, in); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.postRepo.Create(ctx, post, in.TagIDs, in.CategoryIDs); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) UpdatePost(ctx context.Context, postID uint, in PostInput) (*models.Post, error) {
	if err := s.validatePostInput(ctx, in); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Title = in.Title
	post.Description = in.Description
	if err := s.postRepo.Update(ctx, post, in.TagIDs, in.CategoryIDs); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.postRepo.List(ctx, path, page, perPage)
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.postRepo.ListByUser(ctx, userID, path, page, perPage)
}

func (s *PostService) ListLikedPosts(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.postRepo.ListLikedByUser(ctx, userID, path, page, perPage)
}

// LikePost reports whether the like was newly recorded. A second like from
// the same user is a no-op, not an error.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.postRepo.Unlike(ctx, userID, postID)
}
