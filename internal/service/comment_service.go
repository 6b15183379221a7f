package service

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/policy"
	"quill/internal/repository"
	"quill/internal/validation"
)

// CommentService implements the threaded comment operations.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	ParentID uint
	Text     string
}

// CreateComment stores the comment only. It does not touch the post's
// comment counter; callers issue IncrementCommentCount as a separate step.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentText(in.Text); err != nil {
		return nil, models.NewFieldValidationError(map[string]string{"text": err.Error()})
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	if in.ParentID != models.RootParentID {
		parent, err := s.commentRepo.GetByID(ctx, in.ParentID)
		if err != nil {
			// Only a missing parent is a validation problem; storage errors
			// keep their own code.
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
				return nil, models.NewFieldValidationError(map[string]string{"parent_id": "The selected parent id is invalid."})
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewFieldValidationError(map[string]string{"parent_id": "The selected parent id is invalid."})
		}
	}

	comment := &models.Comment{
		UserID:   in.UserID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
		Text:     in.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// IncrementCommentCount is the second half of the two-step comment creation.
func (s *CommentService) IncrementCommentCount(ctx context.Context, postID uint, amount int) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.IncrementCommentCount(ctx, postID, amount)
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// UpdateComment allows only the author or an admin to edit, and only the text.
func (s *CommentService) UpdateComment(ctx context.Context, actor *models.User, commentID uint, text string) (*models.Comment, error) {
	if err := validation.ValidateCommentText(text); err != nil {
		return nil, models.NewFieldValidationError(map[string]string{"text": err.Error()})
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditComment(actor, comment) {
		return nil, models.NewAuthorizationError("This action is unauthorized.")
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteCommentWithReplies removes the comment and its whole reply subtree,
// then decrements the post counter by the number of rows actually removed.
func (s *CommentService) DeleteCommentWithReplies(ctx context.Context, commentID uint) (int64, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return 0, err
	}

	removed, err := s.commentRepo.DeleteWithReplies(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if err := s.postRepo.DecrementCommentCount(ctx, comment.PostID, int(removed)); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID, path, page, perPage)
}

func (s *CommentService) ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	return s.commentRepo.ListByUser(ctx, userID, path, page, perPage)
}

func (s *CommentService) ListAll(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	return s.commentRepo.ListAll(ctx, path, page, perPage)
}
