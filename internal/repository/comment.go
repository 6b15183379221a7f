package repository

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/pagination"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	// DeleteWithReplies removes the comment and its entire reply subtree in
	// one transaction and reports how many rows were removed.
	DeleteWithReplies(ctx context.Context, id uint) (int64, error)

	ListByPost(ctx context.Context, postID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error)
	ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error)
	ListAll(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Comment], error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError()
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Comment
		if err := tx.First(&root, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError()
			}
			return err
		}

		// Breadth-first walk of the reply tree. The sentinel root parent is
		// never a real comment id, so the walk cannot cycle through it.
		subtree := []uint{id}
		frontier := []uint{id}
		for len(frontier) > 0 {
			var children []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			subtree = append(subtree, children...)
			frontier = children
		}

		if err := tx.Where("likable_type = ? AND likable_id IN ?", models.LikeComment, subtree).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", subtree).Delete(&models.Comment{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return 0, err
		}
		return 0, models.NewInternalError(err)
	}
	return removed, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC")
	result, err := pagination.Paginate[models.Comment](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

func (r *commentRepository) ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	result, err := pagination.Paginate[models.Comment](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

func (r *commentRepository) ListAll(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Preload("User").
		Order("created_at DESC")
	result, err := pagination.Paginate[models.Comment](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}
