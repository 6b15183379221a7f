package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines persistence operations for posts, their tag and
// category associations, likes and the denormalized counters.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagIDs, categoryIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post, tagIDs, categoryIDs []uint) error
	// Delete removes the post, its comments, every like on the post or its
	// comments, and the tag/category join rows, in one transaction.
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Post], error)
	ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error)
	ListByCategory(ctx context.Context, categoryID uint, path string, page, perPage int) (*pagination.Page[models.Post], error)
	ListByTag(ctx context.Context, tagID uint, path string, page, perPage int) (*pagination.Page[models.Post], error)
	ListLikedByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error)

	// Like inserts the like row and bumps like_count only when the row was
	// actually inserted. Returns whether the state changed.
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)

	IncrementCommentCount(ctx context.Context, postID uint, amount int) error
	DecrementCommentCount(ctx context.Context, postID uint, amount int) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func tagRefs(ids []uint) []models.Tag {
	tags := make([]models.Tag, len(ids))
	for i, id := range ids {
		tags[i] = models.Tag{ID: id}
	}
	return tags
}

func categoryRefs(ids []uint) []models.Category {
	categories := make([]models.Category, len(ids))
	for i, id := range ids {
		categories[i] = models.Category{ID: id}
	}
	return categories
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tagIDs, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Replace(tagRefs(tagIDs)); err != nil {
			return err
		}
		return tx.Model(post).Association("Categories").Replace(categoryRefs(categoryIDs))
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostIndex(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("User").
			Preload("Tags").
			Preload("Categories").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError()
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update rewrites the post row and replaces both association sets. The tag and
// category sets become exactly the given sets.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tagIDs, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Replace(tagRefs(tagIDs)); err != nil {
			return err
		}
		return tx.Model(post).Association("Categories").Replace(categoryRefs(categoryIDs))
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError()
			}
			return err
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("likable_type = ? AND likable_id IN ?", models.LikeComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("likable_type = ? AND likable_id = ?", models.LikePost, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Categories").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) List(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	fetch := func() (*pagination.Page[models.Post], error) {
		query := r.db.WithContext(ctx).
			Model(&models.Post{}).
			Preload("User").
			Preload("Tags").
			Preload("Categories").
			Order("created_at DESC")
		result, err := pagination.Paginate[models.Post](query, path, page, perPage)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return result, nil
	}

	// Only the default first page of the public feed is cached; it takes the
	// bulk of read traffic and is invalidated on every post write.
	if page != 1 || perPage != pagination.DefaultPerPage {
		return fetch()
	}

	var cached pagination.Page[models.Post]
	err := cache.Aside(ctx, cache.PostIndexKey(), &cached, cache.PostIndexTTL, func() error {
		result, err := fetch()
		if err != nil {
			return err
		}
		cached = *result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cached, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("Tags").
		Preload("Categories").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	result, err := pagination.Paginate[models.Post](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("User").
		Joins("JOIN post_categories ON post_categories.post_id = posts.id").
		Where("post_categories.category_id = ?", categoryID).
		Order("posts.created_at DESC")
	result, err := pagination.Paginate[models.Post](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

func (r *postRepository) ListByTag(ctx context.Context, tagID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("User").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tagID).
		Order("posts.created_at DESC")
	result, err := pagination.Paginate[models.Post](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

// ListLikedByUser orders by like recency, not post recency.
func (r *postRepository) ListLikedByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("User").
		Joins("JOIN likes ON likes.likable_id = posts.id AND likes.likable_type = ?", models.LikePost).
		Where("likes.user_id = ?", userID).
		Order("likes.id DESC")
	result, err := pagination.Paginate[models.Post](query, path, page, perPage)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return result, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.Like{
			UserID:      userID,
			LikableType: models.LikePost,
			LikableID:   postID,
		}
		// The composite unique index absorbs the concurrent double-like;
		// the counter moves only when this insert actually landed.
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		changed = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if changed {
		cache.InvalidatePost(ctx, postID)
	}
	return changed, nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND likable_type = ? AND likable_id = ?",
			userID, models.LikePost, postID).
			Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		changed = true
		return tx.Model(&models.Post{}).
			Where("id = ? AND like_count > 0", postID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if changed {
		cache.InvalidatePost(ctx, postID)
	}
	return changed, nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND likable_type = ? AND likable_id = ?", userID, models.LikePost, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) IncrementCommentCount(ctx context.Context, postID uint, amount int) error {
	if amount <= 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", amount)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// DecrementCommentCount applies only when the counter stays above zero after
// the subtraction. A decrement that would land exactly on zero is skipped;
// the API contract keeps this strict bound.
func (r *postRepository) DecrementCommentCount(ctx context.Context, postID uint, amount int) error {
	if amount <= 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND comment_count - ? > 0", postID, amount).
		UpdateColumn("comment_count", gorm.Expr("comment_count - ?", amount)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}
