package repository

import (
	"context"
	"errors"

	"quill/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete re-roots direct children before removing the row. Children are
	// kept, not cascaded.
	Delete(ctx context.Context, id uint) error
	// ListAll returns every category. The set is small; the index endpoint
	// serves it unpaginated.
	ListAll(ctx context.Context) ([]models.Category, error)
	// MissingIDs returns the subset of ids with no matching category row.
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError()
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	// Save skips zero-valued fields with Updates, so use Select to keep the
	// parent reset to root writable.
	err := r.db.WithContext(ctx).
		Model(category).
		Select("name", "parent_id").
		Updates(map[string]any{
			"name":      category.Name,
			"parent_id": category.ParentID,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError()
			}
			return err
		}

		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			UpdateColumn("parent_id", models.RootParentID).Error; err != nil {
			return err
		}

		if err := tx.Model(&category).Association("Posts").Clear(); err != nil {
			return err
		}

		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return missingIDs(r.db.WithContext(ctx), &models.Category{}, ids)
}

// missingIDs reports which of the given ids have no row of the given model.
func missingIDs(db *gorm.DB, model any, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := db.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
