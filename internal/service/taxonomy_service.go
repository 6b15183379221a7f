package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/validation"
)

// TaxonomyService implements category and tag management.
type TaxonomyService struct {
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	postRepo     repository.PostRepository
}

func NewTaxonomyService(
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	postRepo repository.PostRepository,
) *TaxonomyService {
	return &TaxonomyService{
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		postRepo:     postRepo,
	}
}

type CategoryInput struct {
	Name string
	// ParentID zero means root. An update that omits the field detaches the
	// category; absence is not "leave unchanged".
	ParentID uint
}

func (s *TaxonomyService) validateCategoryInput(ctx context.Context, in CategoryInput, selfID uint) error {
	fields := map[string]string{}
	if err := validation.ValidateCategoryName(in.Name); err != nil {
		fields["name"] = err.Error()
	}
	if in.ParentID != models.RootParentID {
		if in.ParentID == selfID {
			fields["parent_id"] = "The selected parent id is invalid."
		} else if _, err := s.categoryRepo.GetByID(ctx, in.ParentID); err != nil {
			fields["parent_id"] = "The selected parent id is invalid."
		}
	}
	if len(fields) > 0 {
		return models.NewFieldValidationError(fields)
	}
	return nil
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.validateCategoryInput(ctx, in, 0); err != nil {
		return nil, err
	}
	category := &models.Category{Name: in.Name, ParentID: in.ParentID}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TaxonomyService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	if err := s.validateCategoryInput(ctx, in, id); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = in.Name
	category.ParentID = in.ParentID
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *TaxonomyService) ListPostsForCategory(ctx context.Context, categoryID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByCategory(ctx, categoryID, path, page, perPage)
}

func (s *TaxonomyService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	if err := validation.ValidateTagName(name); err != nil {
		return nil, models.NewFieldValidationError(map[string]string{"name": err.Error()})
	}
	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TaxonomyService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

func (s *TaxonomyService) UpdateTag(ctx context.Context, id uint, name string) (*models.Tag, error) {
	if err := validation.ValidateTagName(name); err != nil {
		return nil, models.NewFieldValidationError(map[string]string{"name": err.Error()})
	}
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, id uint) error {
	return s.tagRepo.Delete(ctx, id)
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.ListAll(ctx)
}

func (s *TaxonomyService) ListPostsForTag(ctx context.Context, tagID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByTag(ctx, tagID, path, page, perPage)
}
