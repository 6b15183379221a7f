package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/validation"
)

// UserService exposes profile reads and updates.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileInput struct {
	UserID          uint
	Name            string
	ProfileImageURL string
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.User], error) {
	return s.userRepo.List(ctx, path, page, perPage)
}

func (s *UserService) ListAdmins(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.User], error) {
	return s.userRepo.ListAdmins(ctx, path, page, perPage)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	fields := map[string]string{}
	if err := validation.ValidateName(in.Name); err != nil {
		fields["name"] = err.Error()
	}
	if in.ProfileImageURL == "" {
		fields["profile_image_url"] = "The profile image url field is required."
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	user.Name = in.Name
	user.ProfileImageURL = in.ProfileImageURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
