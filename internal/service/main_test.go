package service

import (
	"context"
	"time"

	"quill/internal/models"
	"quill/internal/notifications"
	"quill/internal/pagination"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	updateFn     func(context.Context, *models.User) error
	listFn       func(context.Context, string, int, int) (*pagination.Page[models.User], error)
	listAdminsFn func(context.Context, string, int, int) (*pagination.Page[models.User], error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.User], error) {
	return s.listFn(ctx, path, page, perPage)
}
func (s *userRepoStub) ListAdmins(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.User], error) {
	return s.listAdminsFn(ctx, path, page, perPage)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:     func(context.Context, *models.User) error { return nil },
		getByIDFn:    func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		updateFn:     func(context.Context, *models.User) error { return nil },
		listFn: func(context.Context, string, int, int) (*pagination.Page[models.User], error) {
			return &pagination.Page[models.User]{}, nil
		},
		listAdminsFn: func(context.Context, string, int, int) (*pagination.Page[models.User], error) {
			return &pagination.Page[models.User]{}, nil
		},
	}
}

// tokenRepoStub is a stub for repository.TokenRepository.
type tokenRepoStub struct {
	replaceAuthTokenFn     func(context.Context, uint, string, time.Time) error
	getAuthTokenFn         func(context.Context, string) (*models.AuthToken, error)
	revokeAuthTokensFn     func(context.Context, uint) error
	storePasswordResetFn   func(context.Context, string, string) error
	consumePasswordResetFn func(context.Context, string, string) (bool, error)
}

func (s *tokenRepoStub) ReplaceAuthToken(ctx context.Context, userID uint, jti string, expiresAt time.Time) error {
	return s.replaceAuthTokenFn(ctx, userID, jti, expiresAt)
}
func (s *tokenRepoStub) GetAuthToken(ctx context.Context, jti string) (*models.AuthToken, error) {
	return s.getAuthTokenFn(ctx, jti)
}
func (s *tokenRepoStub) RevokeAuthTokens(ctx context.Context, userID uint) error {
	return s.revokeAuthTokensFn(ctx, userID)
}
func (s *tokenRepoStub) StorePasswordReset(ctx context.Context, email, tokenHash string) error {
	return s.storePasswordResetFn(ctx, email, tokenHash)
}
func (s *tokenRepoStub) ConsumePasswordReset(ctx context.Context, email, tokenHash string) (bool, error) {
	return s.consumePasswordResetFn(ctx, email, tokenHash)
}

// memoryTokenRepo behaves like the real repository, backed by maps. Handy for
// the login/authenticate round trip.
func memoryTokenRepo() *tokenRepoStub {
	sessions := map[string]*models.AuthToken{}
	resets := map[string]string{}
	return &tokenRepoStub{
		replaceAuthTokenFn: func(_ context.Context, userID uint, jti string, expiresAt time.Time) error {
			for k, v := range sessions {
				if v.UserID == userID {
					delete(sessions, k)
				}
			}
			sessions[jti] = &models.AuthToken{UserID: userID, JTI: jti, ExpiresAt: expiresAt}
			return nil
		},
		getAuthTokenFn: func(_ context.Context, jti string) (*models.AuthToken, error) {
			return sessions[jti], nil
		},
		revokeAuthTokensFn: func(_ context.Context, userID uint) error {
			for k, v := range sessions {
				if v.UserID == userID {
					delete(sessions, k)
				}
			}
			return nil
		},
		storePasswordResetFn: func(_ context.Context, email, tokenHash string) error {
			resets[email] = tokenHash
			return nil
		},
		consumePasswordResetFn: func(_ context.Context, email, tokenHash string) (bool, error) {
			if resets[email] != tokenHash {
				return false, nil
			}
			delete(resets, email)
			return true, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn                func(context.Context, *models.Post, []uint, []uint) error
	getByIDFn               func(context.Context, uint) (*models.Post, error)
	updateFn                func(context.Context, *models.Post, []uint, []uint) error
	deleteFn                func(context.Context, uint) error
	listFn                  func(context.Context, string, int, int) (*pagination.Page[models.Post], error)
	listByUserFn            func(context.Context, uint, string, int, int) (*pagination.Page[models.Post], error)
	listByCategoryFn        func(context.Context, uint, string, int, int) (*pagination.Page[models.Post], error)
	listByTagFn             func(context.Context, uint, string, int, int) (*pagination.Page[models.Post], error)
	listLikedByUserFn       func(context.Context, uint, string, int, int) (*pagination.Page[models.Post], error)
	likeFn                  func(context.Context, uint, uint) (bool, error)
	unlikeFn                func(context.Context, uint, uint) (bool, error)
	isLikedFn               func(context.Context, uint, uint) (bool, error)
	incrementCommentCountFn func(context.Context, uint, int) error
	decrementCommentCountFn func(context.Context, uint, int) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tagIDs, categoryIDs []uint) error {
	return s.createFn(ctx, post, tagIDs, categoryIDs)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post, tagIDs, categoryIDs []uint) error {
	return s.updateFn(ctx, post, tagIDs, categoryIDs)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.listFn(ctx, path, page, perPage)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.listByUserFn(ctx, userID, path, page, perPage)
}
func (s *postRepoStub) ListByCategory(ctx context.Context, categoryID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.listByCategoryFn(ctx, categoryID, path, page, perPage)
}
func (s *postRepoStub) ListByTag(ctx context.Context, tagID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.listByTagFn(ctx, tagID, path, page, perPage)
}
func (s *postRepoStub) ListLikedByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Post], error) {
	return s.listLikedByUserFn(ctx, userID, path, page, perPage)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) IncrementCommentCount(ctx context.Context, postID uint, amount int) error {
	return s.incrementCommentCountFn(ctx, postID, amount)
}
func (s *postRepoStub) DecrementCommentCount(ctx context.Context, postID uint, amount int) error {
	return s.decrementCommentCountFn(ctx, postID, amount)
}

func noopPostRepo() *postRepoStub {
	emptyPage := func(context.Context, string, int, int) (*pagination.Page[models.Post], error) {
		return &pagination.Page[models.Post]{}, nil
	}
	emptyUserPage := func(context.Context, uint, string, int, int) (*pagination.Page[models.Post], error) {
		return &pagination.Page[models.Post]{}, nil
	}
	return &postRepoStub{
		createFn:                func(context.Context, *models.Post, []uint, []uint) error { return nil },
		getByIDFn:               func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:                func(context.Context, *models.Post, []uint, []uint) error { return nil },
		deleteFn:                func(context.Context, uint) error { return nil },
		listFn:                  emptyPage,
		listByUserFn:            emptyUserPage,
		listByCategoryFn:        emptyUserPage,
		listByTagFn:             emptyUserPage,
		listLikedByUserFn:       emptyUserPage,
		likeFn:                  func(context.Context, uint, uint) (bool, error) { return true, nil },
		unlikeFn:                func(context.Context, uint, uint) (bool, error) { return true, nil },
		isLikedFn:               func(context.Context, uint, uint) (bool, error) { return false, nil },
		incrementCommentCountFn: func(context.Context, uint, int) error { return nil },
		decrementCommentCountFn: func(context.Context, uint, int) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	getByIDFn           func(context.Context, uint) (*models.Comment, error)
	updateFn            func(context.Context, *models.Comment) error
	deleteWithRepliesFn func(context.Context, uint) (int64, error)
	listByPostFn        func(context.Context, uint, string, int, int) (*pagination.Page[models.Comment], error)
	listByUserFn        func(context.Context, uint, string, int, int) (*pagination.Page[models.Comment], error)
	listAllFn           func(context.Context, string, int, int) (*pagination.Page[models.Comment], error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) DeleteWithReplies(ctx context.Context, id uint) (int64, error) {
	return s.deleteWithRepliesFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	return s.listByPostFn(ctx, postID, path, page, perPage)
}
func (s *commentRepoStub) ListByUser(ctx context.Context, userID uint, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	return s.listByUserFn(ctx, userID, path, page, perPage)
}
func (s *commentRepoStub) ListAll(ctx context.Context, path string, page, perPage int) (*pagination.Page[models.Comment], error) {
	return s.listAllFn(ctx, path, page, perPage)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:            func(context.Context, *models.Comment) error { return nil },
		getByIDFn:           func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		updateFn:            func(context.Context, *models.Comment) error { return nil },
		deleteWithRepliesFn: func(context.Context, uint) (int64, error) { return 1, nil },
		listByPostFn: func(context.Context, uint, string, int, int) (*pagination.Page[models.Comment], error) {
			return &pagination.Page[models.Comment]{}, nil
		},
		listByUserFn: func(context.Context, uint, string, int, int) (*pagination.Page[models.Comment], error) {
			return &pagination.Page[models.Comment]{}, nil
		},
		listAllFn: func(context.Context, string, int, int) (*pagination.Page[models.Comment], error) {
			return &pagination.Page[models.Comment]{}, nil
		},
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn     func(context.Context, *models.Category) error
	getByIDFn    func(context.Context, uint) (*models.Category, error)
	updateFn     func(context.Context, *models.Category) error
	deleteFn     func(context.Context, uint) error
	listAllCategoriesFn func(context.Context) ([]models.Category, error)
	missingIDsFn func(context.Context, []uint) ([]uint, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) ListAll(ctx context.Context) ([]models.Category, error) {
	return s.listAllCategoriesFn(ctx)
}
func (s *categoryRepoStub) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return s.missingIDsFn(ctx, ids)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn:  func(context.Context, *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) { return &models.Category{ID: id}, nil },
		updateFn:  func(context.Context, *models.Category) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		listAllCategoriesFn: func(context.Context) ([]models.Category, error) { return nil, nil },
		missingIDsFn: func(context.Context, []uint) ([]uint, error) { return nil, nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	createFn     func(context.Context, *models.Tag) error
	getByIDFn    func(context.Context, uint) (*models.Tag, error)
	updateFn     func(context.Context, *models.Tag) error
	deleteFn     func(context.Context, uint) error
	listAllTagsFn func(context.Context) ([]models.Tag, error)
	missingIDsFn func(context.Context, []uint) ([]uint, error)
}

func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tagRepoStub) Update(ctx context.Context, tag *models.Tag) error {
	return s.updateFn(ctx, tag)
}
func (s *tagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *tagRepoStub) ListAll(ctx context.Context) ([]models.Tag, error) {
	return s.listAllTagsFn(ctx)
}
func (s *tagRepoStub) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	return s.missingIDsFn(ctx, ids)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		createFn:  func(context.Context, *models.Tag) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Tag, error) { return &models.Tag{ID: id}, nil },
		updateFn:  func(context.Context, *models.Tag) error { return nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		listAllTagsFn: func(context.Context) ([]models.Tag, error) { return nil, nil },
		missingIDsFn: func(context.Context, []uint) ([]uint, error) { return nil, nil },
	}
}

func testDispatcher() *notifications.Dispatcher {
	return notifications.NewDispatcher(nil)
}
