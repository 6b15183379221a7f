package repository

import (
	"context"
	"errors"
	"time"

	"quill/internal/models"

	"gorm.io/gorm"
)

// TokenRepository manages session tokens and password reset tokens.
type TokenRepository interface {
	// ReplaceAuthToken deletes every session row for the user and inserts a
	// fresh one. A user holds at most one active session.
	ReplaceAuthToken(ctx context.Context, userID uint, jti string, expiresAt time.Time) error
	GetAuthToken(ctx context.Context, jti string) (*models.AuthToken, error)
	RevokeAuthTokens(ctx context.Context, userID uint) error

	StorePasswordReset(ctx context.Context, email, tokenHash string) error
	// ConsumePasswordReset deletes the matching unexpired row. Returns false
	// when no such row exists; the token is single-use.
	ConsumePasswordReset(ctx context.Context, email, tokenHash string) (bool, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) ReplaceAuthToken(ctx context.Context, userID uint, jti string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuthToken{
			UserID:    userID,
			JTI:       jti,
			ExpiresAt: expiresAt,
		}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetAuthToken returns (nil, nil) when the jti has no row, which means the
// session was revoked.
func (r *tokenRepository) GetAuthToken(ctx context.Context, jti string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) RevokeAuthTokens(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) StorePasswordReset(ctx context.Context, email, tokenHash string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PasswordReset{
			Email:     email,
			TokenHash: tokenHash,
			CreatedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) ConsumePasswordReset(ctx context.Context, email, tokenHash string) (bool, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("email = ? AND token_hash = ?", email, tokenHash).
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if reset.Expired(time.Now()) {
		// Expired rows are swept on sight.
		_ = r.db.WithContext(ctx).Delete(&reset).Error
		return false, nil
	}
	if err := r.db.WithContext(ctx).Delete(&reset).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}
