package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PasswordResetTTL is how long a reset token stays valid.
const PasswordResetTTL = 60 * time.Minute

// PasswordReset stores the hashed half of a password-reset token. The
// plaintext token is dispatched out-of-band and never persisted; a row is
// consumed (deleted) on successful reset, making the token single-use.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"index;not null" json:"-"`
	TokenHash string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Expired reports whether the reset token is past its validity window.
func (p *PasswordReset) Expired(now time.Time) bool {
	return now.Sub(p.CreatedAt) > PasswordResetTTL
}

// HashResetToken derives the stored form of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
