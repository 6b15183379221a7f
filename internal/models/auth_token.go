package models

import (
	"time"
)

// AuthToken is the server-side half of a session. The bearer token is a signed
// JWT whose jti must match a live row here, which makes tokens revocable and
// enforces the single-active-session policy: login replaces the user's rows,
// logout deletes them.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
