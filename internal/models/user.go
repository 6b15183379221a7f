// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles. Role changes go through promote/demote only.
const (
	TypeUser  = "user"
	TypeAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	Type            string    `gorm:"not null;default:user" json:"type"`
	ProfileImageURL string    `json:"profile_image_url"`
	RememberToken   string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Posts    []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Type == TypeAdmin
}
