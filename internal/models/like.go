package models

import (
	"time"
)

// LikeKind discriminates the polymorphic like target.
type LikeKind string

const (
	LikePost    LikeKind = "post"
	LikeComment LikeKind = "comment"
)

// LikeRef is a tagged reference to a likable entity.
type LikeRef struct {
	Kind LikeKind
	ID   uint
}

// Likable is implemented by entities that can receive likes.
type Likable interface {
	LikeRef() LikeRef
}

// Like records one user liking one target. The composite unique index is the
// source of truth for the at-most-one-like-per-(user,target) invariant; the
// repositories insert with ON CONFLICT DO NOTHING against it.
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_likes_user_target" json:"user_id"`
	LikableType LikeKind  `gorm:"not null;uniqueIndex:idx_likes_user_target" json:"likable_type"`
	LikableID   uint      `gorm:"not null;uniqueIndex:idx_likes_user_target;index" json:"likable_id"`
	CreatedAt   time.Time `json:"created_at"`
}
