package models

import (
	"time"
)

// RootParentID is the sentinel meaning "no parent" for the self-referential
// category and comment trees. It is kept at the storage and wire boundary for
// compatibility; use ParentRef for an explicit optional reference.
const RootParentID uint = 0

// Comment represents a comment on a post. Replies form a tree via ParentID but
// every node carries PostID directly, so a descendant can resolve its post
// without walking ancestors.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ParentID  uint      `gorm:"not null;default:0;index" json:"parent_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParentRef returns the parent comment id and whether one exists.
func (c *Comment) ParentRef() (uint, bool) {
	if c.ParentID == RootParentID {
		return 0, false
	}
	return c.ParentID, true
}

// LikeRef implements Likable.
func (c *Comment) LikeRef() LikeRef {
	return LikeRef{Kind: LikeComment, ID: c.ID}
}
