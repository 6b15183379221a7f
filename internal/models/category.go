package models

import (
	"time"
)

// Category classifies posts. Categories form a tree of unbounded depth via
// ParentID; RootParentID marks a root node. Deleting a category re-roots its
// direct children instead of cascading.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ParentID  uint      `gorm:"not null;default:0;index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"many2many:post_categories" json:"posts,omitempty"`
}

// ParentRef returns the parent category id and whether one exists.
func (c *Category) ParentRef() (uint, bool) {
	if c.ParentID == RootParentID {
		return 0, false
	}
	return c.ParentID, true
}
