package models

import (
	"time"
)

// Post represents a blog post. LikeCount and CommentCount are denormalized
// counters maintained incrementally by the repositories; they are never
// accepted from clients.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	LikeCount    int       `gorm:"not null;default:0" json:"like_count"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Tags       []Tag      `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Categories []Category `gorm:"many2many:post_categories" json:"categories,omitempty"`
	Comments   []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// LikeRef implements Likable.
func (p *Post) LikeRef() LikeRef {
	return LikeRef{Kind: LikePost, ID: p.ID}
}
