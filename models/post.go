package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a board post created by a user.
//
// LikeCount and CommentCount are derived projections, never stored columns:
// every read recomputes them from post_likes and comments so a cached value
// can never diverge from the underlying rows.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:26;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  *string   `gorm:"size:500" json:"image_url"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `json:"created_at"`

	LikeCount    int64 `gorm:"->;-:migration" json:"like_count"`
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// BeforeCreate hook ensures the timestamp is set even when not provided.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
