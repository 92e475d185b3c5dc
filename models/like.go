package models

import "time"

// PostLike associates a user with a post they liked. The composite primary
// key guarantees at most one row per (user, post) pair, which is the backstop
// for concurrent like toggles.
type PostLike struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the association table name stable across drivers.
func (PostLike) TableName() string { return "post_likes" }
