package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a board member. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Nickname     string    `gorm:"size:10;uniqueIndex;not null" json:"nickname"`
	ProfileImage string    `gorm:"size:500;not null" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate hook ensures the timestamp is set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}
