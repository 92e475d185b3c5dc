package controllers

import (
	"time"

	"github.com/hanulso/moim/models"
)

// Controller inputs and outputs are plain records. No transport or framework
// type crosses this boundary in either direction.

// PasswordHasher is the one-way credential primitive consumed by the user
// controller. The bcrypt implementation lives in utils.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// UserInfo is the public projection of a user. It never carries the
// credential field.
type UserInfo struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostInfo is the full projection of a post with author display fields and
// derived counters.
type PostInfo struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	ImageURL           *string   `json:"image_url"`
	AuthorID           uint      `json:"author_id"`
	AuthorNickname     string    `json:"author_nickname"`
	AuthorProfileImage string    `json:"author_profile_image"`
	Views              int64     `json:"views"`
	LikeCount          int64     `json:"like_count"`
	CommentCount       int64     `json:"comment_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// CommentInfo is the full projection of a comment. Author fields come from a
// live join, so they always reflect the author's current profile.
type CommentInfo struct {
	ID                 uint      `json:"id"`
	PostID             uint      `json:"post_id"`
	AuthorID           uint      `json:"author_id"`
	AuthorNickname     string    `json:"author_nickname"`
	AuthorProfileImage string    `json:"author_profile_image"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"created_at"`
}

// LikeResult reports the post state after a like toggle.
type LikeResult struct {
	Post  PostInfo `json:"post"`
	Liked bool     `json:"liked"`
}

func newUserInfo(u *models.User) *UserInfo {
	return &UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func newPostInfo(p *models.Post) *PostInfo {
	return &PostInfo{
		ID:                 p.ID,
		Title:              p.Title,
		Content:            p.Content,
		ImageURL:           p.ImageURL,
		AuthorID:           p.UserID,
		AuthorNickname:     p.User.Nickname,
		AuthorProfileImage: p.User.ProfileImage,
		Views:              p.Views,
		LikeCount:          p.LikeCount,
		CommentCount:       p.CommentCount,
		CreatedAt:          p.CreatedAt,
	}
}

func newCommentInfo(c *models.Comment) *CommentInfo {
	return &CommentInfo{
		ID:                 c.ID,
		PostID:             c.PostID,
		AuthorID:           c.UserID,
		AuthorNickname:     c.User.Nickname,
		AuthorProfileImage: c.User.ProfileImage,
		Content:            c.Content,
		CreatedAt:          c.CreatedAt,
	}
}
