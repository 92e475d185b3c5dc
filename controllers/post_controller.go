package controllers

import (
	"fmt"
	"strings"

	"github.com/hanulso/moim/models"
)

// PostController owns post CRUD, the view counter, and the like toggle. It
// depends on the user controller read-only for author resolution and triggers
// no side effects itself; the first-comment pipeline is the caller's job.
type PostController struct {
	posts *models.PostStore
	users *UserController
}

// NewPostController creates a PostController with its dependencies injected.
func NewPostController(posts *models.PostStore, users *UserController) *PostController {
	return &PostController{posts: posts, users: users}
}

// Create validates and persists a new post. The author must resolve before
// any row is written; counters start at zero.
func (c *PostController) Create(title, content string, authorID uint, imageURL *string) (*PostInfo, error) {
	author, err := c.users.GetPublicInfo(authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("%w: author %d not found", models.ErrInvalidInput, authorID)
	}
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	post := models.Post{
		UserID:   authorID,
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	}
	if err := c.posts.Create(&post); err != nil {
		return nil, err
	}
	created, err := c.posts.FindByID(post.ID)
	if err != nil {
		return nil, err
	}
	return newPostInfo(created), nil
}

// GetAll returns every post, newest first.
func (c *PostController) GetAll() ([]PostInfo, error) {
	posts, err := c.posts.FindAll()
	if err != nil {
		return nil, err
	}
	infos := make([]PostInfo, 0, len(posts))
	for i := range posts {
		infos = append(infos, *newPostInfo(&posts[i]))
	}
	return infos, nil
}

// GetByID returns one post. With incrementView the view counter moves
// atomically with the read; a concurrent reader never observes a
// partially-applied increment.
func (c *PostController) GetByID(postID uint, incrementView bool) (*PostInfo, error) {
	var (
		post *models.Post
		err  error
	)
	if incrementView {
		post, err = c.posts.IncrementViews(postID)
	} else {
		post, err = c.posts.FindByID(postID)
	}
	if err != nil {
		return nil, err
	}
	return newPostInfo(post), nil
}

// Update replaces title, content, and image. Only the author may do this;
// id, author, created-at, and counters are never caller-settable.
func (c *PostController) Update(postID, actorID uint, title, content string, imageURL *string) (*PostInfo, error) {
	post, err := c.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if !CanModify(post.UserID, actorID) {
		return nil, fmt.Errorf("%w: only the author may update this post", models.ErrForbidden)
	}
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	updated, err := c.posts.Update(postID, map[string]interface{}{
		"title":     title,
		"content":   content,
		"image_url": imageURL,
	})
	if err != nil {
		return nil, err
	}
	return newPostInfo(updated), nil
}

// PartialUpdate changes only the provided fields, keeping the rest.
func (c *PostController) PartialUpdate(postID, actorID uint, title, content *string, imageURL *string) (*PostInfo, error) {
	post, err := c.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if !CanModify(post.UserID, actorID) {
		return nil, fmt.Errorf("%w: only the author may update this post", models.ErrForbidden)
	}
	fields := map[string]interface{}{}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if err := ValidateTitle(trimmed); err != nil {
			return nil, err
		}
		fields["title"] = trimmed
	}
	if content != nil {
		if err := ValidateContent(*content); err != nil {
			return nil, err
		}
		fields["content"] = *content
	}
	if imageURL != nil {
		fields["image_url"] = *imageURL
	}
	updated, err := c.posts.Update(postID, fields)
	if err != nil {
		return nil, err
	}
	return newPostInfo(updated), nil
}

// Delete removes the post and cascades to its comments and like rows.
func (c *PostController) Delete(postID, actorID uint) error {
	post, err := c.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if !CanModify(post.UserID, actorID) {
		return fmt.Errorf("%w: only the author may delete this post", models.ErrForbidden)
	}
	return c.posts.Delete(postID)
}

// ToggleLike flips the like state for (user, post): two states per pair,
// one transition. An even number of toggles restores the original state.
func (c *PostController) ToggleLike(postID, userID uint) (*LikeResult, error) {
	if _, err := c.posts.FindByID(postID); err != nil {
		return nil, err
	}
	liked, err := c.posts.ToggleLike(postID, userID)
	if err != nil {
		return nil, err
	}
	refreshed, err := c.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Post: *newPostInfo(refreshed), Liked: liked}, nil
}

// IsLikedByUser reports the like state without mutating anything. An absent
// post is simply not liked.
func (c *PostController) IsLikedByUser(postID, userID uint) bool {
	liked, err := c.posts.HasLike(postID, userID)
	if err != nil {
		return false
	}
	return liked
}
