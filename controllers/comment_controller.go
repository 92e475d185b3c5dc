package controllers

import (
	"errors"
	"fmt"

	"github.com/hanulso/moim/models"
)

// CommentController owns comment CRUD. It depends read-only on the post and
// user controllers to check referential integrity before writing.
type CommentController struct {
	comments *models.CommentStore
	posts    *PostController
	users    *UserController
}

// NewCommentController creates a CommentController with its dependencies
// injected.
func NewCommentController(comments *models.CommentStore, posts *PostController, users *UserController) *CommentController {
	return &CommentController{comments: comments, posts: posts, users: users}
}

// Create validates the referenced post and author, then persists the comment.
// Author display fields come from the live join on read, so they are not
// frozen at creation time.
func (c *CommentController) Create(postID, authorID uint, content string) (*CommentInfo, error) {
	if _, err := c.posts.GetByID(postID, false); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: post %d not found", models.ErrInvalidInput, postID)
		}
		return nil, err
	}
	author, err := c.users.GetPublicInfo(authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("%w: author %d not found", models.ErrInvalidInput, authorID)
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	comment := models.Comment{
		PostID:  postID,
		UserID:  authorID,
		Content: content,
	}
	if err := c.comments.Create(&comment); err != nil {
		return nil, err
	}
	return newCommentInfo(&comment), nil
}

// GetByPostID returns the post's comments oldest first, ties broken by id.
// An absent post simply has no comments.
func (c *CommentController) GetByPostID(postID uint) ([]CommentInfo, error) {
	comments, err := c.comments.FindByPost(postID)
	if err != nil {
		return nil, err
	}
	infos := make([]CommentInfo, 0, len(comments))
	for i := range comments {
		infos = append(infos, *newCommentInfo(&comments[i]))
	}
	return infos, nil
}

// GetByID returns one comment or ErrNotFound.
func (c *CommentController) GetByID(commentID uint) (*CommentInfo, error) {
	comment, err := c.comments.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	return newCommentInfo(comment), nil
}

// Update replaces the comment body. Only the author may do this.
func (c *CommentController) Update(commentID uint, content string, actorID uint) (*CommentInfo, error) {
	comment, err := c.comments.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if !CanModify(comment.UserID, actorID) {
		return nil, fmt.Errorf("%w: only the author may update this comment", models.ErrForbidden)
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	updated, err := c.comments.UpdateContent(commentID, content)
	if err != nil {
		return nil, err
	}
	return newCommentInfo(updated), nil
}

// Delete removes the comment. Only the author may do this; the post's comment
// count is derived, so no counter adjustment is needed.
func (c *CommentController) Delete(commentID, actorID uint) error {
	comment, err := c.comments.FindByID(commentID)
	if err != nil {
		return err
	}
	if !CanModify(comment.UserID, actorID) {
		return fmt.Errorf("%w: only the author may delete this comment", models.ErrForbidden)
	}
	return c.comments.Delete(commentID)
}
