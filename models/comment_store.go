package models

import (
	"errors"

	"gorm.io/gorm"
)

// CommentStore is the data access layer for comments. Reads always join the
// author row (live-join policy), so display fields follow nickname changes.
type CommentStore struct {
	db *gorm.DB
}

// NewCommentStore creates a CommentStore bound to the given database handle.
func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create persists a new comment and reloads it with its author.
func (s *CommentStore) Create(comment *Comment) error {
	if err := s.db.Create(comment).Error; err != nil {
		return err
	}
	return s.db.Preload("User").First(comment, comment.ID).Error
}

// FindByID returns the comment with its author, or ErrNotFound.
func (s *CommentStore) FindByID(id uint) (*Comment, error) {
	var comment Comment
	if err := s.db.Preload("User").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// FindByPost returns the post's comments oldest first. Equal timestamps fall
// back to id order so the sequence is stable across backfilled rows.
func (s *CommentStore) FindByPost(postID uint) ([]Comment, error) {
	var comments []Comment
	err := s.db.Preload("User").Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateContent replaces the comment body and returns the refreshed row.
// Writing the current value back is a valid no-op, so absence is detected by
// the reload rather than by RowsAffected, which MySQL reports as zero for
// unchanged rows.
func (s *CommentStore) UpdateContent(id uint, content string) (*Comment, error) {
	if err := s.db.Model(&Comment{}).Where("id = ?", id).Update("content", content).Error; err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

// Delete removes the comment. The post's comment count needs no separate
// adjustment: it is derived from the rows on every read.
func (s *CommentStore) Delete(id uint) error {
	res := s.db.Delete(&Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
