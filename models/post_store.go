package models

import (
	"errors"

	"gorm.io/gorm"
)

// postCountSelect recomputes like and comment counts from the underlying rows
// on every read. Counters are projections of the association tables, so they
// cannot drift from them.
const postCountSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) AS like_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// PostStore is the data access layer for posts and their like associations.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a PostStore bound to the given database handle.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create persists a new post.
func (s *PostStore) Create(post *Post) error {
	return s.db.Create(post).Error
}

// FindByID returns the post with derived counters and author, or ErrNotFound.
func (s *PostStore) FindByID(id uint) (*Post, error) {
	var post Post
	err := s.db.Select(postCountSelect).Preload("User").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindAll returns every post ordered newest first, counters included.
func (s *PostStore) FindAll() ([]Post, error) {
	var posts []Post
	err := s.db.Select(postCountSelect).Preload("User").
		Order("created_at DESC, id DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update applies the given column values and returns the refreshed row.
// Callers are responsible for keeping immutable fields out of the map.
// RowsAffected is not consulted here: MySQL reports zero for an update that
// sets columns to their current values, so a no-op write must not look like
// an absent row. The reload reports ErrNotFound when the row is gone.
func (s *PostStore) Update(id uint, fields map[string]interface{}) (*Post, error) {
	if len(fields) > 0 {
		if err := s.db.Model(&Post{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return s.FindByID(id)
}

// Delete removes the post, its comments, and its like rows in one
// transaction (explicit two-phase cascade).
func (s *PostStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// IncrementViews bumps the view counter as a SQL expression and returns the
// refreshed row from the same transaction. The increment never goes through
// an application-level read-modify-write, so concurrent calls cannot lose
// updates.
func (s *PostStore) IncrementViews(id uint) (*Post, error) {
	var post Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Post{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Select(postCountSelect).Preload("User").First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the like association for (user, post): present rows are
// removed, absent rows are inserted. Row mutation and the derived like count
// move in the same atomic step because the count is computed from the rows.
// A duplicate-insert race resolves to "already liked" via the composite
// primary key.
func (s *PostStore) ToggleLike(postID, userID uint) (bool, error) {
	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case err == nil:
			liked = false
			return tx.Where("post_id = ? AND user_id = ?", postID, userID).
				Delete(&PostLike{}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			if createErr := tx.Create(&PostLike{UserID: userID, PostID: postID}).Error; createErr != nil {
				if isDuplicateErr(createErr) {
					// Lost the race against a concurrent toggle; the row exists.
					return nil
				}
				return createErr
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// HasLike reports whether the (user, post) like row exists. It never fails on
// an absent post; that simply has no rows.
func (s *PostStore) HasLike(postID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
