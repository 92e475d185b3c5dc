package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// UserStore is the data access layer for users. All mutations run inside
// store-level transactions; uniqueness violations surface as ErrDuplicateKey.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore bound to the given database handle.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create persists a new user. Email and nickname collisions, including ones
// that slip past application-level checks under concurrency, come back as
// ErrDuplicateKey from the unique indexes.
func (s *UserStore) Create(user *User) error {
	if err := s.db.Create(user).Error; err != nil {
		if isDuplicateErr(err) {
			return fmt.Errorf("%w: email or nickname already in use", ErrDuplicateKey)
		}
		return err
	}
	return nil
}

// FindByID returns the user or ErrNotFound.
func (s *UserStore) FindByID(id uint) (*User, error) {
	var user User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the user or ErrNotFound.
func (s *UserStore) FindByEmail(email string) (*User, error) {
	var user User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByNickname returns the user or ErrNotFound.
func (s *UserStore) FindByNickname(nickname string) (*User, error) {
	var user User
	if err := s.db.Where("nickname = ?", nickname).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateNickname changes the nickname and returns the refreshed row.
func (s *UserStore) UpdateNickname(id uint, nickname string) (*User, error) {
	res := s.db.Model(&User{}).Where("id = ?", id).Update("nickname", nickname)
	if res.Error != nil {
		if isDuplicateErr(res.Error) {
			return nil, fmt.Errorf("%w: nickname already in use", ErrDuplicateKey)
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(id)
}

// EnsureSystemUser returns the id of the reserved system identity, creating
// it on first boot. The row is looked up by email so renaming the bot
// nickname in config does not mint a second identity.
func (s *UserStore) EnsureSystemUser(email, nickname, profileImage, passwordHash string) (uint, error) {
	existing, err := s.FindByEmail(email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	bot := User{
		Email:        email,
		PasswordHash: passwordHash,
		Nickname:     nickname,
		ProfileImage: profileImage,
	}
	if err := s.Create(&bot); err != nil {
		return 0, err
	}
	return bot.ID, nil
}

// Delete removes the user and everything they own. The cascade is an explicit
// two-phase delete inside one transaction: likes and comments hanging off the
// user's posts go first, then the posts, then the user's own comments and
// likes, then the user row. Nothing orphaned survives a partial failure.
func (s *UserStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&Post{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&PostLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
