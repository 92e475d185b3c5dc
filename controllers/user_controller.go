package controllers

import (
	"errors"
	"fmt"

	"github.com/hanulso/moim/models"
)

// UserController owns registration, authentication, and account lifecycle.
// It talks to the store through an injected handle and never returns the
// credential field.
type UserController struct {
	users  *models.UserStore
	hasher PasswordHasher
}

// NewUserController creates a UserController with its dependencies injected.
func NewUserController(users *models.UserStore, hasher PasswordHasher) *UserController {
	return &UserController{users: users, hasher: hasher}
}

// Register validates the registration input, hashes the credential, and
// persists a new user. Validation runs in full before the store is touched.
func (c *UserController) Register(email, password, passwordConfirm, nickname, profileImage string) (*UserInfo, error) {
	if profileImage == "" {
		return nil, fmt.Errorf("%w: profile image is required", models.ErrInvalidInput)
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidateNickname(nickname); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if password != passwordConfirm {
		return nil, fmt.Errorf("%w: passwords do not match", models.ErrInvalidInput)
	}

	if _, err := c.users.FindByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", models.ErrDuplicateKey)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if _, err := c.users.FindByNickname(nickname); err == nil {
		return nil, fmt.Errorf("%w: nickname already in use", models.ErrDuplicateKey)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
		ProfileImage: profileImage,
	}
	if err := c.users.Create(&user); err != nil {
		return nil, err
	}
	return newUserInfo(&user), nil
}

// Login verifies the credential and returns the public projection. Unknown
// email and wrong password are indistinguishable to the caller.
func (c *UserController) Login(email, password string) (*UserInfo, error) {
	user, err := c.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrAuthFailed
		}
		return nil, err
	}
	if !c.hasher.Verify(user.PasswordHash, password) {
		return nil, models.ErrAuthFailed
	}
	return newUserInfo(user), nil
}

// GetPublicInfo resolves a user for display. An unknown id is not an error
// here; callers decide whether absence is fatal.
func (c *UserController) GetPublicInfo(userID uint) (*UserInfo, error) {
	user, err := c.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return newUserInfo(user), nil
}

// UpdateNickname changes the user's nickname. Setting the current value is a
// no-op success; a value held by another user fails with ErrDuplicateKey.
func (c *UserController) UpdateNickname(userID uint, newNickname string) (*UserInfo, error) {
	user, err := c.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Nickname == newNickname {
		return newUserInfo(user), nil
	}
	if err := ValidateNickname(newNickname); err != nil {
		return nil, err
	}
	if existing, err := c.users.FindByNickname(newNickname); err == nil && existing.ID != userID {
		return nil, fmt.Errorf("%w: nickname already in use", models.ErrDuplicateKey)
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	updated, err := c.users.UpdateNickname(userID, newNickname)
	if err != nil {
		return nil, err
	}
	return newUserInfo(updated), nil
}

// Delete removes the user and everything they own: posts, comments on those
// posts, their own comments, and like rows, all in one transaction.
func (c *UserController) Delete(userID uint) error {
	if _, err := c.users.FindByID(userID); err != nil {
		return err
	}
	return c.users.Delete(userID)
}
