package controllers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hanulso/moim/models"
)

// Stateless validation and authorization predicates. Controllers call these
// before any mutation so a rejected request leaves the store untouched.

const (
	maxTitleRunes    = 26
	maxNicknameRunes = 10
	minPasswordLen   = 8
	maxPasswordLen   = 20
	// Symbols accepted by the password composition policy.
	passwordSymbols = "!@#$%^&*(),.?\":{}|<>"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CanModify reports whether the actor owns the entity. Used identically for
// post and comment update/delete.
func CanModify(authorID, actorID uint) bool {
	return authorID == actorID
}

// ValidateEmail checks basic address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("%w: invalid email address", models.ErrInvalidInput)
	}
	return nil
}

// ValidatePassword enforces the composition policy: 8-20 characters with at
// least one uppercase letter, one lowercase letter, one digit, and one symbol
// from the fixed punctuation set.
func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < minPasswordLen || n > maxPasswordLen {
		return fmt.Errorf("%w: password must be 8-20 characters", models.ErrInvalidInput)
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("%w: password must contain an uppercase letter, a lowercase letter, a digit, and a symbol", models.ErrInvalidInput)
	}
	return nil
}

// ValidateNickname rejects empty, whitespace-containing, or overlong names.
func ValidateNickname(nickname string) error {
	if nickname == "" {
		return fmt.Errorf("%w: nickname is required", models.ErrInvalidInput)
	}
	if strings.ContainsFunc(nickname, unicode.IsSpace) {
		return fmt.Errorf("%w: nickname must not contain whitespace", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(nickname) > maxNicknameRunes {
		return fmt.Errorf("%w: nickname must be at most %d characters", models.ErrInvalidInput, maxNicknameRunes)
	}
	return nil
}

// ValidateTitle rejects empty or overlong post titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return fmt.Errorf("%w: title must be at most %d characters", models.ErrInvalidInput, maxTitleRunes)
	}
	return nil
}

// ValidateContent rejects empty bodies; applies to posts and comments alike.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", models.ErrInvalidInput)
	}
	return nil
}
