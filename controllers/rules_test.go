package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanulso/moim/models"
)

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"user@example.com", true},
		{"a.b+c@sub.domain.org", true},
		{"", false},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"user@nodot", false},
		{"spaces in@example.com", false},
	}
	for _, tc := range cases {
		err := ValidateEmail(tc.email)
		if tc.ok {
			assert.NoError(t, err, tc.email)
		} else {
			assert.ErrorIs(t, err, models.ErrInvalidInput, tc.email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Abcdef1!", true},
		{"valid max length", "Abcdef1!Abcdef1!Abc2", true},
		{"too short", "Ab1!xyz", false},
		{"too long", strings.Repeat("Ab1!x", 5), false},
		{"no uppercase", "abcdef1!", false},
		{"no lowercase", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no symbol", "Abcdefg1", false},
		{"symbol outside the set", "Abcdef1-", false},
		// Length is counted in runes, not bytes.
		{"multibyte under minimum", "Pa1!한한", false},
		{"multibyte at maximum", "Aa1!aaaaaaaaaaaa한한한한", true},
		{"multibyte over maximum", "Aa1!aaaaaaaaaaaa한한한한한", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
			}
		})
	}
}

func TestValidateNickname(t *testing.T) {
	cases := []struct {
		nickname string
		ok       bool
	}{
		{"alice", true},
		{"열글자닉네임입니다", true}, // multibyte runes count as one each
		{"", false},
		{"has space", false},
		{"tab\there", false},
		{"elevenchars", false},
	}
	for _, tc := range cases {
		err := ValidateNickname(tc.nickname)
		if tc.ok {
			assert.NoError(t, err, tc.nickname)
		} else {
			assert.ErrorIs(t, err, models.ErrInvalidInput, tc.nickname)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("a perfectly normal title"))
	assert.NoError(t, ValidateTitle(strings.Repeat("x", 26)))
	assert.ErrorIs(t, ValidateTitle(""), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidateTitle("   "), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidateTitle(strings.Repeat("x", 27)), models.ErrInvalidInput)
}

func TestValidateContent(t *testing.T) {
	assert.NoError(t, ValidateContent("hello"))
	assert.ErrorIs(t, ValidateContent(""), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidateContent(" \n\t "), models.ErrInvalidInput)
}

func TestCanModify(t *testing.T) {
	assert.True(t, CanModify(7, 7))
	assert.False(t, CanModify(7, 8))
}
