package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Post{}, &Comment{}, &PostLike{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, nickname string) *User {
	t.Helper()
	u := User{
		Email:        email,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Nickname:     nickname,
		ProfileImage: "/img/" + nickname + ".png",
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedPost(t *testing.T, db *gorm.DB, userID uint, title string) *Post {
	t.Helper()
	p := Post{UserID: userID, Title: title, Content: "body of " + title}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedComment(t *testing.T, db *gorm.DB, postID, userID uint, content string) *Comment {
	t.Helper()
	c := Comment{PostID: postID, UserID: userID, Content: content}
	require.NoError(t, db.Create(&c).Error)
	return &c
}
