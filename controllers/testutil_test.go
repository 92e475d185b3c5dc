package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hanulso/moim/models"
)

// fakeHasher is a deterministic stand-in for bcrypt so tests stay fast.
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (fakeHasher) Verify(hash, plain string) bool    { return hash == "h:"+plain }

type fixture struct {
	db       *gorm.DB
	users    *UserController
	posts    *PostController
	comments *CommentController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{},
	))

	users := NewUserController(models.NewUserStore(db), fakeHasher{})
	posts := NewPostController(models.NewPostStore(db), users)
	comments := NewCommentController(models.NewCommentStore(db), posts, users)
	return &fixture{db: db, users: users, posts: posts, comments: comments}
}

func (f *fixture) register(t *testing.T, email, nickname string) *UserInfo {
	t.Helper()
	u, err := f.users.Register(email, "Abcdef1!", "Abcdef1!", nickname, "/img/"+nickname+".png")
	require.NoError(t, err)
	return u
}

func (f *fixture) createPost(t *testing.T, authorID uint, title string) *PostInfo {
	t.Helper()
	p, err := f.posts.Create(title, "content of "+strings.ToLower(title), authorID, nil)
	require.NoError(t, err)
	return p
}
