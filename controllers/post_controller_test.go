package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanulso/moim/models"
)

func TestPostCreate(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")

	img := "/uploads/pic.png"
	post, err := f.posts.Create("  padded title  ", "body", alice.ID, &img)
	require.NoError(t, err)
	assert.Equal(t, "padded title", post.Title)
	assert.Equal(t, alice.ID, post.AuthorID)
	assert.Equal(t, "alice", post.AuthorNickname)
	require.NotNil(t, post.ImageURL)
	assert.Equal(t, img, *post.ImageURL)
	assert.Zero(t, post.Views)
	assert.Zero(t, post.LikeCount)
	assert.Zero(t, post.CommentCount)
}

func TestPostCreateValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")

	_, err := f.posts.Create("", "body", alice.ID, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.posts.Create(strings.Repeat("x", 27), "body", alice.ID, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.posts.Create("title", "", alice.ID, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	// Unknown author is rejected before any row is written.
	_, err = f.posts.Create("title", "body", 9999, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	var count int64
	require.NoError(t, f.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostGetByIDViewIncrement(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")
	post := f.createPost(t, alice.ID, "viewed")

	for i := int64(1); i <= 3; i++ {
		got, err := f.posts.GetByID(post.ID, true)
		require.NoError(t, err)
		assert.Equal(t, i, got.Views)
	}

	// Reads without the flag never move the counter.
	got, err := f.posts.GetByID(post.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Views)

	_, err = f.posts.GetByID(9999, true)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostUpdateAuthorization(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")
	bob := f.register(t, "b@example.com", "bob")
	post := f.createPost(t, alice.ID, "original")

	_, err := f.posts.Update(post.ID, bob.ID, "hijacked", "nope", nil)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// A forbidden update leaves the post exactly as it was.
	unchanged, err := f.posts.GetByID(post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, post.Title, unchanged.Title)
	assert.Equal(t, post.Content, unchanged.Content)

	updated, err := f.posts.Update(post.ID, alice.ID, "revised", "new body", nil)
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Title)
	assert.Equal(t, "new body", updated.Content)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)
	assert.Equal(t, post.AuthorID, updated.AuthorID)
}

func TestPostPartialUpdate(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")
	post := f.createPost(t, alice.ID, "original")

	newTitle := "patched"
	updated, err := f.posts.PartialUpdate(post.ID, alice.ID, &newTitle, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "patched", updated.Title)
	assert.Equal(t, post.Content, updated.Content)

	bad := strings.Repeat("x", 27)
	_, err = f.posts.PartialUpdate(post.ID, alice.ID, &bad, nil, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	bob := f.register(t, "b@example.com", "bob")
	_, err = f.posts.PartialUpdate(post.ID, bob.ID, &newTitle, nil, nil)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestPostDeleteCascadesAndAuthorization(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")
	bob := f.register(t, "b@example.com", "bob")
	post := f.createPost(t, alice.ID, "doomed")

	comment, err := f.comments.Create(post.ID, bob.ID, "will vanish")
	require.NoError(t, err)
	_, err = f.posts.ToggleLike(post.ID, bob.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.posts.Delete(post.ID, bob.ID), models.ErrForbidden)
	require.NoError(t, f.posts.Delete(post.ID, alice.ID))

	_, err = f.posts.GetByID(post.ID, false)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.comments.GetByID(comment.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, f.posts.IsLikedByUser(post.ID, bob.ID))

	assert.ErrorIs(t, f.posts.Delete(post.ID, alice.ID), models.ErrNotFound)
}

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")
	bob := f.register(t, "b@example.com", "bob")
	post := f.createPost(t, alice.ID, "likeable")

	result, err := f.posts.ToggleLike(post.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.EqualValues(t, 1, result.Post.LikeCount)

	result, err = f.posts.ToggleLike(post.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.EqualValues(t, 2, result.Post.LikeCount)

	result, err = f.posts.ToggleLike(post.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.EqualValues(t, 1, result.Post.LikeCount)

	_, err = f.posts.ToggleLike(9999, bob.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIsLikedByUserAbsentPost(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "a@example.com", "alice")

	assert.False(t, f.posts.IsLikedByUser(9999, alice.ID))
}
