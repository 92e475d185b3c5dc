package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hanulso/moim/config"
	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/models"
)

type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (stubHasher) Verify(hash, plain string) bool    { return hash == "h:"+plain }

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) GenerateComment(ctx context.Context, title, content string) (string, error) {
	return s.text, s.err
}

type pipelineFixture struct {
	comments *controllers.CommentController
	botID    uint
	postID   uint
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{},
	))

	userStore := models.NewUserStore(db)
	users := controllers.NewUserController(userStore, stubHasher{})
	posts := controllers.NewPostController(models.NewPostStore(db), users)
	comments := controllers.NewCommentController(models.NewCommentStore(db), posts, users)

	author, err := users.Register("a@example.com", "Abcdef1!", "Abcdef1!", "alice", "/a.png")
	require.NoError(t, err)
	botID, err := userStore.EnsureSystemUser("bot@local", "bot", "/bot.png", "hash")
	require.NoError(t, err)

	post, err := posts.Create("a fine title", "a fine body", author.ID, nil)
	require.NoError(t, err)

	return &pipelineFixture{comments: comments, botID: botID, postID: post.ID}
}

func (f *pipelineFixture) commentContents(t *testing.T) []string {
	t.Helper()
	list, err := f.comments.GetByPostID(f.postID)
	require.NoError(t, err)
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Content)
	}
	return out
}

func TestPipelinePostsGeneratedComment(t *testing.T) {
	f := newPipelineFixture(t)
	p := NewFirstCommentPipeline(f.comments, stubGenerator{text: "  a thoughtful summary  "}, f.botID, "fallback", time.Second, nil)

	p.run(f.postID, "a fine title", "a fine body")

	assert.Equal(t, []string{"a thoughtful summary"}, f.commentContents(t))
}

func TestPipelineFallsBackOnGeneratorError(t *testing.T) {
	f := newPipelineFixture(t)
	gen := stubGenerator{err: models.ErrUpstreamUnavailable}
	p := NewFirstCommentPipeline(f.comments, gen, f.botID, "fallback text here", time.Second, nil)

	p.run(f.postID, "a fine title", "a fine body")

	assert.Equal(t, []string{"fallback text here"}, f.commentContents(t))
}

func TestPipelineFallsBackOnShortText(t *testing.T) {
	f := newPipelineFixture(t)
	// Five trimmed runes or fewer counts as a failed generation.
	p := NewFirstCommentPipeline(f.comments, stubGenerator{text: "  ok!  "}, f.botID, "fallback text here", time.Second, nil)

	p.run(f.postID, "a fine title", "a fine body")

	assert.Equal(t, []string{"fallback text here"}, f.commentContents(t))
}

func TestPipelineSkipsWhenFallbackDisabled(t *testing.T) {
	f := newPipelineFixture(t)
	p := NewFirstCommentPipeline(f.comments, stubGenerator{err: errors.New("boom")}, f.botID, "", time.Second, nil)

	p.run(f.postID, "a fine title", "a fine body")

	assert.Empty(t, f.commentContents(t))
}

func TestPipelineAbsorbsDeletedPost(t *testing.T) {
	f := newPipelineFixture(t)
	p := NewFirstCommentPipeline(f.comments, stubGenerator{text: "a thoughtful summary"}, f.botID, "fallback", time.Second, nil)

	// The target disappears between trigger and completion.
	p.run(f.postID+1000, "gone", "gone")

	assert.Empty(t, f.commentContents(t))
}

func TestNilPipelineTriggerIsNoop(t *testing.T) {
	var p *FirstCommentPipeline
	p.Trigger(controllers.PostInfo{ID: 1})
}

func newClientFor(url, key string) *OpenRouterClient {
	return NewOpenRouterClient(config.AppConfig{
		AIAPIURL:         url,
		OpenRouterAPIKey: key,
		AIModel:          "test-model",
		AITimeoutSeconds: 2,
	}, nil)
}

func TestOpenRouterClientSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"a generated comment"}}]}`))
	}))
	defer srv.Close()

	text, err := newClientFor(srv.URL, "sk-test").GenerateComment(context.Background(), "title", "content")
	require.NoError(t, err)
	assert.Equal(t, "a generated comment", text)
}

func TestOpenRouterClientUpstreamFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
		{"empty choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := newClientFor(srv.URL, "sk-test").GenerateComment(context.Background(), "t", "c")
			assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
		})
	}
}

func TestOpenRouterClientMissingKey(t *testing.T) {
	_, err := newClientFor("http://127.0.0.1:0", "").GenerateComment(context.Background(), "t", "c")
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestOpenRouterClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newClientFor(srv.URL, "sk-test").GenerateComment(ctx, "t", "c")
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
