package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hanulso/moim/config"
	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/models"
)

const (
	// Posts longer than this are previewed, not sent whole.
	contentPreviewRunes = 300
	// Generated text at or below this length is treated as a failure.
	minGeneratedRunes = 5
)

// CommentGenerator produces a short comment for a post. The OpenRouter client
// is the production implementation; tests substitute their own.
type CommentGenerator interface {
	GenerateComment(ctx context.Context, title, content string) (string, error)
}

// OpenRouterClient calls the OpenRouter chat-completions API.
type OpenRouterClient struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
	log    *zap.SugaredLogger
}

// NewOpenRouterClient builds a client from configuration. The HTTP client
// timeout bounds every call regardless of caller context.
func NewOpenRouterClient(cfg config.AppConfig, log *zap.SugaredLogger) *OpenRouterClient {
	timeout := time.Duration(cfg.AITimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenRouterClient{
		apiURL: cfg.AIAPIURL,
		apiKey: cfg.OpenRouterAPIKey,
		model:  cfg.AIModel,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateComment asks the model for a short summary comment on the post.
// Every failure mode maps to ErrUpstreamUnavailable; callers decide what to
// do with it.
func (c *OpenRouterClient) GenerateComment(ctx context.Context, title, content string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no API key configured", models.ErrUpstreamUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    buildMessages(title, content),
		Temperature: 0.7,
		MaxTokens:   150,
		TopP:        0.9,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "https://github.com/hanulso/moim")
	req.Header.Set("X-Title", "Moim Community AI Comment")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: malformed response", models.ErrUpstreamUnavailable)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", models.ErrUpstreamUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildMessages(title, content string) []chatMessage {
	preview := content
	if utf8.RuneCountInString(preview) > contentPreviewRunes {
		preview = string([]rune(preview)[:contentPreviewRunes])
	}
	return []chatMessage{
		{
			Role:    "system",
			Content: "You are a summarization expert. Analyze the post and write a short summary comment.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(
				"Summarize the following post in two or three friendly sentences that invite discussion.\n\nTitle: %s\nContent: %s\n\nComment:",
				title, preview,
			),
		},
	}
}

// FirstCommentPipeline posts an AI-authored first comment after post
// creation. It is fire-and-forget: one attempt, no retry, and nothing it does
// or fails to do ever reaches the request that spawned it.
type FirstCommentPipeline struct {
	comments  *controllers.CommentController
	gen       CommentGenerator
	botUserID uint
	fallback  string // empty disables the fallback comment
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// NewFirstCommentPipeline wires the pipeline. The comment controller gets its
// own transactions from the pool, so runs never share state with a request.
func NewFirstCommentPipeline(comments *controllers.CommentController, gen CommentGenerator, botUserID uint, fallback string, timeout time.Duration, log *zap.SugaredLogger) *FirstCommentPipeline {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FirstCommentPipeline{
		comments:  comments,
		gen:       gen,
		botUserID: botUserID,
		fallback:  fallback,
		timeout:   timeout,
		log:       log,
	}
}

// Trigger spawns the pipeline for a freshly created post. The snapshot is
// captured here; later edits to the post do not affect the run. A nil
// pipeline (feature disabled) is a no-op.
func (p *FirstCommentPipeline) Trigger(post controllers.PostInfo) {
	if p == nil {
		return
	}
	go p.run(post.ID, post.Title, post.Content)
}

func (p *FirstCommentPipeline) run(postID uint, title, content string) {
	defer func() {
		if r := recover(); r != nil && p.log != nil {
			p.log.Errorf("ai comment pipeline panic post=%d: %v", postID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	text, err := p.gen.GenerateComment(ctx, title, content)
	text = strings.TrimSpace(text)
	if err != nil || utf8.RuneCountInString(text) <= minGeneratedRunes {
		if p.log != nil {
			p.log.Warnf("ai comment generation failed post=%d len=%d err=%v", postID, utf8.RuneCountInString(text), err)
		}
		if p.fallback == "" {
			return
		}
		text = p.fallback
	}

	if _, err := p.comments.Create(postID, p.botUserID, text); err != nil {
		// The post may have been deleted in the meantime; nothing to do.
		if p.log != nil {
			p.log.Warnf("ai comment create failed post=%d err=%v", postID, err)
		}
	}
}
