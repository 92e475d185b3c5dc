package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/services"
	"github.com/hanulso/moim/utils"
)

// PostHandler binds the post controller to HTTP and triggers the AI
// first-comment pipeline on creation.
type PostHandler struct {
	posts    *controllers.PostController
	pipeline *services.FirstCommentPipeline
	cache    *utils.Cache
}

// NewPostHandler creates a PostHandler. A nil pipeline disables the AI
// first comment.
func NewPostHandler(posts *controllers.PostController, pipeline *services.FirstCommentPipeline, cache *utils.Cache) *PostHandler {
	return &PostHandler{posts: posts, pipeline: pipeline, cache: cache}
}

type createPostRequest struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"image_url"`
}

type updatePostRequest struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"image_url"`
}

type patchPostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

// Create handles POST /api/v1/posts. The pipeline trigger happens after the
// response data is ready; the request never waits on the AI call.
func (h *PostHandler) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	title := utils.Sanitize(req.Title)
	content := utils.Sanitize(req.Content)

	post, err := h.posts.Create(title, content, userID, req.ImageURL)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	h.pipeline.Trigger(*post)
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Created(ctx, post)
}

// List handles GET /api/v1/posts. The whole response envelope is cached as
// raw bytes so hits skip serialization entirely.
func (h *PostHandler) List(ctx *gin.Context) {
	if b, hit := h.cache.GetBytes(cacheKeyPostList); hit {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	posts, err := h.posts.GetAll()
	if err != nil {
		respondErr(ctx, err)
		return
	}

	h.cache.SetJSON(cacheKeyPostList, utils.JSONResponse{Code: 0, Message: "success", Data: posts}, 0)
	utils.Success(ctx, posts)
}

// Get handles GET /api/v1/posts/:id. Never cached: the view counter must move
// on every read.
func (h *PostHandler) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	post, err := h.posts.GetByID(id, true)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	utils.Success(ctx, post)
}

// Update handles PUT /api/v1/posts/:id.
func (h *PostHandler) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req updatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	post, err := h.posts.Update(id, userID, utils.Sanitize(req.Title), utils.Sanitize(req.Content), req.ImageURL)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Success(ctx, post)
}

// PartialUpdate handles PATCH /api/v1/posts/:id. Absent fields keep their
// current values.
func (h *PostHandler) PartialUpdate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req patchPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	if req.Title == nil && req.Content == nil && req.ImageURL == nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "no fields to update")
		return
	}
	if req.Title != nil {
		s := utils.Sanitize(*req.Title)
		req.Title = &s
	}
	if req.Content != nil {
		s := utils.Sanitize(*req.Content)
		req.Content = &s
	}

	post, err := h.posts.PartialUpdate(id, userID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Success(ctx, post)
}

// Delete handles DELETE /api/v1/posts/:id.
func (h *PostHandler) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.posts.Delete(id, userID); err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Success(ctx, gin.H{"deleted": true})
}

// ToggleLike handles POST /api/v1/posts/:id/like.
func (h *PostHandler) ToggleLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	result, err := h.posts.ToggleLike(id, userID)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Success(ctx, result)
}

// IsLiked handles GET /api/v1/posts/:id/is-liked. An absent post is reported
// as not liked rather than an error.
func (h *PostHandler) IsLiked(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	utils.Success(ctx, gin.H{"liked": h.posts.IsLikedByUser(id, userID)})
}
