package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/utils"
)

// CommentHandler binds the comment controller to HTTP.
type CommentHandler struct {
	comments *controllers.CommentController
	cache    *utils.Cache
}

// NewCommentHandler creates a CommentHandler with its dependencies injected.
func NewCommentHandler(comments *controllers.CommentController, cache *utils.Cache) *CommentHandler {
	return &CommentHandler{comments: comments, cache: cache}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create handles POST /api/v1/posts/:id/comments. The cached post list shows
// comment counts, so it is dropped after a write.
func (h *CommentHandler) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	comment, err := h.comments.Create(postID, userID, utils.Sanitize(req.Content))
	if err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Created(ctx, comment)
}

// ListByPost handles GET /api/v1/posts/:id/comments. Oldest first; an absent
// post yields an empty list.
func (h *CommentHandler) ListByPost(ctx *gin.Context) {
	postID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	comments, err := h.comments.GetByPostID(postID)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	utils.Success(ctx, comments)
}

// Get handles GET /api/v1/comments/:id.
func (h *CommentHandler) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	comment, err := h.comments.GetByID(id)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// Update handles PUT /api/v1/comments/:id.
func (h *CommentHandler) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	comment, err := h.comments.Update(id, utils.Sanitize(req.Content), userID)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	utils.Success(ctx, comment)
}

// Delete handles DELETE /api/v1/comments/:id.
func (h *CommentHandler) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := h.comments.Delete(id, userID); err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	utils.Success(ctx, gin.H{"deleted": true})
}
