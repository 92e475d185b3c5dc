package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hanulso/moim/config"
	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/utils"
)

const tokenLifetime = 72 * time.Hour

// UserHandler binds the user controller to HTTP.
type UserHandler struct {
	users *controllers.UserController
	cfg   config.AppConfig
	cache *utils.Cache
}

// NewUserHandler creates a UserHandler with its dependencies injected.
func NewUserHandler(users *controllers.UserController, cfg config.AppConfig, cache *utils.Cache) *UserHandler {
	return &UserHandler{users: users, cfg: cfg, cache: cache}
}

type registerRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	Nickname        string `json:"nickname" binding:"required"`
	ProfileImage    string `json:"profile_image" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type nicknameRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

type authResponse struct {
	Token string                `json:"token"`
	User  *controllers.UserInfo `json:"user"`
}

// Register handles POST /api/v1/auth/register.
func (h *UserHandler) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	user, err := h.users.Register(req.Email, req.Password, req.PasswordConfirm, req.Nickname, req.ProfileImage)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Nickname, tokenLifetime)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	utils.Created(ctx, authResponse{Token: token, User: user})
}

// Login handles POST /api/v1/auth/login.
func (h *UserHandler) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	user, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		respondErr(ctx, err)
		return
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Nickname, tokenLifetime)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	utils.Success(ctx, authResponse{Token: token, User: user})
}

// Me handles GET /api/v1/auth/me.
func (h *UserHandler) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	user, err := h.users.GetPublicInfo(userID)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	if user == nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "resource not found")
		return
	}
	utils.Success(ctx, user)
}

// UpdateNickname handles PATCH /api/v1/users/me/nickname. The post list and
// public user caches are stale after a rename, so both prefixes are dropped.
func (h *UserHandler) UpdateNickname(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	var req nicknameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}
	user, err := h.users.UpdateNickname(userID, req.Nickname)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	h.cache.InvalidateByPrefix(cachePrefixUsers)
	utils.Success(ctx, user)
}

// DeleteMe handles DELETE /api/v1/users/me.
func (h *UserHandler) DeleteMe(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	if err := h.users.Delete(userID); err != nil {
		respondErr(ctx, err)
		return
	}
	h.cache.InvalidateByPrefix(cachePrefixPosts)
	h.cache.InvalidateByPrefix(cachePrefixUsers)
	utils.Success(ctx, gin.H{"deleted": true})
}

// GetPublic handles GET /api/v1/users/:id. Responses are cached per user id
// and invalidated whenever any user mutates.
func (h *UserHandler) GetPublic(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	key := cacheKeyUserPrefix + ctx.Param("id")
	if b, hit := h.cache.GetBytes(key); hit {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	user, err := h.users.GetPublicInfo(id)
	if err != nil {
		respondErr(ctx, err)
		return
	}
	if user == nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "resource not found")
		return
	}

	h.cache.SetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: user}, 0)
	utils.Success(ctx, user)
}
