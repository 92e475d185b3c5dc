package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hanulso/moim/middleware"
	"github.com/hanulso/moim/models"
	"github.com/hanulso/moim/utils"
)

// Cache key prefixes. Writers invalidate by prefix; readers treat any miss as
// a fall-through to the store.
const (
	cacheKeyPostList   = "cache:posts:list:all"
	cacheKeyUserPrefix = "cache:user:public:"
	cachePrefixPosts   = "cache:posts:"
	cachePrefixUsers   = "cache:user:"
)

// respondErr maps domain errors onto HTTP status and response codes. Unmapped
// errors become a generic 500 so internals never leak to clients.
func respondErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, 40001, err.Error())
	case errors.Is(err, models.ErrAuthFailed):
		utils.Error(ctx, http.StatusUnauthorized, 40101, "invalid email or password")
	case errors.Is(err, models.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40301, err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "resource not found")
	case errors.Is(err, models.ErrDuplicateKey):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

// currentUserID pulls the authenticated user id set by the auth middleware.
func currentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid "+name+" parameter")
		return 0, false
	}
	return uint(n), true
}
