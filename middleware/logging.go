package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextRequestIDKey carries the per-request id assigned by RequestLogger.
const ContextRequestIDKey = "request_id"

// RequestLogger tags each request with a uuid and writes one structured
// access-log line when it completes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()
		ctx.Set(ContextRequestIDKey, reqID)
		ctx.Header("X-Request-ID", reqID)

		ctx.Next()

		logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
		)
	}
}

// Recovery converts panics into 500 responses and logs them with the stack.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("path", ctx.Request.URL.Path),
					zap.Stack("stacktrace"),
				)
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    50000,
					"message": "internal server error",
				})
			}
		}()
		ctx.Next()
	}
}
