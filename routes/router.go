package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hanulso/moim/config"
	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/handlers"
	"github.com/hanulso/moim/middleware"
	"github.com/hanulso/moim/services"
	"github.com/hanulso/moim/utils"
)

// SetupRouter wires middleware, handlers, and routes onto a Gin engine. All
// dependencies arrive as parameters; nothing here reaches for globals except
// the process logger.
func SetupRouter(
	cfg config.AppConfig,
	users *controllers.UserController,
	posts *controllers.PostController,
	comments *controllers.CommentController,
	pipeline *services.FirstCommentPipeline,
	cache *utils.Cache,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.RequestLogger(utils.Logger))
	r.Use(middleware.Recovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	userHandler := handlers.NewUserHandler(users, cfg, cache)
	postHandler := handlers.NewPostHandler(posts, pipeline, cache)
	commentHandler := handlers.NewCommentHandler(comments, cache)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.GET("/me", middleware.AuthRequired(cfg.JWTSecret), userHandler.Me)
		}

		api.GET("/users/:id", userHandler.GetPublic)
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)
		api.GET("/posts/:id/comments", commentHandler.ListByPost)
		api.GET("/comments/:id", commentHandler.Get)

		protected := api.Group("")
		protected.Use(middleware.AuthRequired(cfg.JWTSecret))
		{
			protected.PATCH("/users/me/nickname", userHandler.UpdateNickname)
			protected.DELETE("/users/me", userHandler.DeleteMe)

			protected.POST("/posts", postHandler.Create)
			protected.PUT("/posts/:id", postHandler.Update)
			protected.PATCH("/posts/:id", postHandler.PartialUpdate)
			protected.DELETE("/posts/:id", postHandler.Delete)
			protected.POST("/posts/:id/like", postHandler.ToggleLike)
			protected.GET("/posts/:id/is-liked", postHandler.IsLiked)

			protected.POST("/posts/:id/comments", commentHandler.Create)
			protected.PUT("/comments/:id", commentHandler.Update)
			protected.DELETE("/comments/:id", commentHandler.Delete)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
