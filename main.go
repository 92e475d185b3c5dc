package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hanulso/moim/config"
	"github.com/hanulso/moim/controllers"
	"github.com/hanulso/moim/models"
	"github.com/hanulso/moim/routes"
	"github.com/hanulso/moim/services"
	"github.com/hanulso/moim/utils"
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(cfg,
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
	)

	userStore := models.NewUserStore(db)
	postStore := models.NewPostStore(db)
	commentStore := models.NewCommentStore(db)

	hasher := utils.BcryptHasher{}
	userController := controllers.NewUserController(userStore, hasher)
	postController := controllers.NewPostController(postStore, userController)
	commentController := controllers.NewCommentController(commentStore, postController, userController)

	var pipeline *services.FirstCommentPipeline
	if cfg.AICommentEnabled {
		// The bot account never logs in; its credential is a throwaway.
		botSecret, err := hasher.Hash(uuid.NewString())
		if err != nil {
			utils.Sugar.Fatalf("failed to hash bot credential: %v", err)
		}
		botID, err := userStore.EnsureSystemUser(cfg.BotEmail, cfg.BotNickname, cfg.BotProfileImage, botSecret)
		if err != nil {
			utils.Sugar.Fatalf("failed to ensure bot account: %v", err)
		}

		fallback := ""
		if cfg.AIFallbackEnabled {
			fallback = cfg.AIFallbackComment
		}
		pipeline = services.NewFirstCommentPipeline(
			commentController,
			services.NewOpenRouterClient(cfg, utils.Sugar),
			botID,
			fallback,
			time.Duration(cfg.AITimeoutSeconds)*time.Second,
			utils.Sugar,
		)
		utils.Sugar.Infow("ai first-comment pipeline enabled", "bot_user_id", botID, "model", cfg.AIModel)
	}

	cache := utils.NewCache(utils.NewRedisClient(cfg), utils.Sugar)

	r := routes.SetupRouter(cfg, userController, postController, commentController, pipeline, cache)

	utils.Sugar.Infof("listening on :%s", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server error: %v", err)
	}
}
