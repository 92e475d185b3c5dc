package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values. Sensitive data has
// no in-code default and must come from config/config.json or the environment.
type AppConfig struct {
	AppPort   string
	GinMode   string
	JWTSecret string

	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	AllowedOrigins []string

	// Redis for read caches
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// AI first-comment pipeline
	AICommentEnabled  bool
	OpenRouterAPIKey  string
	AIAPIURL          string
	AIModel           string
	AITimeoutSeconds  int
	AIFallbackEnabled bool
	AIFallbackComment string
	BotEmail          string
	BotNickname       string
	BotProfileImage   string
}

var cfg AppConfig
var loaded bool

// Load reads the application configuration once during boot. Precedence:
// config/config.json -> defaults -> environment variable overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "moim"
	}
	if c.DBName == "" {
		c.DBName = "moim"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/moim.log"
	}
	if c.AIAPIURL == "" {
		c.AIAPIURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	if c.AIModel == "" {
		c.AIModel = "meta-llama/llama-3.2-3b-instruct:free"
	}
	if c.AITimeoutSeconds == 0 {
		c.AITimeoutSeconds = 30
	}
	if c.AIFallbackComment == "" {
		c.AIFallbackComment = "The AI summary is unavailable right now. Please check back later."
	}
	if c.BotEmail == "" {
		c.BotEmail = "ai-bot@moim.local"
	}
	if c.BotNickname == "" {
		c.BotNickname = "ai-bot"
	}
	if c.BotProfileImage == "" {
		c.BotProfileImage = "/static/avatars/ai-bot.png"
	}
}

func applyEnvOverrides(c *AppConfig) {
	setStr(&c.AppPort, "APP_PORT")
	setStr(&c.GinMode, "GIN_MODE")
	setStr(&c.JWTSecret, "JWT_SECRET")
	setStr(&c.DatabaseURI, "DATABASE_URI")
	setStr(&c.DBHost, "DB_HOST")
	setStr(&c.DBPort, "DB_PORT")
	setStr(&c.DBUser, "DB_USER")
	setStr(&c.DBPassword, "DB_PASSWORD")
	setStr(&c.DBName, "DB_NAME")
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
	setStr(&c.RedisHost, "REDIS_HOST")
	setInt(&c.RedisPort, "REDIS_PORT")
	setInt(&c.RedisDB, "REDIS_DB")
	setStr(&c.RedisPassword, "REDIS_PASSWORD")
	setStr(&c.LogLevel, "LOG_LEVEL")
	setStr(&c.LogPath, "LOG_PATH")
	setInt(&c.LogMaxSizeMB, "LOG_MAX_SIZE_MB")
	setInt(&c.LogMaxBackups, "LOG_MAX_BACKUPS")
	setInt(&c.LogMaxAgeDays, "LOG_MAX_AGE_DAYS")
	setBool(&c.LogCompress, "LOG_COMPRESS")
	setBool(&c.AICommentEnabled, "AI_COMMENT_ENABLED")
	setStr(&c.OpenRouterAPIKey, "OPENROUTER_API_KEY")
	setStr(&c.AIAPIURL, "AI_API_URL")
	setStr(&c.AIModel, "AI_MODEL")
	setInt(&c.AITimeoutSeconds, "AI_TIMEOUT_SECONDS")
	setBool(&c.AIFallbackEnabled, "AI_FALLBACK_ENABLED")
	setStr(&c.AIFallbackComment, "AI_FALLBACK_COMMENT")
	setStr(&c.BotEmail, "BOT_EMAIL")
	setStr(&c.BotNickname, "BOT_NICKNAME")
	setStr(&c.BotProfileImage, "BOT_PROFILE_IMAGE")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
