package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/clipstream/clipstream/internal/credstore"
)

// Config carries the client's runtime settings.
type Config struct {
	// BaseURL is the service root, without the /api suffix.
	BaseURL string
	// TokenPath is where the bearer token is persisted.
	TokenPath string
	// PageSize is the comment page size requested from the service.
	PageSize int
}

// Load reads an optional .env file, then the environment, falling back to
// defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:   getEnv("CLIPSTREAM_API_URL", "http://localhost:8080"),
		TokenPath: os.Getenv("CLIPSTREAM_TOKEN_PATH"),
		PageSize:  int(getEnvInt64("CLIPSTREAM_PAGE_SIZE", 10)),
	}

	if cfg.TokenPath == "" {
		path, err := credstore.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		cfg.TokenPath = path
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
