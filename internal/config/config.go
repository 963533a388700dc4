package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath         string
	LogStoragePath string
	LogLevel       string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "raidtracker.db"),
		LogStoragePath: getEnv("LOG_STORAGE_PATH", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.LogStoragePath == "" {
		return nil, fmt.Errorf("LOG_STORAGE_PATH is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("log_storage_path", cfg.LogStoragePath).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
