package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Storage backend names
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds settings read from the environment. CLI flags override them.
type Config struct {
	Storage     string
	DBPath      string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
}

// Load reads an optional .env file and then the environment, and validates
// the result
func Load(logger zerolog.Logger) (*Config, error) {
	cfg := FromEnvironment(logger)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("storage", cfg.Storage).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

// FromEnvironment reads an optional .env file and then the environment
// without validating. Callers that layer flags on top validate afterwards.
func FromEnvironment(logger zerolog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	return &Config{
		Storage:     getEnv("TOURNEY_STORAGE", StorageSQLite),
		DBPath:      getEnv("TOURNEY_DB_PATH", "tourney.db"),
		DatabaseURL: getEnv("TOURNEY_DATABASE_URL", ""),
		RedisURL:    getEnv("TOURNEY_REDIS_URL", "redis://localhost:6379"),
		LogLevel:    getEnv("TOURNEY_LOG_LEVEL", "warn"),
	}
}

// Validate checks the selected backend has what it needs to connect
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis:
		return nil
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("TOURNEY_DB_PATH is required for sqlite storage")
		}
		return nil
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("TOURNEY_DATABASE_URL is required for postgres storage")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage %q: must be memory, redis, sqlite or postgres", c.Storage)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
