package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/random"
	"github.com/mcoot/tourney/internal/services/audit"
	"github.com/mcoot/tourney/internal/services/matches"
	"github.com/mcoot/tourney/internal/services/players"
	"github.com/mcoot/tourney/internal/services/ranking"
	"github.com/mcoot/tourney/internal/services/swiss"
	"github.com/mcoot/tourney/internal/storage"
	"github.com/mcoot/tourney/internal/storage/memory"
	redisstorage "github.com/mcoot/tourney/internal/storage/redis"
	"github.com/mcoot/tourney/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Audit   *audit.Service
	Players *players.Service
	Matches *matches.Service
	Swiss   *swiss.Service
	Ranking *ranking.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// The zero value discards everything
	Logger zerolog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// DBPath is the SQLite database file (required if StorageType is "sqlite")
	DBPath string
	// DatabaseURL is the PostgreSQL DSN (required if StorageType is "postgres")
	DatabaseURL string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

func openStorage(ctx context.Context, cfg Config, logger zerolog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return redisStore, nil
	case StorageTypeSQLite:
		if cfg.DBPath == "" {
			return nil, errors.New("DBPath required when StorageType is sqlite")
		}
		return sqlstore.Open(ctx, sqlstore.DialectSQLite, cfg.DBPath, logger)
	case StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DatabaseURL required when StorageType is postgres")
		}
		return sqlstore.Open(ctx, sqlstore.DialectPostgres, cfg.DatabaseURL, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis', 'sqlite' or 'postgres'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger zerolog.Logger) *App {
	auditService := audit.New(store, clk, logger)
	playerService := players.New(store, auditService, clk, rnd, logger)
	matchService := matches.New(store, playerService, auditService, clk, rnd, logger)
	swissService := swiss.New(playerService, matchService, logger)
	rankingService := ranking.New(store, playerService, logger)

	return &App{
		Storage: store,
		Clock:   clk,
		Random:  rnd,
		Audit:   auditService,
		Players: playerService,
		Matches: matchService,
		Swiss:   swissService,
		Ranking: rankingService,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
