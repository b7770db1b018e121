package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mcoot/tourney/internal/config"
	"github.com/mcoot/tourney/internal/factory"
	redisstorage "github.com/mcoot/tourney/internal/storage/redis"
)

// storageConfig converts the merged flags into a validated config
func (o *RootOptions) storageConfig() (*config.Config, error) {
	cfg := &config.Config{
		Storage:     o.Storage,
		DBPath:      o.DBPath,
		DatabaseURL: o.DatabaseURL,
		RedisURL:    o.RedisURL,
		LogLevel:    o.LogLevel,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp is the default AppFactory: it opens the configured backend
func newApp(ctx context.Context, opts *RootOptions, logger zerolog.Logger) (*factory.App, error) {
	cfg, err := opts.storageConfig()
	if err != nil {
		return nil, err
	}

	fcfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
	}
	if cfg.Storage == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fcfg.RedisConfig = &redisCfg
	}

	return factory.New(ctx, fcfg)
}
