package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"TOURNEY_STORAGE", "TOURNEY_DB_PATH", "TOURNEY_DATABASE_URL", "TOURNEY_REDIS_URL", "TOURNEY_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "tourney.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TOURNEY_STORAGE", StoragePostgres)
	t.Setenv("TOURNEY_DATABASE_URL", "postgres://localhost/tourney")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://localhost/tourney", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "memory", cfg: Config{Storage: StorageMemory}},
		{name: "sqlite needs path", cfg: Config{Storage: StorageSQLite}, wantErr: "TOURNEY_DB_PATH"},
		{name: "postgres needs url", cfg: Config{Storage: StoragePostgres}, wantErr: "TOURNEY_DATABASE_URL"},
		{name: "unknown", cfg: Config{Storage: "mongo"}, wantErr: "unknown storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
