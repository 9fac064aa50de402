package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "embedded", cfg.Storage.Backend)
	assert.Equal(t, "./data/matches.db", cfg.Storage.SQLitePath)
}

func TestLoad_BackendSelection(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "matches")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Contains(t, cfg.Storage.PostgresDSN(), "host=db.internal")
	assert.Contains(t, cfg.Storage.PostgresDSN(), "dbname=matches")
}

func TestStorageConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StorageConfig
		wantErr bool
	}{
		{name: "embedded with path", cfg: StorageConfig{Backend: "embedded", SQLitePath: "x.db"}},
		{name: "embedded without path", cfg: StorageConfig{Backend: "embedded"}, wantErr: true},
		{name: "redis without url", cfg: StorageConfig{Backend: "redis"}, wantErr: true},
		{name: "redis with url", cfg: StorageConfig{Backend: "redis", RedisURL: "redis://localhost:6379/0"}},
		{name: "postgres", cfg: StorageConfig{Backend: "postgres", DBHost: "localhost", DBName: "db"}},
		{name: "unknown backend", cfg: StorageConfig{Backend: "mongo"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
