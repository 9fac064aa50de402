// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// StorageConfig selects and configures the match repository backend
type StorageConfig struct {
	// Backend is one of embedded, redis, postgres or sqlite.
	Backend string

	// SQLitePath is the database file for the embedded and sqlite backends.
	SQLitePath string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisURL       string
	RedisKeyPrefix string
}

// Config holds all service settings
type Config struct {
	Port            string
	LogLevel        string
	NewRelicAppName string
	NewRelicLicense string
	Storage         StorageConfig
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables")
	}

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		NewRelicAppName: getEnvOrDefault("NEW_RELIC_APP_NAME", "CourtSplit API"),
		NewRelicLicense: os.Getenv("NEW_RELIC_LICENSE_KEY"),
		Storage: StorageConfig{
			Backend:        strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", utils.BackendEmbedded)),
			SQLitePath:     getEnvOrDefault("SQLITE_PATH", utils.DefaultSQLitePath),
			DBHost:         getEnvOrDefault("DB_HOST", "localhost"),
			DBPort:         getEnvOrDefault("DB_PORT", "5432"),
			DBUser:         getEnvOrDefault("DB_USER", "postgres"),
			DBPassword:     getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:         getEnvOrDefault("DB_NAME", "courtsplit"),
			DBSSLMode:      getEnvOrDefault("DB_SSLMODE", "disable"),
			RedisURL:       os.Getenv("REDIS_URL"),
			RedisKeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", utils.DefaultKeyPrefix),
		},
	}

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs
func (s StorageConfig) Validate() error {
	switch s.Backend {
	case utils.BackendEmbedded, utils.BackendSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s backend", s.Backend)
		}
	case utils.BackendRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case utils.BackendPostgres:
		if s.DBHost == "" || s.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", s.Backend)
	}
	return nil
}

// PostgresDSN builds the lib/pq connection string
func (s StorageConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.DBHost, s.DBPort, s.DBUser, s.DBPassword, s.DBName, s.DBSSLMode)
}

// Helper function to get environment variable with default value
func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
