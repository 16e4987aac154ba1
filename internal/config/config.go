package config

import (
	"os"
	"strconv"

	"github.com/NIHAL-JAGDALE/CHEMVIZ/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Storage   StorageConfig
	Retention RetentionConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// StorageConfig holds file storage settings
type StorageConfig struct {
	BasePath       string
	MaxUploadBytes int64
}

// RetentionConfig holds the per-owner history cap
type RetentionConfig struct {
	MaxDatasetsPerOwner int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Storage: StorageConfig{
			BasePath:       getEnvOrDefault("STORAGE_PATH", "uploads/datasets"),
			MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 10*1024*1024),
		},
		Retention: RetentionConfig{
			MaxDatasetsPerOwner: getEnvIntOrDefault("MAX_DATASETS_PER_USER", 5),
		},
	}

	if config.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Retention.MaxDatasetsPerOwner < 1 {
		return nil, errors.ConfigInvalid("MAX_DATASETS_PER_USER must be at least 1")
	}

	return config, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64OrDefault(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
