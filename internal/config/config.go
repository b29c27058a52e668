package config

import (
	"os"
	"strconv"
	"strings"

	"registrymail/domain/registry"
	"registrymail/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	LogLevel string
	Registry RegistryConfig
	Database DatabaseConfig
	Sync     SyncConfig
	Server   ServerConfig
}

// RegistryConfig holds the registry workbook layout
type RegistryConfig struct {
	NameColumn  string
	EmailColumn string
	// Workbook is the default workbook path for commands that accept an optional one
	Workbook string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// SyncConfig holds registry sync settings
type SyncConfig struct {
	VerifiedTag string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int
}

const DefaultVerifiedTag = "verified-license-email"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
		Registry: RegistryConfig{
			NameColumn:  getEnvOrDefault("REGISTRY_NAME_COLUMN", registry.DefaultNameColumn),
			EmailColumn: getEnvOrDefault("REGISTRY_EMAIL_COLUMN", registry.DefaultEmailColumn),
			Workbook:    getEnvOrDefault("REGISTRY_WORKBOOK", ""),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Sync: SyncConfig{
			VerifiedTag: getEnvOrDefault("SYNC_VERIFIED_TAG", DefaultVerifiedTag),
		},
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "release"),
			MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 32),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Columns returns the header labels the extractor should look for
func (c *Config) Columns() registry.Columns {
	return registry.Columns{Name: c.Registry.NameColumn, Email: c.Registry.EmailColumn}
}

// RequireDatabase reports a config error when no database URL is set
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	return nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Registry.NameColumn) == "" {
		return errors.ConfigInvalid("REGISTRY_NAME_COLUMN must not be blank")
	}
	if strings.TrimSpace(config.Registry.EmailColumn) == "" {
		return errors.ConfigInvalid("REGISTRY_EMAIL_COLUMN must not be blank")
	}
	if config.Registry.NameColumn == config.Registry.EmailColumn {
		return errors.ConfigInvalid("registry name and email columns must differ")
	}
	if strings.TrimSpace(config.Sync.VerifiedTag) == "" {
		return errors.ConfigInvalid("SYNC_VERIFIED_TAG must not be blank")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
