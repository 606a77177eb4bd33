package config

import (
	"os"
	"strconv"

	"ksboot/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Bootstrap BootstrapConfig
	Export    ExportConfig
}

// DatabaseConfig holds database connection settings. URL may be empty, in
// which case the service runs without a persistence ledger.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// BootstrapConfig holds resampling defaults used when a request leaves them unset
type BootstrapConfig struct {
	Iterations int
	Workers    int
	Seed       int64
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	Dir     string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Bootstrap: BootstrapConfig{
			Iterations: getEnvIntOrDefault("BOOTSTRAP_ITERATIONS", 1000),
			Workers:    getEnvIntOrDefault("BOOTSTRAP_WORKERS", 1),
			Seed:       getEnvInt64OrDefault("BOOTSTRAP_SEED", 0),
		},
		Export: ExportConfig{
			Dir:     getEnvOrDefault("EXPORT_DIR", ""),
			Enabled: getEnvBoolOrDefault("EXPORT_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Bootstrap.Iterations <= 0 {
		return errors.ConfigInvalid("bootstrap iteration count must be positive")
	}
	if config.Bootstrap.Workers <= 0 {
		return errors.ConfigInvalid("bootstrap worker count must be positive")
	}
	if config.Export.Enabled && config.Export.Dir == "" {
		return errors.ConfigInvalid("EXPORT_DIR is required when exports are enabled")
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
