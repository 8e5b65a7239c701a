// Package config loads server configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all server settings.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// DBPath is the SQLite database file path.
	DBPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present but never required.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		DBPath:   getEnv("DB_PATH", "./data/splits.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
