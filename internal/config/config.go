package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Logger LoggerConfig
	Auth   AuthConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StoreConfig holds document-store configuration.
type StoreConfig struct {
	// Backend selects the store implementation: "dynamodb" or "memory".
	Backend string
	Region  string
	// Endpoint overrides the DynamoDB endpoint (dynamodb-local); empty
	// means the default AWS endpoint for the region.
	Endpoint         string
	DiscountsTable   string
	VenuesTable      string
	VenueIndex       string
	VoucherCodeIndex string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// VenueGroup is the identity group required for owner-scoped routes.
	VenueGroup string
}

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Backend:          getEnv("STORE_BACKEND", "dynamodb"),
			Region:           getEnv("AWS_REGION", "ap-southeast-2"),
			Endpoint:         getEnv("DYNAMODB_LOCAL", ""),
			DiscountsTable:   getEnv("DISCOUNTS_TABLE", "discounts"),
			VenuesTable:      getEnv("VENUES_TABLE", "venue-profiles"),
			VenueIndex:       getEnv("VENUE_INDEX", "venueId-index"),
			VoucherCodeIndex: getEnv("VOUCHER_CODE_INDEX", "voucherCode-index"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			VenueGroup: getEnv("VENUE_GROUP", "venue"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Store.Backend != "dynamodb" && c.Store.Backend != "memory" {
		return fmt.Errorf("invalid store backend: %s (must be dynamodb or memory)", c.Store.Backend)
	}

	if c.Store.Backend == "dynamodb" {
		if c.Store.Region == "" {
			return fmt.Errorf("store region is required")
		}
		if c.Store.DiscountsTable == "" {
			return fmt.Errorf("discounts table name is required")
		}
		if c.Store.VenuesTable == "" {
			return fmt.Errorf("venues table name is required")
		}
		if c.Store.VenueIndex == "" {
			return fmt.Errorf("venue index name is required")
		}
		if c.Store.VoucherCodeIndex == "" {
			return fmt.Errorf("voucher code index name is required")
		}
	}

	if c.Auth.VenueGroup == "" {
		return fmt.Errorf("venue group name is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
