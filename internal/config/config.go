package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the whale watch service
type Config struct {
	// Database configuration
	PostgresDSN   string
	ClickhouseDSN string // optional analytics mirror

	// Provider configuration
	ProviderEndpoint   string
	ProviderWSEndpoint string // optional; polling only when empty
	ProviderAPIKey     string

	// Tracker configuration
	PollIntervalSeconds int
	HistoryLimit        int

	// Classifier configuration
	DustEpsilon float64

	// Logging configuration
	LogLevel string

	// Metrics configuration
	MetricsPort string
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	cfg := Config{
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN:      getEnv("CLICKHOUSE_DSN", ""),
		ProviderEndpoint:   getEnv("PROVIDER_ENDPOINT", ""),
		ProviderWSEndpoint: getEnv("PROVIDER_WS_ENDPOINT", ""),
		ProviderAPIKey:     getEnv("PROVIDER_API_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MetricsPort:        getEnv("METRICS_PORT", "9100"),
	}

	var err error
	cfg.PollIntervalSeconds, err = parseIntEnv("POLL_INTERVAL_SECONDS", 30)
	if err != nil {
		return cfg, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
	}

	cfg.HistoryLimit, err = parseIntEnv("HISTORY_LIMIT", 25)
	if err != nil {
		return cfg, fmt.Errorf("invalid HISTORY_LIMIT: %w", err)
	}

	cfg.DustEpsilon, err = parseFloatEnv("DUST_EPSILON", 1e-6)
	if err != nil {
		return cfg, fmt.Errorf("invalid DUST_EPSILON: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks that the configuration is valid
func (c Config) validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}

	if c.ProviderEndpoint == "" {
		return fmt.Errorf("PROVIDER_ENDPOINT is required")
	}

	if c.PollIntervalSeconds < 1 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be at least 1")
	}

	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1")
	}

	if c.DustEpsilon <= 0 {
		return fmt.Errorf("DUST_EPSILON must be positive")
	}

	validLogLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid LOG_LEVEL: %s (must be one of: trace, debug, info, warn, error, fatal, panic)", c.LogLevel)
	}

	return nil
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an integer environment variable with a default value
func parseIntEnv(key string, defaultValue int) (int, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(str)
}

// parseFloatEnv parses a float environment variable with a default value
func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(str, 64)
}
