package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds the HTTP adapter settings.
type ServerConfig struct {
	Addr               string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	LogLevel           slog.Level
}

// DefaultServerConfig is used for any variable that is not set.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:               ":8080",
		RequestTimeout:     30 * time.Second,
		RateLimitPerMinute: 120,
		RateLimitBurst:     20,
		LogLevel:           slog.LevelInfo,
	}
}

// LoadServerConfig reads GOALPLAN_* variables after loading ENV_FILE, or
// .env in the working directory when present.
func LoadServerConfig() (ServerConfig, error) {
	if err := loadEnv(); err != nil {
		return ServerConfig{}, err
	}

	cfg := DefaultServerConfig()
	cfg.Addr = getEnv("GOALPLAN_ADDR", cfg.Addr)

	var err error
	if cfg.RequestTimeout, err = parseDurationEnv("GOALPLAN_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return ServerConfig{}, err
	}
	if cfg.RateLimitPerMinute, err = parseIntEnv("GOALPLAN_RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute); err != nil {
		return ServerConfig{}, err
	}
	if cfg.RateLimitBurst, err = parseIntEnv("GOALPLAN_RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return ServerConfig{}, err
	}
	if v, ok := os.LookupEnv("GOALPLAN_LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return ServerConfig{}, fmt.Errorf("GOALPLAN_LOG_LEVEL: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func (c ServerConfig) validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("GOALPLAN_ADDR cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("GOALPLAN_REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("GOALPLAN_RATE_LIMIT_PER_MINUTE cannot be negative")
	}
	if c.RateLimitPerMinute > 0 && c.RateLimitBurst <= 0 {
		return fmt.Errorf("GOALPLAN_RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
