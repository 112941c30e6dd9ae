package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	ProviderURL        string
	ProviderAnonKey    string
	ProviderServiceKey string
	JWTSecret          string
	SessionSecret      string
	ResetRedirectURL   string
	Port               string
	RateLimitAuth      RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ProviderURL:        os.Getenv("PROVIDER_URL"),
		ProviderAnonKey:    os.Getenv("PROVIDER_ANON_KEY"),
		ProviderServiceKey: os.Getenv("PROVIDER_SERVICE_KEY"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-session-secret"),
		ResetRedirectURL:   getEnv("RESET_REDIRECT_URL", "http://localhost:5173/reset-password"),
		Port:               getEnv("PORT", "8080"),
	}

	if cfg.ProviderURL == "" {
		return nil, fmt.Errorf("PROVIDER_URL must be set")
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_AUTH", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUTH value: %w", err)
	}
	cfg.RateLimitAuth = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
