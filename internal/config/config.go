package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config is the service configuration, built once in main and passed to constructors.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisAddr         string
	PlacesKey         string
	DirectionsKey     string
	PlacesBaseURL     string
	DirectionsBaseURL string
	SearchCacheTTL    time.Duration
	SearchConcurrency int
	LogLevel          string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadDotEnv reads .env when present; a missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found (using environment variables)")
	}
}

// Load reads Config from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:              Get("PORT", "8080"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		PlacesKey:         strings.TrimSpace(os.Getenv("GOOGLE_PLACES_KEY")),
		DirectionsKey:     strings.TrimSpace(os.Getenv("GOOGLE_DIRECTIONS_KEY")),
		PlacesBaseURL:     Get("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		DirectionsBaseURL: Get("DIRECTIONS_BASE_URL", "https://maps.googleapis.com/maps/api/directions"),
		LogLevel:          Get("LOG_LEVEL", "info"),
	}

	if cfg.PlacesKey == "" {
		return Config{}, errors.New("load config: GOOGLE_PLACES_KEY is required")
	}
	if cfg.DirectionsKey == "" {
		return Config{}, errors.New("load config: GOOGLE_DIRECTIONS_KEY is required")
	}

	ttl, err := time.ParseDuration(Get("SEARCH_CACHE_TTL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: SEARCH_CACHE_TTL: %w", err)
	}
	cfg.SearchCacheTTL = ttl

	n, err := strconv.Atoi(Get("SEARCH_CONCURRENCY", "8"))
	if err != nil || n < 1 {
		return Config{}, fmt.Errorf("load config: SEARCH_CONCURRENCY must be a positive integer")
	}
	cfg.SearchConcurrency = n

	return cfg, nil
}
