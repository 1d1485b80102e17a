package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_PLACES_KEY", "places")
	t.Setenv("GOOGLE_DIRECTIONS_KEY", "directions")
	t.Setenv("PORT", "")
	t.Setenv("SEARCH_CACHE_TTL", "")
	t.Setenv("SEARCH_CONCURRENCY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.SearchCacheTTL != 15*time.Minute {
		t.Fatalf("ttl = %v, want 15m", cfg.SearchCacheTTL)
	}
	if cfg.SearchConcurrency != 8 {
		t.Fatalf("concurrency = %d, want 8", cfg.SearchConcurrency)
	}
}

func TestLoadRequiresKeys(t *testing.T) {
	t.Setenv("GOOGLE_PLACES_KEY", "")
	t.Setenv("GOOGLE_DIRECTIONS_KEY", "directions")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when GOOGLE_PLACES_KEY is missing")
	}
}

func TestLoadRejectsBadConcurrency(t *testing.T) {
	t.Setenv("GOOGLE_PLACES_KEY", "places")
	t.Setenv("GOOGLE_DIRECTIONS_KEY", "directions")
	t.Setenv("SEARCH_CONCURRENCY", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero concurrency")
	}
}
