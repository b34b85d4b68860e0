package config

import (
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}

	got := parseOrigins(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CLASSROOM_TEST_INT", "42")
	if got := getEnvInt("CLASSROOM_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}

	t.Setenv("CLASSROOM_TEST_INT", "not-a-number")
	if got := getEnvInt("CLASSROOM_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("INDEX_CACHE_TTL_SECONDS", "5")
	t.Setenv("ALLOWED_ORIGINS", "http://console.test")

	cfg := Load()
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if cfg.IndexCacheTTL != 5*time.Second {
		t.Errorf("IndexCacheTTL = %v, want 5s", cfg.IndexCacheTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://console.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKey.UserSessionKey(12); got != "console:session:12" {
		t.Errorf("UserSessionKey = %q", got)
	}
	if got := CacheKey.ModelCountKey("users"); got != "admin:count:users" {
		t.Errorf("ModelCountKey = %q", got)
	}
}
