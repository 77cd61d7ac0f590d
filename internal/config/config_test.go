package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_HOST", "DB_NAME", "JWT_SECRET", "ACCESS_TOKEN_EXPIRY",
		"REFRESH_TOKEN_EXPIRY", "PORT", "RATE_LIMIT_ENABLED",
		"RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "REDIS_ADDR", "RABBITMQ_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.Database.Host != "localhost" || cfg.Database.Database != "simagis" {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.JWT.AccessTokenExpiry != 24*time.Hour {
		t.Errorf("access expiry = %v, want 24h", cfg.JWT.AccessTokenExpiry)
	}
	if cfg.JWT.RefreshTokenExpiry != 168*time.Hour {
		t.Errorf("refresh expiry = %v, want 168h", cfg.JWT.RefreshTokenExpiry)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Window != time.Minute || cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("rate limit defaults = %+v", cfg.RateLimit)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must default to disabled, got %q", cfg.Redis.Addr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_MAX", "25")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := LoadConfig()

	if cfg.JWT.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("access expiry = %v, want 15m", cfg.JWT.AccessTokenExpiry)
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limit should be disabled")
	}
	if cfg.RateLimit.MaxRequests != 25 {
		t.Errorf("max requests = %d, want 25", cfg.RateLimit.MaxRequests)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfigInvalidDuration(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "not-a-duration")

	cfg := LoadConfig()
	if cfg.JWT.AccessTokenExpiry != 24*time.Hour {
		t.Errorf("invalid duration must fall back, got %v", cfg.JWT.AccessTokenExpiry)
	}
}
