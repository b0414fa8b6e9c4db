package config

import (
	"testing"
	"time"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Fatalf("cache disabled by default")
	}
	if !cfg.Methods["GET"] {
		t.Fatalf("GET not cached by default")
	}
	if cfg.KeyStrategy != "user_route" {
		t.Fatalf("key strategy = %q", cfg.KeyStrategy)
	}
	if cfg.TTL != 15*time.Second {
		t.Fatalf("ttl = %s", cfg.TTL)
	}
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "1m")
	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Fatalf("cache not disabled")
	}
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Fatalf("methods not parsed: %v", cfg.Methods)
	}
	if cfg.TTL != time.Minute {
		t.Fatalf("ttl = %s", cfg.TTL)
	}
}

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("capacity = %d, want 1", cfg.Capacity)
	}
	if cfg.RefillTokens != 1 {
		t.Fatalf("refill tokens = %d, want 1", cfg.RefillTokens)
	}
	// TTL must cover at least five refill intervals
	if cfg.TTL != 10*time.Second {
		t.Fatalf("ttl = %s, want 10s", cfg.TTL)
	}
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Fatalf("limiter disabled by default")
	}
	if cfg.Capacity != 60 {
		t.Fatalf("capacity = %d", cfg.Capacity)
	}
	if cfg.KeyStrategy != "ip_user_route" {
		t.Fatalf("key strategy = %q", cfg.KeyStrategy)
	}
}
