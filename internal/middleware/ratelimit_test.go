package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/config"
)

func rateContext(t *testing.T, userID any) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/mensajes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/mensajes")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKeyUsesAuthenticatedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	key := buildRateKey(cfg, rateContext(t, uint64(7)))
	if !strings.Contains(key, "user:7") {
		t.Fatalf("key %q does not carry the user id", key)
	}
}

func TestBuildRateKeyAnonWithoutSession(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	key := buildRateKey(cfg, rateContext(t, nil))
	if !strings.Contains(key, "user:anon") {
		t.Fatalf("key %q does not mark the request anonymous", key)
	}
}

func TestBuildRateKeyIPRouteStrategy(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	key := buildRateKey(cfg, rateContext(t, uint64(7)))
	if strings.Contains(key, "user:") {
		t.Fatalf("ip_route key %q keyed by user", key)
	}
	if !strings.Contains(key, "route:POST /api/mensajes") {
		t.Fatalf("key %q missing route", key)
	}
}
