package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/config"
)

func feedContext(userID uint64) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/mensajes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/mensajes")
	c.Set("user_id", userID)
	return c
}

// The invalidator rebuilds keys from raw parts; it only works if that
// key matches what the cache middleware derives from a live request.
func TestCacheKeyMatchesRequestKey(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "user_route"}
	got := cacheKeyFrom(cfg, feedContext(7))
	want := cacheKey(cfg, http.MethodGet, "/api/mensajes", "", "7")
	if got != want {
		t.Fatalf("request key %q != rebuilt key %q", got, want)
	}
}

func TestCacheKeyPerUser(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "user_route"}
	a := cacheKey(cfg, http.MethodGet, "/api/mensajes", "", "1")
	b := cacheKey(cfg, http.MethodGet, "/api/mensajes", "", "2")
	if a == b {
		t.Fatalf("keys for different users collide: %q", a)
	}
	if a != cacheKey(cfg, http.MethodGet, "/api/mensajes", "", "1") {
		t.Fatalf("key not stable")
	}
}

func TestCacheInvalidatorDisabledPassthrough(t *testing.T) {
	mw := NewCacheInvalidator(config.CacheConfig{Enabled: false}, nil, "/api/mensajes")
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(feedContext(1)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}
