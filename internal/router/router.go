// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/handler"
	"github.com/iliyamo/mensajes/internal/middleware"
)

// RegisterRoutes registers routes that do not require a valid session:
// the health check, registration, login and logout. Logout lives here
// rather than in the session group so it stays idempotent — a request
// with no cookie or an already-revoked session is answered 200, not
// 401. limit is the ip-keyed rate limiter for unauthenticated traffic.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.POST("/api/registro", a.Register, limit)
	e.POST("/api/login", a.Login, limit)
	e.POST("/api/logout", a.Logout, limit)
}

// RegisterFeed registers every session-protected endpoint. All handlers
// in the group run behind the SessionAuth middleware, so absence of a
// valid session yields 401 before any side effect. The limiter is
// installed after SessionAuth so user-keyed strategies see the
// authenticated id. The cache middleware wraps only the feed GET; its
// keys are per-user so requester-specific flags never leak between
// sessions, and bust drops the requester's cached feed after each
// successful write.
func RegisterFeed(e *echo.Echo, a *handler.AuthHandler, m *handler.MessageHandler, g *handler.EngagementHandler, secret string, sessions middleware.SessionValidator, limit, cache, bust echo.MiddlewareFunc) {
	auth := e.Group("/api")
	auth.Use(middleware.SessionAuth(secret, sessions))
	auth.Use(limit)

	auth.GET("/usuario/actual", a.CurrentUser)

	auth.GET("/mensajes", m.List, cache)
	auth.POST("/mensajes", m.Create, bust)
	auth.DELETE("/mensajes/:id", m.Delete, bust)

	auth.POST("/mensajes/:id/like", g.ToggleLike, bust)
	auth.POST("/mensajes/:id/comentarios", g.AddComment, bust)
	auth.POST("/mensajes/:id/republicar", g.ToggleRepost, bust)
}
