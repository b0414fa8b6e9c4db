package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/utils"
)

// CookieName is the name of the session cookie set at login.
const CookieName = "sesion"

// SessionValidator resolves a hashed session id to the owning user.
// *repository.SessionRepo satisfies it; tests can substitute a stub.
type SessionValidator interface {
	Validate(ctx context.Context, tokenHash string) (uint64, error)
}

// SessionAuth returns an Echo middleware that authenticates requests by
// the session cookie. The cookie carries a signed token embedding the
// session id; the signature and expiry are checked first, then the
// hashed id is looked up server-side so logged-out sessions are
// rejected. On success the owning user id is stored in the context
// under "user_id" and the raw session id under "session_id". Any
// failure yields 401 and the request never reaches the handler.
func SessionAuth(secret string, sessions SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
			}
			sid, err := utils.ParseSessionCookie(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			userID, err := sessions.Validate(ctx, utils.HashSessionID(sid))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
			}

			c.Set("user_id", userID)
			c.Set("session_id", sid)
			return next(c)
		}
	}
}
