package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/config"
	"github.com/iliyamo/mensajes/internal/middleware"
	"github.com/iliyamo/mensajes/internal/repository"
	"github.com/iliyamo/mensajes/internal/utils"
)

// SessionStore is the session persistence the auth endpoints need.
// *repository.SessionRepo implements it.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Revoke(ctx context.Context, tokenHash string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----
// Wire field names follow the original frontend contract (Spanish).

type registerReq struct {
	Name      string `json:"nombre"`
	Surname   string `json:"apellido"`
	Email     string `json:"email"`
	BirthDate string `json:"fecha_nacimiento"` // YYYY-MM-DD
	Password  string `json:"contrasena"`
}

type loginReq struct {
	// Email doubles as a loose identifier: it matches either the stored
	// email or "nombre apellido".
	Email    string `json:"email"`
	Password string `json:"contrasena"`
}

type profilePart struct {
	ID        uint64 `json:"id"`
	Name      string `json:"nombre"`
	Surname   string `json:"apellido"`
	Email     string `json:"email"`
	BirthDate string `json:"fecha_nacimiento"`
}

// birthDateLayout is the only accepted format for fecha_nacimiento.
const birthDateLayout = "2006-01-02"

// Register: validate all fields, reject duplicate emails, store the
// password as a bcrypt hash. The hash is never returned.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	// required fields are checked one at a time so the error names
	// the first missing field
	fields := []struct{ name, value string }{
		{"nombre", req.Name},
		{"apellido", req.Surname},
		{"email", req.Email},
		{"fecha_nacimiento", req.BirthDate},
		{"contrasena", req.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "El campo " + f.name + " es obligatorio"})
		}
	}
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Fecha de nacimiento inválida"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo registrar el usuario"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Surname), req.Email, birthDate, hash); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "El email ya está registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo registrar el usuario"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"mensaje": "Usuario registrado exitosamente"})
}

// Login: verify credentials and establish a cookie session. Unknown
// identifier and wrong password produce the same response so the two
// cases cannot be told apart by a caller; the distinction is only
// visible in the server audit log, which never records credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	identifier := strings.TrimSpace(req.Email)
	if identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email y contrasena son obligatorios"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			c.Logger().Infof("login rejected: unknown identifier")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Credenciales inválidas"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		c.Logger().Infof("login rejected: bad password for user_id=%d", u.ID)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Credenciales inválidas"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, u.ID, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear la sesión"})
	}
	if err := h.Sessions.Create(ctx, u.ID, utils.HashSessionID(tok.SID), tok.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear la sesión"})
	}
	c.SetCookie(h.sessionCookie(tok.Cookie, tok.Exp))
	c.Logger().Infof("login ok: user_id=%d", u.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"mensaje": "Login exitoso",
		"usuario": profilePart{
			ID:        u.ID,
			Name:      u.Name,
			Surname:   u.Surname,
			Email:     u.Email,
			BirthDate: u.BirthDate.Format(birthDateLayout),
		},
	})
}

// Logout is idempotent: it revokes the server-side session row when
// the request still carries a valid cookie, clears the cookie, and
// returns 200 regardless. It is registered outside the session group
// so a request with no cookie or an already-revoked session is a
// plain no-op instead of a 401.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if sid, err := utils.ParseSessionCookie(h.Cfg.SessionSecret, cookie.Value); err == nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			if err := h.Sessions.Revoke(ctx, utils.HashSessionID(sid)); err != nil {
				c.Logger().Warnf("logout: revoke failed: %v", err)
			}
		}
	}
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Logout exitoso"})
}

// CurrentUser returns the authenticated user's public profile fields.
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No autorizado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error de base de datos"})
	}
	return c.JSON(http.StatusOK, profilePart{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		BirthDate: u.BirthDate.Format(birthDateLayout),
	})
}

// sessionCookie builds the session cookie. An empty value with an
// expiry in the past clears it.
func (h *AuthHandler) sessionCookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	}
}
