package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/config"
	"github.com/iliyamo/mensajes/internal/middleware"
	"github.com/iliyamo/mensajes/internal/utils"
)

func postJSON(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func errorField(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	return body["error"]
}

func TestRegisterMissingFields(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)
	cases := []struct {
		body  string
		field string
	}{
		{`{}`, "nombre"},
		{`{"nombre":"Ana"}`, "apellido"},
		{`{"nombre":"Ana","apellido":"García"}`, "email"},
		{`{"nombre":"Ana","apellido":"García","email":"a@x.com"}`, "fecha_nacimiento"},
		{`{"nombre":"Ana","apellido":"García","email":"a@x.com","fecha_nacimiento":"1990-01-02"}`, "contrasena"},
	}
	for _, tc := range cases {
		c, rec := postJSON(t, "/api/registro", tc.body)
		if err := h.Register(c); err != nil {
			t.Fatalf("register: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: code = %d, want 400", tc.body, rec.Code)
		}
		if got := errorField(t, rec); !strings.Contains(got, tc.field) {
			t.Fatalf("body %s: error %q does not name field %q", tc.body, got, tc.field)
		}
	}
}

func TestRegisterBadBirthDate(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)
	c, rec := postJSON(t, "/api/registro",
		`{"nombre":"Ana","apellido":"García","email":"a@x.com","fecha_nacimiento":"02/01/1990","contrasena":"pw"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if got := errorField(t, rec); got != "Fecha de nacimiento inválida" {
		t.Fatalf("error = %q", got)
	}
}

// stubSessionStore records revocations so tests can assert which
// hashes were revoked without a database.
type stubSessionStore struct {
	revoked []string
}

func (s *stubSessionStore) Create(context.Context, uint64, string, time.Time) error { return nil }

func (s *stubSessionStore) Revoke(_ context.Context, hash string) error {
	s.revoked = append(s.revoked, hash)
	return nil
}

func logoutRequest(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogoutWithoutCookie(t *testing.T) {
	st := &stubSessionStore{}
	h := NewAuthHandler(config.Config{SessionSecret: "s"}, nil, st)
	c, rec := logoutRequest(t, "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if len(st.revoked) != 0 {
		t.Fatalf("revoked %d sessions, want 0", len(st.revoked))
	}
}

func TestLogoutGarbageCookie(t *testing.T) {
	st := &stubSessionStore{}
	h := NewAuthHandler(config.Config{SessionSecret: "s"}, nil, st)
	c, rec := logoutRequest(t, "not-a-token")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if len(st.revoked) != 0 {
		t.Fatalf("revoked %d sessions, want 0", len(st.revoked))
	}
}

func TestLogoutRevokesAndRepeats(t *testing.T) {
	st := &stubSessionStore{}
	h := NewAuthHandler(config.Config{SessionSecret: "s"}, nil, st)
	tok, err := utils.NewSessionToken("s", 3, 7)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	c, rec := logoutRequest(t, tok.Cookie)
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	want := utils.HashSessionID(tok.SID)
	if len(st.revoked) != 1 || st.revoked[0] != want {
		t.Fatalf("revoked = %v, want [%s]", st.revoked, want)
	}

	// a second logout with the same cookie is still 200
	c, rec = logoutRequest(t, tok.Cookie)
	if err := h.Logout(c); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("second logout code = %d, want 200", rec.Code)
	}
}

func TestLoginMissingCredentials(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)
	for _, body := range []string{`{}`, `{"email":"a@x.com"}`, `{"contrasena":"pw"}`} {
		c, rec := postJSON(t, "/api/login", body)
		if err := h.Login(c); err != nil {
			t.Fatalf("login: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: code = %d, want 400", body, rec.Code)
		}
	}
}
