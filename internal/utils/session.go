package utils // package utils provides helper functions for session tokens and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for session ids
	"encoding/hex"  // hex encoding functions
	"errors"
	"time" // expiration arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for signing the session cookie
)

// SessionToken is the material created at login. The Cookie field is a
// signed HS256 JWT carried in the session cookie; it embeds the random
// session id (sid) and the user id (sub). SID is the raw session id; in
// the database only its SHA-256 hash is stored, so a leaked table cannot
// be replayed against the API. Exp is the UTC expiration time shared by
// the cookie and the session row.
type SessionToken struct {
	Cookie string    // signed JWT placed in the cookie
	SID    string    // raw session id embedded in the JWT
	Exp    time.Time // UTC expiration time
}

// ErrInvalidSessionToken is returned when a session cookie cannot be
// parsed, fails signature verification, or carries no session id.
var ErrInvalidSessionToken = errors.New("invalid session token")

// NewSessionToken generates a random session id and wraps it in a signed
// JWT. The server-side session row (hash of SID) decides whether the
// session is still live; the JWT only protects cookie integrity and lets
// the middleware reject tampered or expired cookies without a DB hit.
func NewSessionToken(secret string, userID uint64, ttlDays int) (SessionToken, error) {
	sid, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return SessionToken{}, err
	}
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sid": sid,
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Cookie: signed, SID: sid, Exp: exp}, nil
}

// ParseSessionCookie verifies the signature and expiry of a session
// cookie and returns the embedded session id.
func ParseSessionCookie(secret, cookie string) (string, error) {
	tok, err := jwt.Parse(cookie, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidSessionToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSessionToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidSessionToken
	}
	return sid, nil
}

// HashSessionID returns the SHA-256 hash of a raw session id as a hex
// string. Only this hash is persisted.
func HashSessionID(sid string) string {
	sum := sha256.Sum256([]byte(sid))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
