package utils

import (
	"testing"
)

func TestHashVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreto123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secreto123" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword(hash, "secreto123") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "otra") {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := HashPassword("secreto123", 0)
	if err != nil {
		t.Fatalf("hash with zero cost: %v", err)
	}
	if !VerifyPassword(hash, "secreto123") {
		t.Fatalf("correct password rejected")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, 7)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if len(tok.SID) != 64 {
		t.Fatalf("sid length = %d, want 64", len(tok.SID))
	}
	sid, err := ParseSessionCookie("test-secret", tok.Cookie)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sid != tok.SID {
		t.Fatalf("sid mismatch: got %q want %q", sid, tok.SID)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret-a", 1, 7)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, err := ParseSessionCookie("secret-b", tok.Cookie); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
	if _, err := ParseSessionCookie("secret-a", "not-a-jwt"); err == nil {
		t.Fatalf("garbage cookie accepted")
	}
}

func TestHashSessionID(t *testing.T) {
	a := HashSessionID("abc")
	b := HashSessionID("abc")
	if a != b {
		t.Fatalf("hash not deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64", len(a))
	}
	if a == "abc" {
		t.Fatalf("hash equals input")
	}
}
