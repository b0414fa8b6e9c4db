package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists and validates login sessions (single
// 'token_hash' column, SHA-256 of the session id).
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session row for a freshly logged-in user.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sesiones (usuario_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Validate returns the owning user id if a non-revoked, non-expired
// session exists for the hash. Any other outcome is ErrSessionNotFound
// so callers cannot distinguish missing from revoked or expired.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT usuario_id, expires_at, revoked_at FROM sesiones WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	if revokedAt.Valid {
		return 0, ErrSessionNotFound
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrSessionNotFound
	}
	return userID, nil
}

// Revoke marks a session as revoked. Already-revoked or unknown hashes
// are a no-op, which makes logout idempotent.
func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sesiones SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}
