package model

import "time"

// User represents an application user record as stored in the
// `usuarios` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types with the wire field names.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – given name.
//  Surname      – family name.
//  Email        – unique email address.
//  BirthDate    – date of birth (date component only, stored UTC).
//  PasswordHash – bcrypt hashed password. Never serialized.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // usuarios.id
	Name         string    // usuarios.nombre
	Surname      string    // usuarios.apellido
	Email        string    // usuarios.email
	BirthDate    time.Time // usuarios.fecha_nacimiento
	PasswordHash string    // usuarios.password_hash
	CreatedAt    time.Time // usuarios.created_at
}

// DisplayName returns the name shown next to a user's posts and
// comments, the concatenation of name and surname.
func (u User) DisplayName() string {
	return u.Name + " " + u.Surname
}

// Session models an entry in the `sesiones` table. A session is
// created at login and revoked at logout. The session id handed to
// the client is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  TokenHash – SHA-256 hex digest of the session id.
//  ExpiresAt – expiration timestamp of the session.
//  RevokedAt – when the session was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type Session struct {
	ID        uint64     // sesiones.id
	UserID    uint64     // sesiones.usuario_id
	TokenHash string     // sesiones.token_hash
	ExpiresAt time.Time  // sesiones.expires_at
	RevokedAt *time.Time // sesiones.revoked_at (nullable)
	CreatedAt time.Time  // sesiones.created_at
}
