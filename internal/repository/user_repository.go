package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/mensajes/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The password must already
// be hashed by the caller; this layer never sees plaintext credentials.
func (r *UserRepo) Create(ctx context.Context, name, surname, email string, birthDate time.Time, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO usuarios (nombre, apellido, email, fecha_nacimiento, password_hash) VALUES (?,?,?,?,?)",
		name, surname, email, birthDate, passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByIdentifier fetches a user by login identifier. The identifier
// matches either the stored email or the concatenation of name and
// surname ("nombre apellido"), mirroring the loose match policy of the
// login endpoint.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, nombre, apellido, email, fecha_nacimiento, password_hash, created_at
		 FROM usuarios
		 WHERE email = ? OR CONCAT(nombre, ' ', apellido) = ?
		 LIMIT 1`,
		strings.ToLower(identifier), identifier).
		Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.BirthDate, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, nombre, apellido, email, fecha_nacimiento, password_hash, created_at
		 FROM usuarios WHERE id = ? LIMIT 1`,
		id).
		Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.BirthDate, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
