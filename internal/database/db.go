package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the authoritative table definitions. Statements are
// idempotent so the schema can be applied on every startup.
//
// The UNIQUE (usuario_id, mensaje_id) keys on likes and
// republicaciones make the engagement toggle safe under concurrent
// requests: two racing inserts cannot both succeed. Foreign keys on
// mensajes cascade so deleting a message removes its dependent
// engagement rows.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		nombre VARCHAR(100) NOT NULL,
		apellido VARCHAR(100) NOT NULL,
		email VARCHAR(120) NOT NULL,
		fecha_nacimiento DATE NOT NULL,
		password_hash VARCHAR(200) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_usuarios_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS mensajes (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		texto VARCHAR(2000) NOT NULL,
		fecha DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		usuario_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		KEY idx_mensajes_fecha (fecha),
		CONSTRAINT fk_mensajes_usuario FOREIGN KEY (usuario_id)
			REFERENCES usuarios (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS likes (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		usuario_id BIGINT UNSIGNED NOT NULL,
		mensaje_id BIGINT UNSIGNED NOT NULL,
		fecha DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_likes_usuario_mensaje (usuario_id, mensaje_id),
		KEY idx_likes_mensaje (mensaje_id),
		CONSTRAINT fk_likes_usuario FOREIGN KEY (usuario_id)
			REFERENCES usuarios (id) ON DELETE CASCADE,
		CONSTRAINT fk_likes_mensaje FOREIGN KEY (mensaje_id)
			REFERENCES mensajes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS comentarios (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		texto VARCHAR(2000) NOT NULL,
		fecha DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		usuario_id BIGINT UNSIGNED NOT NULL,
		mensaje_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		KEY idx_comentarios_mensaje (mensaje_id),
		CONSTRAINT fk_comentarios_usuario FOREIGN KEY (usuario_id)
			REFERENCES usuarios (id) ON DELETE CASCADE,
		CONSTRAINT fk_comentarios_mensaje FOREIGN KEY (mensaje_id)
			REFERENCES mensajes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS republicaciones (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		usuario_id BIGINT UNSIGNED NOT NULL,
		mensaje_id BIGINT UNSIGNED NOT NULL,
		fecha DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_republicaciones_usuario_mensaje (usuario_id, mensaje_id),
		KEY idx_republicaciones_mensaje (mensaje_id),
		CONSTRAINT fk_republicaciones_usuario FOREIGN KEY (usuario_id)
			REFERENCES usuarios (id) ON DELETE CASCADE,
		CONSTRAINT fk_republicaciones_mensaje FOREIGN KEY (mensaje_id)
			REFERENCES mensajes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sesiones (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		usuario_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_sesiones_token_hash (token_hash),
		CONSTRAINT fk_sesiones_usuario FOREIGN KEY (usuario_id)
			REFERENCES usuarios (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the application tables when they do not
// exist yet. Safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
