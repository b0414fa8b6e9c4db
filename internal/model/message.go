package model

import "time"

// Message is a short text post in the public feed, stored in the
// `mensajes` table. Messages are immutable once created; the only
// mutation is deletion by their author, which cascades to dependent
// likes, comments and reposts.
//
// Fields:
//  ID        – primary key identifier.
//  Text      – message body, at most MaxTextLen characters.
//  CreatedAt – server-assigned creation timestamp (UTC).
//  UserID    – authoring user.
type Message struct {
	ID        uint64    // mensajes.id
	Text      string    // mensajes.texto
	CreatedAt time.Time // mensajes.fecha
	UserID    uint64    // mensajes.usuario_id
}

// MaxTextLen bounds user-supplied text for both messages and
// comments. Matches the column width of mensajes.texto.
const MaxTextLen = 2000

// Comment is an append-only reply to a message, stored in the
// `comentarios` table. Comments are never edited or toggled.
type Comment struct {
	ID        uint64    // comentarios.id
	Text      string    // comentarios.texto
	CreatedAt time.Time // comentarios.fecha
	UserID    uint64    // comentarios.usuario_id
	MessageID uint64    // comentarios.mensaje_id
}

// Like is a (user, message) engagement pair stored in the `likes`
// table. Presence of a row means the user currently likes the
// message; toggling removes or recreates the row. A UNIQUE
// constraint on (usuario_id, mensaje_id) guarantees at most one
// active like per user and message.
type Like struct {
	ID        uint64    // likes.id
	UserID    uint64    // likes.usuario_id
	MessageID uint64    // likes.mensaje_id
	CreatedAt time.Time // likes.fecha
}

// Repost mirrors Like for the `republicaciones` table and follows
// the same toggle semantics and uniqueness constraint.
type Repost struct {
	ID        uint64    // republicaciones.id
	UserID    uint64    // republicaciones.usuario_id
	MessageID uint64    // republicaciones.mensaje_id
	CreatedAt time.Time // republicaciones.fecha
}
