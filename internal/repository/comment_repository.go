package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/mensajes/internal/model"
)

// CommentRepo provides append-only persistence for comments.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment on a message and returns it with the
// server-assigned id and timestamp. The caller must have verified that
// the message exists; a stale reference still fails on the foreign key
// and surfaces as ErrMessageNotFound.
func (r *CommentRepo) Create(ctx context.Context, userID, messageID uint64, text string) (model.Comment, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comentarios (texto, fecha, usuario_id, mensaje_id) VALUES (?,?,?,?)",
		text, now, userID, messageID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Comment{}, ErrMessageNotFound
		}
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return model.Comment{
		ID:        uint64(id),
		Text:      text,
		CreatedAt: now,
		UserID:    userID,
		MessageID: messageID,
	}, nil
}
