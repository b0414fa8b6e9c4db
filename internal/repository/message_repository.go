package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/mensajes/internal/model"
)

// MessageRepo provides CRUD operations for feed messages and the feed
// aggregation query. All timestamp fields are stored in UTC.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// FeedComment is a comment row joined with its author's display name,
// as it appears inside a feed item.
type FeedComment struct {
	ID         uint64
	Text       string
	CreatedAt  time.Time
	AuthorName string
}

// FeedItem is a message annotated with everything the feed endpoint
// returns: author identity, like and repost totals, the requester's own
// engagement state, and the ordered comment list.
type FeedItem struct {
	ID          uint64
	Text        string
	CreatedAt   time.Time
	AuthorName  string
	AuthorEmail string
	LikeTotal   int
	Liked       bool
	RepostTotal int
	Reposted    bool
	Comments    []FeedComment
}

// Create inserts a message and returns it with the server-assigned id
// and timestamp.
func (r *MessageRepo) Create(ctx context.Context, userID uint64, text string) (model.Message, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO mensajes (texto, fecha, usuario_id) VALUES (?,?,?)",
		text, now, userID)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{ID: uint64(id), Text: text, CreatedAt: now, UserID: userID}, nil
}

// GetByID fetches a message by id, returning ErrMessageNotFound when it
// does not exist.
func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (model.Message, error) {
	var m model.Message
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, texto, fecha, usuario_id FROM mensajes WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Text, &m.CreatedAt, &m.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Message{}, ErrMessageNotFound
		}
		return model.Message{}, err
	}
	return m, nil
}

// Delete removes a message authored by authorID. Dependent likes,
// comments and reposts go with it via ON DELETE CASCADE. Returns
// ErrMessageNotFound for unknown ids and ErrForbidden when the message
// belongs to another user, checked in one round trip against the
// message row.
func (r *MessageRepo) Delete(ctx context.Context, id, authorID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT usuario_id FROM mensajes WHERE id=? LIMIT 1", id).Scan(&owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrMessageNotFound
		}
		return err
	}
	if owner != authorID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM mensajes WHERE id=?", id)
	return err
}

// ListFeed returns all messages newest-first, annotated for the given
// viewer. Engagement totals and the viewer's own flags are computed in
// the main query; comments are fetched in a single second query and
// stitched in, so the cost stays at two round trips regardless of feed
// length.
func (r *MessageRepo) ListFeed(ctx context.Context, viewerID uint64) ([]FeedItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.texto, m.fecha,
		        CONCAT(u.nombre, ' ', u.apellido), u.email,
		        (SELECT COUNT(*) FROM likes l WHERE l.mensaje_id = m.id),
		        EXISTS(SELECT 1 FROM likes l WHERE l.mensaje_id = m.id AND l.usuario_id = ?),
		        (SELECT COUNT(*) FROM republicaciones rp WHERE rp.mensaje_id = m.id),
		        EXISTS(SELECT 1 FROM republicaciones rp WHERE rp.mensaje_id = m.id AND rp.usuario_id = ?)
		 FROM mensajes m
		 JOIN usuarios u ON u.id = m.usuario_id
		 ORDER BY m.fecha DESC, m.id DESC`,
		viewerID, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]FeedItem, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var it FeedItem
		if err := rows.Scan(&it.ID, &it.Text, &it.CreatedAt,
			&it.AuthorName, &it.AuthorEmail,
			&it.LikeTotal, &it.Liked, &it.RepostTotal, &it.Reposted); err != nil {
			return nil, err
		}
		it.Comments = []FeedComment{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	// Second pass: all comments for all messages, oldest-first so each
	// item's comment list reads top to bottom.
	crows, err := r.DB.QueryContext(ctx,
		`SELECT c.mensaje_id, c.id, c.texto, c.fecha, u.nombre
		 FROM comentarios c
		 JOIN usuarios u ON u.id = c.usuario_id
		 ORDER BY c.fecha ASC, c.id ASC`)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var (
			messageID uint64
			fc        FeedComment
		)
		if err := crows.Scan(&messageID, &fc.ID, &fc.Text, &fc.CreatedAt, &fc.AuthorName); err != nil {
			return nil, err
		}
		if i, ok := index[messageID]; ok {
			items[i].Comments = append(items[i].Comments, fc)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
