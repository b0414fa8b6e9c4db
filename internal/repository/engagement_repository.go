package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// EngagementRepo implements the shared toggle protocol for likes and
// reposts. Both tables have the same shape and a UNIQUE
// (usuario_id, mensaje_id) key, so one repository parameterized by
// table name serves both.
type EngagementRepo struct {
	DB    *sql.DB
	table string
}

// NewLikeRepo returns an EngagementRepo bound to the likes table.
func NewLikeRepo(db *sql.DB) *EngagementRepo {
	return &EngagementRepo{DB: db, table: "likes"}
}

// NewRepostRepo returns an EngagementRepo bound to the republicaciones table.
func NewRepostRepo(db *sql.DB) *EngagementRepo {
	return &EngagementRepo{DB: db, table: "republicaciones"}
}

// Toggle flips the (user, message) engagement state inside one
// transaction: delete the row if present, insert it otherwise. A
// concurrent insert that wins the race trips the unique key and is
// treated as a no-op rather than an error, so calling Toggle twice from
// the same user always returns to the original state. Returns the
// post-toggle total for the message and whether the user's row now
// exists.
func (r *EngagementRepo) Toggle(ctx context.Context, userID, messageID uint64) (total int, active bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM "+r.table+" WHERE usuario_id=? AND mensaje_id=?",
		userID, messageID)
	if err != nil {
		return 0, false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}

	if deleted == 0 {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO "+r.table+" (usuario_id, mensaje_id, fecha) VALUES (?,?,?)",
			userID, messageID, time.Now().UTC())
		switch {
		case err == nil:
			active = true
		case isDuplicateKey(err):
			// lost a race against another request from the same user;
			// the row exists, which is the state we wanted
			active = true
		case isForeignKeyViolation(err):
			return 0, false, ErrMessageNotFound
		default:
			return 0, false, err
		}
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+r.table+" WHERE mensaje_id=?",
		messageID).Scan(&total); err != nil {
		return 0, false, err
	}
	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	committed = true
	return total, active, nil
}

// MySQL error 1062 = duplicate entry for a unique key.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// MySQL error 1452 = foreign key constraint fails on insert.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1452")
}
