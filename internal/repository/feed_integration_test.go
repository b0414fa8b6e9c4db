//go:build integration

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/iliyamo/mensajes/internal/database"
)

// These tests exercise the SQL paths against a real MySQL instance:
//
//	go test -tags integration ./internal/repository
//
// with DB_USER/DB_PASS/DB_HOST/DB_PORT/DB_NAME pointing at a scratch
// database. They cover the behavior that lives in the queries and
// constraints rather than in Go code: the unique-key toggle, the feed
// ordering clause, duplicate-email rejection and ownership checks.

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("DB_HOST")
	if host == "" {
		t.Skip("DB_HOST not set")
	}
	db, err := database.Open(
		envOr("DB_USER", "root"),
		os.Getenv("DB_PASS"),
		host,
		envOr("DB_PORT", "3306"),
		envOr("DB_NAME", "mensajes_test"),
	)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func createTestUser(t *testing.T, users *UserRepo, email string) uint64 {
	t.Helper()
	ctx := context.Background()
	id, err := users.Create(ctx, "Ana", "García", email,
		time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), "x")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return id
}

func uniqueEmail(tag string) string {
	return fmt.Sprintf("%s-%d@example.com", tag, time.Now().UnixNano())
}

func TestDBDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	email := uniqueEmail("dup")
	createTestUser(t, users, email)
	if _, err := users.Create(context.Background(), "Eva", "López", email,
		time.Date(1991, 3, 4, 0, 0, 0, 0, time.UTC), "y"); err != ErrEmailExists {
		t.Fatalf("second create err = %v, want ErrEmailExists", err)
	}
}

func TestDBToggleParity(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	messages := NewMessageRepo(db)
	likes := NewLikeRepo(db)

	author := createTestUser(t, users, uniqueEmail("toggle"))
	msg, err := messages.Create(ctx, author, "hola")
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	total, active, err := likes.Toggle(ctx, author, msg.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if total != 1 || !active {
		t.Fatalf("first toggle = (%d, %v), want (1, true)", total, active)
	}

	total, active, err = likes.Toggle(ctx, author, msg.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if total != 0 || active {
		t.Fatalf("second toggle = (%d, %v), want (0, false)", total, active)
	}

	// an even number of toggles always lands back on the initial state
	for i := 0; i < 4; i++ {
		if total, active, err = likes.Toggle(ctx, author, msg.ID); err != nil {
			t.Fatalf("toggle %d: %v", i+3, err)
		}
	}
	if total != 0 || active {
		t.Fatalf("after six toggles = (%d, %v), want (0, false)", total, active)
	}
}

func TestDBToggleUnknownMessage(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	likes := NewLikeRepo(db)
	author := createTestUser(t, users, uniqueEmail("ghost"))
	if _, _, err := likes.Toggle(context.Background(), author, 1<<60); err != ErrMessageNotFound {
		t.Fatalf("toggle on missing message err = %v, want ErrMessageNotFound", err)
	}
}

func TestDBFeedOrdering(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	messages := NewMessageRepo(db)

	author := createTestUser(t, users, uniqueEmail("feed"))
	created := make([]uint64, 0, 3)
	for _, text := range []string{"primero", "segundo", "tercero"} {
		m, err := messages.Create(ctx, author, text)
		if err != nil {
			t.Fatalf("create %q: %v", text, err)
		}
		created = append(created, m.ID)
	}

	items, err := messages.ListFeed(ctx, author)
	if err != nil {
		t.Fatalf("list feed: %v", err)
	}
	if len(items) < len(created) {
		t.Fatalf("feed has %d items, want at least %d", len(items), len(created))
	}
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("feed not newest-first at %d: %v before %v", i, prev.CreatedAt, cur.CreatedAt)
		}
		// timestamps have second resolution, so equal times fall back
		// to descending ids
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
			t.Fatalf("feed tie not broken by id at %d: %d before %d", i, prev.ID, cur.ID)
		}
	}
}

func TestDBDeleteForbidden(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)
	messages := NewMessageRepo(db)

	owner := createTestUser(t, users, uniqueEmail("owner"))
	other := createTestUser(t, users, uniqueEmail("other"))
	m, err := messages.Create(ctx, owner, "mío")
	if err != nil {
		t.Fatalf("create message: %v", err)
	}

	if err := messages.Delete(ctx, m.ID, other); err != ErrForbidden {
		t.Fatalf("delete by non-author err = %v, want ErrForbidden", err)
	}
	if _, err := messages.GetByID(ctx, m.ID); err != nil {
		t.Fatalf("message gone after forbidden delete: %v", err)
	}
	if err := messages.Delete(ctx, m.ID, owner); err != nil {
		t.Fatalf("delete by author: %v", err)
	}
	if _, err := messages.GetByID(ctx, m.ID); err != ErrMessageNotFound {
		t.Fatalf("get after delete err = %v, want ErrMessageNotFound", err)
	}
}
