package mylist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("mylist: store is closed")

// handle is the single shared database connection pool.
//
// The database is opened by the first acquire; the outcome, success or
// failure, is kept for every later acquire. The pool is closed once the
// store is closed and the last holder has released it.
type handle struct {
	path string

	mu     sync.Mutex
	opened bool
	closed bool
	refs   int
	db     *sql.DB
	err    error
}

func (h *handle) acquire(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if !h.opened {
		h.opened = true
		// A cancelled first caller must not poison the cached result.
		h.db, h.err = openDB(context.WithoutCancel(ctx), h.path)
	}
	if h.err != nil {
		return nil, h.err
	}
	h.refs++
	return h.db, nil
}

func (h *handle) release() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.refs--
	if h.closed && h.refs == 0 && h.db != nil {
		_ = h.db.Close()
		h.db = nil
	}
}

func (h *handle) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if h.refs == 0 && h.db != nil {
		err := h.db.Close()
		h.db = nil
		return err
	}
	return nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to open list database: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open list database: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to open list database: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate list database: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS my_lists (
			slug TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			poster TEXT NOT NULL,
			rating TEXT,
			genres_json TEXT,
			list_status TEXT NOT NULL,
			added_at_unixms INTEGER NOT NULL,
			current_episode TEXT,
			episode_count TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS my_lists_list_status ON my_lists(list_status);`,
		`PRAGMA user_version = 1;`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
