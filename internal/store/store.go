// Package store persists per-file view state (cursor, scroll, read-only
// flag) in SQLite so reopening a document restores where you left off.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS file_state (
	path      TEXT PRIMARY KEY,
	row       INTEGER NOT NULL,
	col       INTEGER NOT NULL,
	scroll    INTEGER NOT NULL,
	read_only INTEGER NOT NULL,
	updated   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_file_state_updated ON file_state(updated);
`

// ViewState is the persisted position for one file.
type ViewState struct {
	Row      int
	Col      int
	Scroll   int
	ReadOnly bool
}

// Store is a SQLite-backed view-state store.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the store database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database. Safe on a nil receiver.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the saved view state for a path. Safe to call on a nil
// receiver (returns miss).
func (s *Store) Get(path string) (ViewState, bool) {
	if s == nil {
		return ViewState{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var st ViewState
	var ro int
	err := s.db.QueryRow(
		"SELECT row, col, scroll, read_only FROM file_state WHERE path = ?",
		path,
	).Scan(&st.Row, &st.Col, &st.Scroll, &ro)
	if err != nil {
		return ViewState{}, false
	}
	st.ReadOnly = ro != 0
	return st, true
}

// Put saves the view state for a path. No-op on nil receiver.
func (s *Store) Put(path string, st ViewState) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ro := 0
	if st.ReadOnly {
		ro = 1
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO file_state (path, row, col, scroll, read_only, updated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		path, st.Row, st.Col, st.Scroll, ro, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to save view state")
	}
}
