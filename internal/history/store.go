package history

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry represents a single executed raw query
type Entry struct {
	ID           int64     `db:"id"`
	Query        string    `db:"query"`
	ExecutedAt   time.Time `db:"executed_at"`
	DurationMs   int64     `db:"duration_ms"`
	RowsAffected int64     `db:"rows_affected"`
	ReadOnly     bool      `db:"read_only"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
}

// Duration returns how long the query ran
func (e Entry) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}

// Store manages query history persistence
type Store struct {
	db         *sqlx.DB
	maxEntries int
}

// NewStore opens (or creates) the history database at path. A maxEntries of
// zero or less keeps everything.
func NewStore(path string, maxEntries int) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Add records a query and prunes the oldest entries beyond the limit
func (s *Store) Add(entry Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}

	_, err := s.db.NamedExec(`
		INSERT INTO query_history
		(query, executed_at, duration_ms, rows_affected, read_only, success, error_message)
		VALUES (:query, :executed_at, :duration_ms, :rows_affected, :read_only, :success, :error_message)`,
		entry)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = s.db.Exec(`
			DELETE FROM query_history
			WHERE id NOT IN (SELECT id FROM query_history ORDER BY id DESC LIMIT ?)`, s.maxEntries)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}
	return nil
}

// GetRecent retrieves the most recent entries, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.Select(&entries, `
		SELECT id, query, executed_at, duration_ms, rows_affected, read_only, success, error_message
		FROM query_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	return entries, err
}

// Search searches history by query text, newest first
func (s *Store) Search(text string, limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.Select(&entries, `
		SELECT id, query, executed_at, duration_ms, rows_affected, read_only, success, error_message
		FROM query_history
		WHERE query LIKE ?
		ORDER BY id DESC
		LIMIT ?`, "%"+text+"%", limit)
	return entries, err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
