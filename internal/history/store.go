package history

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry represents one applied search
type Entry struct {
	ID           int
	Entity       string
	Query        string
	AppliedAt    time.Time
	Duration     time.Duration
	TotalRows    int64
	Success      bool
	ErrorMessage string
}

// Store manages applied-search history persistence
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore creates a new history store. When maxEntries is positive the
// store keeps only that many rows, dropping the oldest on insert.
func NewStore(path string, maxEntries int) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, maxEntries: maxEntries}, nil
}

// Add records an applied search and prunes rows past the cap
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO search_history
		(entity, query, duration_ms, total_rows, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Entity,
		entry.Query,
		entry.Duration.Milliseconds(),
		entry.TotalRows,
		entry.Success,
		entry.ErrorMessage,
	)
	if err != nil {
		return err
	}

	if s.maxEntries > 0 {
		_, err = s.db.Exec(`
			DELETE FROM search_history
			WHERE id NOT IN (
				SELECT id FROM search_history
				ORDER BY applied_at DESC, id DESC
				LIMIT ?
			)`, s.maxEntries)
	}
	return err
}

// GetRecent retrieves the most recent applied searches for one entity
func (s *Store) GetRecent(entity string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, entity, query, applied_at, duration_ms, total_rows, success, error_message
		FROM search_history
		WHERE entity = ?
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, entity, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Search searches history by query text across all entities
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, entity, query, applied_at, duration_ms, total_rows, success, error_message
		FROM search_history
		WHERE query LIKE ?
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var appliedAt string

		err := rows.Scan(
			&e.ID,
			&e.Entity,
			&e.Query,
			&appliedAt,
			&durationMs,
			&e.TotalRows,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.AppliedAt, _ = time.Parse("2006-01-02 15:04:05", appliedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
