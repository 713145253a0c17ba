package task

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is the durability sink for the task collection. It is read
// once at session startup and written after every committed mutation;
// the in-memory Repository remains the source of truth in between.
type Store interface {
	// Load returns the persisted collection in stored order.
	// A first run (nothing persisted yet) returns an empty slice.
	Load() ([]Record, error)

	// Save replaces the persisted collection with recs, preserving order.
	Save(recs []Record) error
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	deadline    TEXT NOT NULL,
	status      TEXT NOT NULL,
	alert_level INTEGER NOT NULL DEFAULT 1,
	position    INTEGER NOT NULL
);
`

// SQLiteStore persists the task collection in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// ensures the tasks table exists. The caller is responsible for
// calling Close.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load returns all records ordered by their stored position.
func (s *SQLiteStore) Load() ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, title, deadline, status, alert_level FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Title, &r.Deadline, &r.Status, &r.AlertLevel); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Save replaces the stored collection with recs in one transaction.
func (s *SQLiteStore) Save(recs []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO tasks (id, title, deadline, status, alert_level, position) VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, r := range recs {
		if _, err := stmt.Exec(r.ID, r.Title, r.Deadline, r.Status, r.AlertLevel, i); err != nil {
			return fmt.Errorf("insert task %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
