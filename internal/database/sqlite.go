package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLite implements Store on a single-table SQLite database.
type SQLite struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLite opens (creating if needed) the SQLite database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't handle multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating storage table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Ping() error {
	return s.db.Ping()
}

func (s *SQLite) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string

	err := s.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}

	return value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	if key == "" {
		return errors.New("key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	return nil
}

func (s *SQLite) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}

	return nil
}

func (s *SQLite) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT key FROM storage ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var out []string

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}

		out = append(out, k)
	}

	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
