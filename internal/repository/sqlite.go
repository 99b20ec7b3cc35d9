package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStore implements domain.DashboardStore and domain.MetricStore on a
// single SQLite database. The database is the sole synchronization point; no
// dashboard or metric state is cached across calls.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	clock  clock.Clock
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path, clock: clock.New()}
}

func (s *SQLiteStore) Init() error {
	var err error

	if s.dbPath != ":memory:" {
		if err = os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			return fmt.Errorf("error creating database directory: %w", err)
		}
	}

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if s.dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own private
		// in-memory database.
		s.db.SetMaxOpenConns(1)
	}

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS dashboards (
		id TEXT PRIMARY KEY,
		uid TEXT UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		tags TEXT,
		panels TEXT,
		variables TEXT,
		refresh_interval TEXT DEFAULT '30s',
		time_range TEXT DEFAULT '1h',
		created_at TEXT
	);
	CREATE TABLE IF NOT EXISTS metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		labels TEXT,
		value REAL,
		timestamp INTEGER,
		created_at TEXT,
		UNIQUE(name, labels, timestamp)
	);
	CREATE TABLE IF NOT EXISTS metric_stats (
		name TEXT NOT NULL,
		labels TEXT NOT NULL,
		min_value REAL,
		max_value REAL,
		avg_value REAL,
		p95_value REAL,
		count INTEGER,
		last_updated TEXT,
		PRIMARY KEY (name, labels)
	);`

	_, err = s.db.Exec(createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	log.Println("SQLiteStore initialized.")
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
