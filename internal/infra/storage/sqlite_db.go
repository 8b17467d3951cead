package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryDSN opens a private in-memory database. Useful for tests and
// journal-less demo runs.
const MemoryDSN = ":memory:"

// InitSQLite opens the SQLite database at dbPath and creates the journal
// schema. Parent directories are created as needed.
func InitSQLite(dbPath string) (*sql.DB, error) {
	if dbPath != MemoryDSN {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if dbPath == MemoryDSN {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			action_id TEXT NOT NULL,
			message TEXT NOT NULL,
			day INTEGER NOT NULL,
			year INTEGER NOT NULL,
			age INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_session ON journal(session_id, sequence);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_action ON journal(session_id, action_id);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
