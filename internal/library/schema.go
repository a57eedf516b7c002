// Package library provides the SQLite-backed catalog of narrative domains
// and the archive of rendered stories, with optional FTS5 story search.
package library

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS domains (
	path         TEXT PRIMARY KEY,
	name         TEXT NOT NULL DEFAULT '',
	checksum     TEXT NOT NULL DEFAULT '',
	characters   INTEGER NOT NULL DEFAULT 0,
	locations    INTEGER NOT NULL DEFAULT 0,
	intentions   INTEGER NOT NULL DEFAULT 0,
	dependencies INTEGER NOT NULL DEFAULT 0,
	valid        INTEGER NOT NULL DEFAULT 0,
	errors       TEXT NOT NULL DEFAULT '[]',
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stories (
	id          TEXT PRIMARY KEY,
	domain_path TEXT NOT NULL,
	metric      TEXT NOT NULL DEFAULT '',
	score       REAL NOT NULL DEFAULT 0,
	intentions  TEXT NOT NULL DEFAULT '[]',
	prompt      TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_stories_domain ON stories(domain_path);
`

// DB wraps a sql.DB with library-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("library: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("library: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("library: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("library: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
