// Package store implements the canonical SQLite record store. It owns item
// persistence; the search index is a separately-persisted mirror fed from
// the service layer after each record mutation.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS items (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	title          TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	content        TEXT NOT NULL DEFAULT '',
	plain_content  TEXT NOT NULL DEFAULT '',
	url            TEXT NOT NULL DEFAULT '',
	thumbnail_url  TEXT NOT NULL DEFAULT '',
	source_id      INTEGER NOT NULL DEFAULT 0,
	connector_id   INTEGER NOT NULL DEFAULT 0,
	connector_type INTEGER NOT NULL DEFAULT 0,
	content_type   INTEGER NOT NULL DEFAULT 0,
	folder_id      INTEGER NOT NULL DEFAULT 0,
	library_status INTEGER NOT NULL DEFAULT 0,
	starred        INTEGER NOT NULL DEFAULT 0,
	read_later     INTEGER NOT NULL DEFAULT 0,
	last_read_at   DATETIME,
	properties     TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS folders (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sources (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_items_folder ON items(folder_id);
CREATE INDEX IF NOT EXISTS idx_items_source ON items(source_id);
`

// DB wraps a sql.DB with record-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
