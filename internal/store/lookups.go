package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledgard/magpie/internal/apperr"
)

// CreateFolder inserts a folder and returns its ID.
func (db *DB) CreateFolder(name string) (int64, error) {
	res, err := db.conn.Exec(`INSERT INTO folders (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("store: insert folder: %w", err)
	}
	return res.LastInsertId()
}

// CreateSource inserts a source and returns its ID.
func (db *DB) CreateSource(name string) (int64, error) {
	res, err := db.conn.Exec(`INSERT INTO sources (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("store: insert source: %w", err)
	}
	return res.LastInsertId()
}

// FolderName resolves a folder ID to its display name.
func (db *DB) FolderName(id int64) (string, error) {
	return db.lookupName("folders", id)
}

// SourceName resolves a source ID to its display name.
func (db *DB) SourceName(id int64) (string, error) {
	return db.lookupName("sources", id)
}

func (db *DB) lookupName(table string, id int64) (string, error) {
	var name string
	err := db.conn.QueryRow(`SELECT name FROM `+table+` WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: lookup %s name: %w", table, err)
	}
	return name, nil
}
