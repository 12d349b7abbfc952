package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledgard/magpie/internal/apperr"
	"github.com/ledgard/magpie/internal/models"
)

const itemColumns = `id, title, description, content, plain_content, url,
	thumbnail_url, source_id, connector_id, connector_type, content_type,
	folder_id, library_status, starred, read_later, last_read_at, properties,
	created_at, updated_at`

// CreateItem inserts a new item and assigns its ID.
func (db *DB) CreateItem(it *models.Item) error {
	now := time.Now().UTC().Truncate(time.Second)
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now

	res, err := db.conn.Exec(`
		INSERT INTO items (title, description, content, plain_content, url,
			thumbnail_url, source_id, connector_id, connector_type, content_type,
			folder_id, library_status, starred, read_later, last_read_at,
			properties, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.Title, it.Description, it.Content, it.PlainContent, it.URL,
		it.ThumbnailURL, it.SourceID, it.ConnectorID, it.ConnectorType, it.ContentType,
		it.FolderID, it.LibraryStatus, it.Starred, it.ReadLater, nullTime(it.LastReadAt),
		it.Properties, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: insert item id: %w", err)
	}
	it.ID = id
	return nil
}

// UpdateItem overwrites all mutable columns of an existing item.
func (db *DB) UpdateItem(it *models.Item) error {
	it.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := db.conn.Exec(`
		UPDATE items SET title = ?, description = ?, content = ?, plain_content = ?,
			url = ?, thumbnail_url = ?, source_id = ?, connector_id = ?,
			connector_type = ?, content_type = ?, folder_id = ?, library_status = ?,
			starred = ?, read_later = ?, last_read_at = ?, properties = ?,
			updated_at = ?
		WHERE id = ?
	`, it.Title, it.Description, it.Content, it.PlainContent,
		it.URL, it.ThumbnailURL, it.SourceID, it.ConnectorID,
		it.ConnectorType, it.ContentType, it.FolderID, it.LibraryStatus,
		it.Starred, it.ReadLater, nullTime(it.LastReadAt), it.Properties,
		it.UpdatedAt, it.ID)
	if err != nil {
		return fmt.Errorf("store: update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update item rows: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GetItem returns the item with the given ID.
func (db *DB) GetItem(id int64) (*models.Item, error) {
	row := db.conn.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get item: %w", err)
	}
	return it, nil
}

// DeleteItem removes the item with the given ID.
func (db *DB) DeleteItem(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete item rows: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListItems returns a page of items ordered by creation time (newest first)
// along with the total row count.
func (db *DB) ListItems(limit, offset int) ([]models.Item, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count items: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+itemColumns+` FROM items
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list items: %w", err)
	}
	defer rows.Close()

	var out []models.Item
	for rows.Next() {
		it, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("store: scan item: %w", scanErr)
		}
		out = append(out, *it)
	}
	return out, total, rows.Err()
}

// ForEachItem streams every item through fn. Used by the full reindex path;
// fn returning an error aborts the iteration.
func (db *DB) ForEachItem(fn func(*models.Item) error) error {
	rows, err := db.conn.Query(`SELECT ` + itemColumns + ` FROM items ORDER BY id`)
	if err != nil {
		return fmt.Errorf("store: iterate items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		it, scanErr := scanItem(rows)
		if scanErr != nil {
			return fmt.Errorf("store: scan item: %w", scanErr)
		}
		if err := fn(it); err != nil {
			return err
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (*models.Item, error) {
	var it models.Item
	var lastRead sql.NullTime
	err := r.Scan(&it.ID, &it.Title, &it.Description, &it.Content, &it.PlainContent,
		&it.URL, &it.ThumbnailURL, &it.SourceID, &it.ConnectorID, &it.ConnectorType,
		&it.ContentType, &it.FolderID, &it.LibraryStatus, &it.Starred, &it.ReadLater,
		&lastRead, &it.Properties, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastRead.Valid {
		it.LastReadAt = lastRead.Time
	}
	return &it, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
