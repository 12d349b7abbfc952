// Package itemservice coordinates the record store and the search index.
// Records are authoritative: the index is written synchronously after each
// successful record mutation, and an index failure is logged rather than
// rolled back — a missed write only degrades recall until the next upsert.
package itemservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/ledgard/magpie/internal/apperr"
	"github.com/ledgard/magpie/internal/models"
	"github.com/ledgard/magpie/internal/search"
	"github.com/ledgard/magpie/internal/store"
)

// Service coordinates record and index operations.
type Service struct {
	store  *store.DB
	engine *search.Engine
	logger *slog.Logger
}

// NewService creates a new item service.
func NewService(db *store.DB, engine *search.Engine, logger *slog.Logger) *Service {
	return &Service{store: db, engine: engine, logger: logger}
}

// GetItem returns one item from the record store.
func (s *Service) GetItem(_ context.Context, id int64) (*models.Item, error) {
	return s.store.GetItem(id)
}

// ListItems returns a page of items plus the total count.
func (s *Service) ListItems(_ context.Context, limit, offset int) ([]models.Item, int, error) {
	return s.store.ListItems(limit, offset)
}

// SaveItem creates or updates an item record, then mirrors it into the
// search index.
func (s *Service) SaveItem(_ context.Context, it *models.Item) (*models.Item, error) {
	var err error
	if it.ID == 0 {
		err = s.store.CreateItem(it)
	} else {
		err = s.store.UpdateItem(it)
	}
	if err != nil {
		return nil, err
	}
	s.notifyUpserted(it)
	return it, nil
}

// DeleteItem removes an item record and its index document.
func (s *Service) DeleteItem(_ context.Context, id int64) error {
	if err := s.store.DeleteItem(id); err != nil {
		return err
	}
	if err := s.engine.Delete(id); err != nil {
		s.logger.Warn("index delete failed",
			slog.Int64("item_id", id),
			slog.String("error", err.Error()))
	}
	return nil
}

// notifyUpserted mirrors the record into the index.
func (s *Service) notifyUpserted(it *models.Item) {
	doc, err := search.MapItem(it)
	if err != nil {
		s.logger.Error("map item failed",
			slog.Int64("item_id", it.ID),
			slog.String("error", err.Error()))
		return
	}
	if err := s.engine.Upsert(doc); err != nil {
		s.logger.Warn("index upsert failed",
			slog.Int64("item_id", it.ID),
			slog.String("error", err.Error()))
	}
}

// Reindex rebuilds the index from scratch by upserting every record. Upserts
// are idempotent, so this also recovers any drift between store and index.
func (s *Service) Reindex(_ context.Context) (int, error) {
	n := 0
	err := s.store.ForEachItem(func(it *models.Item) error {
		doc, mapErr := search.MapItem(it)
		if mapErr != nil {
			return mapErr
		}
		if upErr := s.engine.Upsert(doc); upErr != nil {
			return upErr
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	s.logger.Info("reindex complete", slog.Int("items", n))
	return n, nil
}

// ResultItem is one assembled search hit: the document's stored fields plus
// display names the engine does not own.
type ResultItem struct {
	ID            int64     `json:"id"`
	Score         float64   `json:"score"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	URL           string    `json:"url,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	SourceID      int64     `json:"source_id,omitempty"`
	SourceName    string    `json:"source_name,omitempty"`
	ConnectorType int       `json:"connector_type,omitempty"`
	ContentType   int       `json:"content_type,omitempty"`
	FolderID      int64     `json:"folder_id,omitempty"`
	FolderName    string    `json:"folder_name,omitempty"`
	LibraryStatus int       `json:"library_status"`
	Starred       bool      `json:"starred,omitempty"`
	ReadLater     bool      `json:"read_later,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	LastReadAt    time.Time `json:"last_read_at,omitempty"`
	Properties    string    `json:"properties,omitempty"`
}

// SearchResult is one ranked page of assembled hits.
type SearchResult struct {
	Items       []ResultItem `json:"items"`
	TotalHits   uint64       `json:"total_hits"`
	CostSeconds float64      `json:"cost_seconds"`
	Page        int          `json:"page"`
}

// Search runs a ranked query and assembles the hits into result items. A
// failed read surfaces as apperr.ErrUnavailable; the underlying cause is
// logged, not exposed.
func (s *Service) Search(ctx context.Context, q, opts string, page, pageSize int) (*SearchResult, error) {
	res, err := s.engine.Search(ctx, q, opts, page, pageSize)
	if err != nil {
		s.logger.Error("search failed",
			slog.String("query", q),
			slog.String("error", err.Error()))
		return nil, apperr.ErrUnavailable
	}

	items := make([]ResultItem, 0, len(res.Hits))
	for _, h := range res.Hits {
		items = append(items, s.assemble(h))
	}
	return &SearchResult{
		Items:       items,
		TotalHits:   res.TotalHits,
		CostSeconds: res.CostSeconds,
		Page:        res.Page,
	}, nil
}

// assemble turns a raw hit back into a result item, enriching the integer
// foreign keys with display names from the record store.
func (s *Service) assemble(h search.Hit) ResultItem {
	it := ResultItem{
		ID:            h.ID,
		Score:         h.Score,
		Title:         fieldString(h.Fields, search.FieldTitle),
		Description:   fieldString(h.Fields, search.FieldDescription),
		URL:           fieldString(h.Fields, search.FieldURL),
		ThumbnailURL:  fieldString(h.Fields, search.FieldThumbnailURL),
		SourceID:      fieldInt64(h.Fields, search.FieldSourceID),
		ConnectorType: int(fieldInt64(h.Fields, search.FieldConnectorType)),
		ContentType:   int(fieldInt64(h.Fields, search.FieldContentType)),
		FolderID:      fieldInt64(h.Fields, search.FieldFolderID),
		LibraryStatus: int(fieldInt64(h.Fields, search.FieldLibraryStatus)),
		Starred:       fieldBool(h.Fields, search.FieldStarred),
		ReadLater:     fieldBool(h.Fields, search.FieldReadLater),
		CreatedAt:     fieldTime(h.Fields, search.FieldCreatedAt),
		LastReadAt:    fieldTime(h.Fields, search.FieldLastReadAt),
		Properties:    fieldString(h.Fields, search.FieldProperties),
	}
	if it.FolderID != 0 {
		if name, err := s.store.FolderName(it.FolderID); err == nil {
			it.FolderName = name
		}
	}
	if it.SourceID != 0 {
		if name, err := s.store.SourceName(it.SourceID); err == nil {
			it.SourceName = name
		}
	}
	return it
}

func fieldString(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return s
}

func fieldInt64(f map[string]any, key string) int64 {
	n, _ := f[key].(float64)
	return int64(n)
}

func fieldBool(f map[string]any, key string) bool {
	b, _ := f[key].(bool)
	return b
}

func fieldTime(f map[string]any, key string) time.Time {
	n, ok := f[key].(float64)
	if !ok || n == 0 {
		return time.Time{}
	}
	return time.Unix(int64(n), 0).UTC()
}
