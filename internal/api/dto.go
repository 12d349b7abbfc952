package api

import (
	"time"

	"github.com/ledgard/magpie/internal/itemservice"
	"github.com/ledgard/magpie/internal/models"
)

// SaveItemRequest is the request body for creating or updating an item.
type SaveItemRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	PlainContent  string    `json:"plain_content"`
	URL           string    `json:"url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	SourceID      int64     `json:"source_id"`
	ConnectorID   int64     `json:"connector_id"`
	ConnectorType int       `json:"connector_type"`
	ContentType   int       `json:"content_type"`
	FolderID      int64     `json:"folder_id"`
	LibraryStatus int       `json:"library_status"`
	Starred       bool      `json:"starred"`
	ReadLater     bool      `json:"read_later"`
	LastReadAt    time.Time `json:"last_read_at"`
	Properties    string    `json:"properties"`
}

func (r *SaveItemRequest) toItem(id int64) *models.Item {
	return &models.Item{
		ID:            id,
		Title:         r.Title,
		Description:   r.Description,
		Content:       r.Content,
		PlainContent:  r.PlainContent,
		URL:           r.URL,
		ThumbnailURL:  r.ThumbnailURL,
		SourceID:      r.SourceID,
		ConnectorID:   r.ConnectorID,
		ConnectorType: r.ConnectorType,
		ContentType:   r.ContentType,
		FolderID:      r.FolderID,
		LibraryStatus: r.LibraryStatus,
		Starred:       r.Starred,
		ReadLater:     r.ReadLater,
		LastReadAt:    r.LastReadAt,
		Properties:    r.Properties,
	}
}

// ItemListResponse wraps paginated item listings.
type ItemListResponse struct {
	Items []models.Item `json:"items"`
	Total int           `json:"total"`
}

// SearchResponse is the ranked search payload (aliased from the service layer).
type SearchResponse = itemservice.SearchResult

// ReindexResponse reports how many records were re-indexed.
type ReindexResponse struct {
	Indexed int `json:"indexed"`
}
