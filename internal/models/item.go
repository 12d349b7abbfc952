// Package models defines the domain types for Magpie.
package models

import "time"

// Connector types identify where an item was ingested from.
const (
	ConnectorTypeRSS     = 1
	ConnectorTypeTwitter = 2
	ConnectorTypeGitHub  = 3
	ConnectorTypeBrowser = 4
)

// Content types classify the saved item itself.
const (
	ContentTypePage  = 1 // saved browser page / history entry
	ContentTypeTweet = 2
	ContentTypeFeed  = 3 // RSS entry
	ContentTypeRepo  = 4 // starred repository
)

// Library save statuses. Zero means the item was seen but never saved.
const (
	LibraryStatusNone     = 0
	LibraryStatusSaved    = 1
	LibraryStatusArchived = 2
)

// Item represents one saved piece of content, regardless of origin.
type Item struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Content       string    `json:"content,omitempty"`
	PlainContent  string    `json:"plain_content,omitempty"`
	URL           string    `json:"url,omitempty"`
	ThumbnailURL  string    `json:"thumbnail_url,omitempty"`
	SourceID      int64     `json:"source_id,omitempty"`
	ConnectorID   int64     `json:"connector_id,omitempty"`
	ConnectorType int       `json:"connector_type,omitempty"`
	ContentType   int       `json:"content_type,omitempty"`
	FolderID      int64     `json:"folder_id,omitempty"`
	LibraryStatus int       `json:"library_status"`
	Starred       bool      `json:"starred,omitempty"`
	ReadLater     bool      `json:"read_later,omitempty"`
	LastReadAt    time.Time `json:"last_read_at,omitempty"`
	Properties    string    `json:"properties,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Folder groups saved items for library browsing.
type Folder struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Source is an ingestion origin (a feed, an account, a repo list).
type Source struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
