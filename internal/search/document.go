package search

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/ledgard/magpie/internal/models"
)

// Document is the denormalized, index-ready representation of one item.
// Exactly one document exists per live item ID.
type Document struct {
	ID            int64
	Title         string
	Description   string
	Content       string
	URL           string
	ThumbnailURL  string
	SourceID      int64
	ConnectorID   int64
	ConnectorType int
	ContentType   int
	FolderID      int64
	LibraryStatus int
	Starred       bool
	ReadLater     bool
	CreatedAt     time.Time
	LastReadAt    time.Time
	Properties    string
}

// MapItem maps an item record to its index document. It is pure and fails
// only when the record carries no ID.
//
// For the scored content field the pre-extracted plain-text rendering is
// preferred; failing that, markup is stripped from the raw content so the
// tokenized field stays free of tag noise.
func MapItem(it *models.Item) (*Document, error) {
	if it == nil {
		return nil, errors.New("search: nil item")
	}
	if it.ID == 0 {
		return nil, errors.New("search: item has no id")
	}

	content := it.PlainContent
	if content == "" {
		content = StripHTML(it.Content)
	}

	return &Document{
		ID:            it.ID,
		Title:         it.Title,
		Description:   it.Description,
		Content:       content,
		URL:           it.URL,
		ThumbnailURL:  it.ThumbnailURL,
		SourceID:      it.SourceID,
		ConnectorID:   it.ConnectorID,
		ConnectorType: it.ConnectorType,
		ContentType:   it.ContentType,
		FolderID:      it.FolderID,
		LibraryStatus: it.LibraryStatus,
		Starred:       it.Starred,
		ReadLater:     it.ReadLater,
		CreatedAt:     it.CreatedAt,
		LastReadAt:    it.LastReadAt,
		Properties:    it.Properties,
	}, nil
}

// fields returns the map handed to the index writer. Absent values are
// omitted rather than stored as zero, so field presence doubles as the
// existence filter for the boolean flags.
func (d *Document) fields() map[string]any {
	f := map[string]any{
		FieldLibraryStatus: float64(d.LibraryStatus),
	}
	if d.Title != "" {
		f[FieldTitle] = d.Title
	}
	if d.Description != "" {
		f[FieldDescription] = d.Description
	}
	if d.Content != "" {
		f[FieldContent] = d.Content
	}
	if d.URL != "" {
		f[FieldURL] = d.URL
	}
	if d.ThumbnailURL != "" {
		f[FieldThumbnailURL] = d.ThumbnailURL
	}
	if d.Properties != "" {
		f[FieldProperties] = d.Properties
	}
	if d.SourceID != 0 {
		f[FieldSourceID] = float64(d.SourceID)
	}
	if d.ConnectorID != 0 {
		f[FieldConnectorID] = float64(d.ConnectorID)
	}
	if d.ConnectorType != 0 {
		f[FieldConnectorType] = float64(d.ConnectorType)
	}
	if d.ContentType != 0 {
		f[FieldContentType] = float64(d.ContentType)
	}
	if d.FolderID != 0 {
		f[FieldFolderID] = float64(d.FolderID)
	}
	if d.Starred {
		f[FieldStarred] = true
	}
	if d.ReadLater {
		f[FieldReadLater] = true
	}
	if !d.CreatedAt.IsZero() {
		f[FieldCreatedAt] = float64(d.CreatedAt.Unix())
	}
	if !d.LastReadAt.IsZero() {
		f[FieldLastReadAt] = float64(d.LastReadAt.Unix())
	}
	return f
}

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// StripHTML removes markup from raw HTML, leaving whitespace-normalised text.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = scriptRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
