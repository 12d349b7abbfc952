// Package search provides the Bleve-backed full-text index over saved items:
// document mapping, a write-serialised index handle, a query compiler for the
// free-text + option mini-language, and score-ranked pagination.
package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index field names. These are the only names the compiler and the result
// assembler may reference; keep them in sync with Document.fields.
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldContent       = "content"
	FieldURL           = "url"
	FieldThumbnailURL  = "thumbnail_url"
	FieldSourceID      = "source_id"
	FieldConnectorID   = "connector_id"
	FieldConnectorType = "connector_type"
	FieldContentType   = "content_type"
	FieldFolderID      = "folder_id"
	FieldLibraryStatus = "library_status"
	FieldStarred       = "starred"
	FieldReadLater     = "read_later"
	FieldCreatedAt     = "created_at"
	FieldLastReadAt    = "last_read_at"
	FieldProperties    = "properties"
)

// buildIndexMapping declares the field kinds of the item document:
// tokenized text for the scored fields, keyword for exact-match strings,
// numerics for ids/statuses/timestamps (second resolution, range-capable),
// booleans indexed only on presence, and stored-only passthrough fields.
func buildIndexMapping() mapping.IndexMapping {
	text := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Store = true
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		return fm
	}
	exact := func() *mapping.FieldMapping {
		fm := text()
		fm.Analyzer = keyword.Name
		return fm
	}
	storedOnly := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Store = true
		fm.Index = false
		fm.IncludeInAll = false
		return fm
	}
	numeric := func() *mapping.FieldMapping {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = true
		fm.IncludeInAll = false
		return fm
	}
	boolean := func() *mapping.FieldMapping {
		fm := bleve.NewBooleanFieldMapping()
		fm.Store = true
		fm.IncludeInAll = false
		return fm
	}

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	doc.AddFieldMappingsAt(FieldTitle, text())
	doc.AddFieldMappingsAt(FieldDescription, text())
	doc.AddFieldMappingsAt(FieldContent, text())
	doc.AddFieldMappingsAt(FieldURL, exact())
	doc.AddFieldMappingsAt(FieldThumbnailURL, storedOnly())
	doc.AddFieldMappingsAt(FieldProperties, storedOnly())

	doc.AddFieldMappingsAt(FieldSourceID, numeric())
	doc.AddFieldMappingsAt(FieldConnectorID, numeric())
	doc.AddFieldMappingsAt(FieldConnectorType, numeric())
	doc.AddFieldMappingsAt(FieldContentType, numeric())
	doc.AddFieldMappingsAt(FieldFolderID, numeric())
	doc.AddFieldMappingsAt(FieldLibraryStatus, numeric())
	doc.AddFieldMappingsAt(FieldCreatedAt, numeric())
	doc.AddFieldMappingsAt(FieldLastReadAt, numeric())

	doc.AddFieldMappingsAt(FieldStarred, boolean())
	doc.AddFieldMappingsAt(FieldReadLater, boolean())

	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name
	im.DefaultMapping = doc
	im.StoreDynamic = false
	im.IndexDynamic = false
	return im
}
