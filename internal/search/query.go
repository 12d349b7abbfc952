package search

import (
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/ledgard/magpie/internal/models"
)

// Weights are the per-field boosts applied to word clauses.
type Weights struct {
	Title   float64
	Content float64
}

// filterKind enumerates the typed option keywords. Each kind maps to exactly
// one MUST clause; adding a keyword means adding a constant here and a case
// to clause, which the compiler checks exhaustively.
type filterKind int

const (
	filterTweets filterKind = iota + 1
	filterPages
	filterRSS
	filterGitHub
	filterSaved
	filterArchived
	filterStarred
	filterReadLater
	filterRead
)

// optionTitleOnly restricts free-text scoring to the title field. It is a
// compile flag, not a filter clause.
const optionTitleOnly = "titleonly"

var optionKeywords = map[string]filterKind{
	"tweet":     filterTweets,
	"page":      filterPages,
	"rss":       filterRSS,
	"github":    filterGitHub,
	"saved":     filterSaved,
	"archived":  filterArchived,
	"starred":   filterStarred,
	"readlater": filterReadLater,
	"read":      filterRead,
}

// Compile parses a raw free-text query plus a comma-separated option string
// into a boolean query: every tokenized word must match (AND), each word
// scored as an OR over boosted per-field substring clauses, and every
// recognised option keyword contributing one exact-match or presence MUST
// clause. Unrecognised keywords are ignored.
//
// An empty free-text query compiles to a filter-only query (or match-all
// when no filters are present); that path serves library browsing.
// Conflicting type filters stay additive and simply match nothing.
func Compile(raw, opts string, w Weights, tok Tokenizer) query.Query {
	titleOnly, filters := parseOptions(opts)

	var must []query.Query
	for _, word := range tok.Tokenize(raw) {
		must = append(must, wordClause(word, w, titleOnly))
	}
	for _, f := range filters {
		must = append(must, f.clause())
	}

	switch len(must) {
	case 0:
		return query.NewMatchAllQuery()
	case 1:
		return must[0]
	default:
		return query.NewConjunctionQuery(must)
	}
}

// parseOptions splits the option string into the title-only flag and the
// list of typed filters. Unknown keywords are dropped so that older clients
// keep working against newer servers.
func parseOptions(opts string) (titleOnly bool, filters []filterKind) {
	for _, tokn := range strings.Split(opts, ",") {
		kw := strings.ToLower(strings.TrimSpace(tokn))
		if kw == "" {
			continue
		}
		if kw == optionTitleOnly {
			titleOnly = true
			continue
		}
		if kind, ok := optionKeywords[kw]; ok {
			filters = append(filters, kind)
		}
	}
	return titleOnly, filters
}

// wordClause builds the scored sub-query for one query word: a substring
// (wildcard both sides) match on title, and on content unless titleOnly.
// Description and url are deliberately absent from scoring; see Weights.
func wordClause(word string, w Weights, titleOnly bool) query.Query {
	title := query.NewWildcardQuery("*" + word + "*")
	title.SetField(FieldTitle)
	title.SetBoost(w.Title)
	if titleOnly {
		return title
	}

	content := query.NewWildcardQuery("*" + word + "*")
	content.SetField(FieldContent)
	content.SetBoost(w.Content)

	return query.NewDisjunctionQuery([]query.Query{title, content})
}

// clause builds the non-text MUST constraint for one filter kind.
func (k filterKind) clause() query.Query {
	switch k {
	case filterTweets:
		return numericEq(FieldContentType, models.ContentTypeTweet)
	case filterPages:
		return numericEq(FieldContentType, models.ContentTypePage)
	case filterRSS:
		return numericEq(FieldConnectorType, models.ConnectorTypeRSS)
	case filterGitHub:
		return numericEq(FieldConnectorType, models.ConnectorTypeGitHub)
	case filterSaved:
		return numericEq(FieldLibraryStatus, models.LibraryStatusSaved)
	case filterArchived:
		return numericEq(FieldLibraryStatus, models.LibraryStatusArchived)
	case filterStarred:
		return boolPresence(FieldStarred)
	case filterReadLater:
		return boolPresence(FieldReadLater)
	case filterRead:
		return numericPositive(FieldLastReadAt)
	}
	return query.NewMatchNoneQuery()
}

// numericEq matches documents whose field equals v exactly.
func numericEq(field string, v int) query.Query {
	val := float64(v)
	incl := true
	q := query.NewNumericRangeInclusiveQuery(&val, &val, &incl, &incl)
	q.SetField(field)
	return q
}

// boolPresence matches documents where the flag was indexed as true.
// False flags are never written, so this is an existence check.
func boolPresence(field string) query.Query {
	q := query.NewBoolFieldQuery(true)
	q.SetField(field)
	return q
}

// numericPositive matches documents whose field exists with a value > 0.
func numericPositive(field string) query.Query {
	zero := 0.0
	excl := false
	q := query.NewNumericRangeInclusiveQuery(&zero, nil, &excl, nil)
	q.SetField(field)
	return q
}
