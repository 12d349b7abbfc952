package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
)

// Hit is one matched document with its stored fields. Field values carry
// the index's native types: strings, float64 for numerics, bool for flags.
type Hit struct {
	ID     int64
	Score  float64
	Fields map[string]any
}

// Result is one page of ranked matches. TotalHits is the true match count
// even though only the requested window is materialised.
type Result struct {
	Hits        []Hit
	TotalHits   uint64
	CostSeconds float64
	Page        int
	PageSize    int
}

// Search compiles raw+opts and returns the requested page ordered by
// descending relevance score. Page is 1-based; a non-positive pageSize gets
// the configured default and oversized requests clamp to the maximum. The
// collector never gathers more than Limits.MaxResults top-scored hits, so a
// window past that depth comes back empty while TotalHits stays exact.
//
// Ties are broken by index order, which is not stable across writes. A
// search against a never-written index returns zero hits, not an error.
func (e *Engine) Search(ctx context.Context, raw, opts string, page, pageSize int) (*Result, error) {
	idx, err := e.handle()
	if err != nil {
		return nil, err
	}

	if pageSize <= 0 {
		pageSize = e.limits.DefaultPageSize
	}
	if pageSize > e.limits.MaxPageSize {
		pageSize = e.limits.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	from := (page - 1) * pageSize
	size := pageSize
	switch {
	case from >= e.limits.MaxResults:
		from, size = 0, 0
	case from+size > e.limits.MaxResults:
		size = e.limits.MaxResults - from
	}

	q := Compile(raw, opts, e.CurrentWeights(), e.tok)
	req := bleve.NewSearchRequestOptions(q, size, from, false)
	req.Fields = []string{"*"}

	start := time.Now()
	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: execute query: %w", err)
	}
	cost := time.Since(start).Seconds()

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, convErr := strconv.ParseInt(h.ID, 10, 64)
		if convErr != nil {
			continue
		}
		hits = append(hits, Hit{ID: id, Score: h.Score, Fields: h.Fields})
	}

	return &Result{
		Hits:        hits,
		TotalHits:   res.Total,
		CostSeconds: cost,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}
