package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	eng := New(filepath.Join(t.TempDir(), "index.bleve"),
		Weights{Title: 100, Content: 5}, Limits{})
	t.Cleanup(func() { eng.Close() })
	return eng
}

func mustUpsert(t *testing.T, eng *Engine, doc *Document) {
	t.Helper()
	if err := eng.Upsert(doc); err != nil {
		t.Fatalf("Upsert(%d): %v", doc.ID, err)
	}
}

func mustSearch(t *testing.T, eng *Engine, q, opts string, page, size int) *Result {
	t.Helper()
	res, err := eng.Search(context.Background(), q, opts, page, size)
	if err != nil {
		t.Fatalf("Search(%q, %q): %v", q, opts, err)
	}
	return res
}

func hitIDs(res *Result) []int64 {
	ids := make([]int64, len(res.Hits))
	for i, h := range res.Hits {
		ids[i] = h.ID
	}
	return ids
}

func TestSearch_EmptyIndex(t *testing.T) {
	eng := testEngine(t)
	res := mustSearch(t, eng, "anything", "", 1, 10)
	if res.TotalHits != 0 || len(res.Hits) != 0 {
		t.Errorf("empty index returned %d hits", res.TotalHits)
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	eng := testEngine(t)
	doc := &Document{ID: 1, Title: "Rust ownership"}
	mustUpsert(t, eng, doc)
	mustUpsert(t, eng, doc)

	n, err := eng.DocCount()
	if err != nil {
		t.Fatalf("DocCount: %v", err)
	}
	if n != 1 {
		t.Errorf("doc count = %d, want 1", n)
	}
	res := mustSearch(t, eng, "ownership", "", 1, 10)
	if res.TotalHits != 1 {
		t.Errorf("total hits = %d, want 1", res.TotalHits)
	}
}

func TestUpsert_ReplacesPriorDocument(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "old headline"})
	mustUpsert(t, eng, &Document{ID: 1, Title: "new headline"})

	if res := mustSearch(t, eng, "old", "", 1, 10); res.TotalHits != 0 {
		t.Errorf("old title still searchable, %d hits", res.TotalHits)
	}
	res := mustSearch(t, eng, "new", "", 1, 10)
	if res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("new title not searchable: %+v", hitIDs(res))
	}
	if n, _ := eng.DocCount(); n != 1 {
		t.Errorf("doc count = %d after replace, want 1", n)
	}
}

func TestDelete_RemovesDocument(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 7, Title: "vanishing act"})
	if err := eng.Delete(7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res := mustSearch(t, eng, "vanishing", "", 1, 10); res.TotalHits != 0 {
		t.Errorf("deleted document still matches, %d hits", res.TotalHits)
	}
	// Deleting an absent ID is a no-op.
	if err := eng.Delete(99); err != nil {
		t.Errorf("delete of absent id: %v", err)
	}
}

func TestSearch_AllWordsMustMatch(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "rust ownership model"})
	mustUpsert(t, eng, &Document{ID: 2, Title: "rust tooling", Content: "nothing about the o-word"})
	mustUpsert(t, eng, &Document{ID: 3, Title: "borrow checker", Content: "rust enforces ownership"})

	res := mustSearch(t, eng, "rust ownership", "", 1, 10)
	if res.TotalHits != 2 {
		t.Fatalf("total hits = %d, want 2 (docs 1 and 3)", res.TotalHits)
	}
	for _, id := range hitIDs(res) {
		if id == 2 {
			t.Error("doc 2 has only one of the two words and must be excluded")
		}
	}
}

func TestSearch_TitleOutranksContent(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 2, Title: "something else", Content: "ownership appears in the body"})
	mustUpsert(t, eng, &Document{ID: 1, Title: "Rust ownership"})

	res := mustSearch(t, eng, "ownership", "", 1, 10)
	if res.TotalHits != 2 {
		t.Fatalf("total hits = %d, want 2", res.TotalHits)
	}
	if res.Hits[0].ID != 1 {
		t.Errorf("ranking = %v, want title match (1) first", hitIDs(res))
	}
	if res.Hits[0].Score <= res.Hits[1].Score {
		t.Errorf("title score %f should exceed content score %f",
			res.Hits[0].Score, res.Hits[1].Score)
	}
}

func TestSearch_TitleOnlyOption(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "gardening notes"})
	mustUpsert(t, eng, &Document{ID: 2, Title: "unrelated", Content: "gardening in the margins"})

	res := mustSearch(t, eng, "gardening", "titleonly", 1, 10)
	if res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("titleonly hits = %v, want only doc 1", hitIDs(res))
	}
}

func TestSearch_StarredFilterExcludesUnstarred(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "go generics", Starred: true})
	mustUpsert(t, eng, &Document{ID: 2, Title: "go generics deep dive"})

	res := mustSearch(t, eng, "generics", "starred", 1, 10)
	if res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("starred filter hits = %v, want only doc 1", hitIDs(res))
	}
}

func TestSearch_TypeAndStatusFilters(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "a tweet", ContentType: 2, LibraryStatus: 1})
	mustUpsert(t, eng, &Document{ID: 2, Title: "a page", ContentType: 1, LibraryStatus: 2})
	mustUpsert(t, eng, &Document{ID: 3, Title: "an rss entry", ConnectorType: 1})

	if res := mustSearch(t, eng, "", "tweet", 1, 10); res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("tweet filter = %v", hitIDs(res))
	}
	if res := mustSearch(t, eng, "", "archived", 1, 10); res.TotalHits != 1 || res.Hits[0].ID != 2 {
		t.Errorf("archived filter = %v", hitIDs(res))
	}
	if res := mustSearch(t, eng, "", "rss", 1, 10); res.TotalHits != 1 || res.Hits[0].ID != 3 {
		t.Errorf("rss filter = %v", hitIDs(res))
	}
	// Conflicting type filters are additive MUSTs: nothing can satisfy both.
	if res := mustSearch(t, eng, "", "tweet,page", 1, 10); res.TotalHits != 0 {
		t.Errorf("conflicting filters matched %d docs", res.TotalHits)
	}
}

func TestSearch_ReadFilter(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "read article", LastReadAt: time.Now()})
	mustUpsert(t, eng, &Document{ID: 2, Title: "unread article"})

	res := mustSearch(t, eng, "article", "read", 1, 10)
	if res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("read filter hits = %v, want only doc 1", hitIDs(res))
	}
}

func TestSearch_FilterOnlyBrowse(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "saved thing", LibraryStatus: 1})
	mustUpsert(t, eng, &Document{ID: 2, Title: "unsaved thing"})

	res := mustSearch(t, eng, "", "saved", 1, 10)
	if res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("browse-by-filter hits = %v, want only doc 1", hitIDs(res))
	}
	// No words, no filters: match everything.
	if res := mustSearch(t, eng, "", "", 1, 10); res.TotalHits != 2 {
		t.Errorf("match-all total = %d, want 2", res.TotalHits)
	}
}

func TestSearch_ExampleScenario(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "Rust ownership", Starred: true})
	mustUpsert(t, eng, &Document{ID: 2, Title: "Go concurrency", Content: "ownership-free GC"})
	mustUpsert(t, eng, &Document{ID: 3, Title: "C++ templates"})

	res := mustSearch(t, eng, "ownership", "", 1, 10)
	if res.TotalHits != 2 {
		t.Fatalf("total hits = %d, want 2", res.TotalHits)
	}
	ids := hitIDs(res)
	if ids[0] != 1 || ids[1] != 2 {
		t.Errorf("ranking = %v, want [1 2]", ids)
	}

	res = mustSearch(t, eng, "ownership", "starred", 1, 10)
	if res.TotalHits != 1 || res.Hits[0].ID != 1 {
		t.Errorf("starred hits = %v, want [1]", hitIDs(res))
	}
}

func TestSearch_Pagination(t *testing.T) {
	eng := testEngine(t)
	for i := int64(1); i <= 25; i++ {
		mustUpsert(t, eng, &Document{ID: i, Title: "common marker"})
	}

	page1 := mustSearch(t, eng, "marker", "", 1, 10)
	page2 := mustSearch(t, eng, "marker", "", 2, 10)
	page3 := mustSearch(t, eng, "marker", "", 3, 10)

	if page1.TotalHits != 25 || page2.TotalHits != 25 || page3.TotalHits != 25 {
		t.Errorf("total hits differ across pages: %d %d %d",
			page1.TotalHits, page2.TotalHits, page3.TotalHits)
	}
	if len(page1.Hits) != 10 || len(page2.Hits) != 10 || len(page3.Hits) != 5 {
		t.Errorf("page sizes = %d %d %d, want 10 10 5",
			len(page1.Hits), len(page2.Hits), len(page3.Hits))
	}

	seen := make(map[int64]bool)
	for _, res := range []*Result{page1, page2, page3} {
		for _, h := range res.Hits {
			if seen[h.ID] {
				t.Errorf("id %d appears on more than one page", h.ID)
			}
			seen[h.ID] = true
		}
	}
}

func TestSearch_PageSizeDefaultsAndClamp(t *testing.T) {
	eng := testEngine(t)
	for i := int64(1); i <= 30; i++ {
		mustUpsert(t, eng, &Document{ID: i, Title: "clamp me"})
	}

	res := mustSearch(t, eng, "clamp", "", 1, 0)
	if res.PageSize != defaultPageSize || len(res.Hits) != defaultPageSize {
		t.Errorf("default page size: got %d hits, want %d", len(res.Hits), defaultPageSize)
	}
	res = mustSearch(t, eng, "clamp", "", 1, 5000)
	if res.PageSize != defaultMaxPage {
		t.Errorf("page size = %d, want clamped to %d", res.PageSize, defaultMaxPage)
	}
	res = mustSearch(t, eng, "clamp", "", 0, 10)
	if res.Page != 1 {
		t.Errorf("page = %d, want defaulted to 1", res.Page)
	}
}

func TestSearch_DepthCap(t *testing.T) {
	eng := New(filepath.Join(t.TempDir(), "index.bleve"),
		Weights{Title: 100, Content: 5},
		Limits{DefaultPageSize: 3, MaxPageSize: 10, MaxResults: 5})
	t.Cleanup(func() { eng.Close() })

	for i := int64(1); i <= 8; i++ {
		mustUpsert(t, eng, &Document{ID: i, Title: "deep water"})
	}

	// Window straddles the cap: only 2 of the 3 requested fit under depth 5.
	res := mustSearch(t, eng, "deep", "", 2, 3)
	if len(res.Hits) != 2 {
		t.Errorf("straddling page returned %d hits, want 2", len(res.Hits))
	}
	if res.TotalHits != 8 {
		t.Errorf("total hits = %d, want true count 8", res.TotalHits)
	}

	// Window entirely past the cap: empty page, total still exact.
	res = mustSearch(t, eng, "deep", "", 3, 3)
	if len(res.Hits) != 0 {
		t.Errorf("past-cap page returned %d hits, want 0", len(res.Hits))
	}
	if res.TotalHits != 8 {
		t.Errorf("total hits = %d, want 8", res.TotalHits)
	}
}

func TestEngine_ClosedRejectsOperations(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "x"})
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := eng.Upsert(&Document{ID: 2, Title: "y"}); err != ErrClosed {
		t.Errorf("Upsert after close = %v, want ErrClosed", err)
	}
	if _, err := eng.Search(context.Background(), "x", "", 1, 10); err != ErrClosed {
		t.Errorf("Search after close = %v, want ErrClosed", err)
	}
}

func TestEngine_WeightsSwap(t *testing.T) {
	eng := testEngine(t)
	mustUpsert(t, eng, &Document{ID: 1, Title: "needle in title"})
	mustUpsert(t, eng, &Document{ID: 2, Title: "haystack", Content: "needle in body"})

	// Inverted weights make the content match dominate.
	eng.SetWeights(Weights{Title: 1, Content: 1000})
	res := mustSearch(t, eng, "needle", "", 1, 10)
	if res.Hits[0].ID != 2 {
		t.Errorf("ranking after weight swap = %v, want content match (2) first", hitIDs(res))
	}
}

func TestSearch_ReopenExistingIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index.bleve")
	eng := New(dir, Weights{Title: 100, Content: 5}, Limits{})
	mustUpsert(t, eng, &Document{ID: 1, Title: "persistent"})
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := New(dir, Weights{Title: 100, Content: 5}, Limits{})
	t.Cleanup(func() { reopened.Close() })
	res := mustSearch(t, reopened, "persistent", "", 1, 10)
	if res.TotalHits != 1 {
		t.Errorf("reopened index total = %d, want 1", res.TotalHits)
	}
}
