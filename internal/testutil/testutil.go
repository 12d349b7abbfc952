// Package testutil provides shared test helpers for setting up record stores
// and search indexes.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ledgard/magpie/internal/search"
	"github.com/ledgard/magpie/internal/store"
)

// TestStore creates a temporary SQLite record store that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "magpie-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestEngine creates a search engine over a temporary index directory.
func TestEngine(t *testing.T) *search.Engine {
	t.Helper()
	eng := search.New(filepath.Join(t.TempDir(), "index.bleve"),
		search.Weights{Title: 100, Content: 5}, search.Limits{})
	t.Cleanup(func() { eng.Close() })
	return eng
}
