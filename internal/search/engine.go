package search

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// ErrClosed indicates an operation on an engine whose handle was shut down.
var ErrClosed = errors.New("search: engine is closed")

// Limits bound pagination. MaxResults caps how deep the top-N collector may
// ever reach, independent of the true match count.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxResults      int
}

const (
	defaultPageSize = 20
	defaultMaxPage  = 100
	defaultMaxDepth = 10000
)

func (l Limits) normalized() Limits {
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = defaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = defaultMaxPage
	}
	if l.MaxResults <= 0 {
		l.MaxResults = defaultMaxDepth
	}
	return l
}

// Engine owns the single writable index handle of the process. The handle is
// opened lazily on first use and must be closed on shutdown. Any goroutine
// may call Upsert, Delete, and Search concurrently: writes are serialised by
// wmu so the delete+insert replace sequence stays atomic, while searches run
// against the index's own snapshot readers and never take the write lock.
type Engine struct {
	path   string
	tok    Tokenizer
	limits Limits

	mu     sync.RWMutex // handle lifecycle
	idx    bleve.Index
	closed bool

	wmu sync.Mutex // write serialisation

	cfgMu   sync.RWMutex
	weights Weights
}

// New creates an engine for the index directory at path. The directory is
// not touched until the first operation.
func New(path string, w Weights, l Limits) *Engine {
	return &Engine{
		path:    path,
		tok:     DefaultTokenizer,
		limits:  l.normalized(),
		weights: w,
	}
}

// SetTokenizer swaps the query tokenizer. Call before the engine is shared
// across goroutines.
func (e *Engine) SetTokenizer(tok Tokenizer) {
	if tok != nil {
		e.tok = tok
	}
}

// SetWeights replaces the ranking weights; takes effect on the next search.
func (e *Engine) SetWeights(w Weights) {
	e.cfgMu.Lock()
	e.weights = w
	e.cfgMu.Unlock()
}

// CurrentWeights returns the ranking weights in use.
func (e *Engine) CurrentWeights() Weights {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.weights
}

// handle returns the open index, opening or creating it on first use.
func (e *Engine) handle() (bleve.Index, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, ErrClosed
	}
	if e.idx != nil {
		idx := e.idx
		e.mu.RUnlock()
		return idx, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.idx != nil {
		return e.idx, nil
	}

	idx, err := bleve.Open(e.path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(e.path, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("search: open index %s: %w", e.path, err)
	}
	e.idx = idx
	return e.idx, nil
}

// Upsert inserts or fully replaces the document keyed by its ID. The index
// has no native per-key upsert: replace is delete-by-id plus insert,
// committed as one durable batch under the write lock so concurrent upserts
// for the same ID can never produce a duplicate.
func (e *Engine) Upsert(doc *Document) error {
	if doc == nil {
		return errors.New("search: nil document")
	}
	if doc.ID == 0 {
		return errors.New("search: document has no id")
	}
	idx, err := e.handle()
	if err != nil {
		return err
	}

	e.wmu.Lock()
	defer e.wmu.Unlock()

	id := docID(doc.ID)
	batch := idx.NewBatch()
	batch.Delete(id)
	if err := batch.Index(id, doc.fields()); err != nil {
		return fmt.Errorf("search: index document %s: %w", id, err)
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("search: commit upsert %s: %w", id, err)
	}
	return nil
}

// Delete removes the document for id. Deleting an absent ID is a no-op.
func (e *Engine) Delete(id int64) error {
	idx, err := e.handle()
	if err != nil {
		return err
	}

	e.wmu.Lock()
	defer e.wmu.Unlock()

	if err := idx.Delete(docID(id)); err != nil {
		return fmt.Errorf("search: delete document %d: %w", id, err)
	}
	return nil
}

// DocCount returns the number of live documents in the index.
func (e *Engine) DocCount() (uint64, error) {
	idx, err := e.handle()
	if err != nil {
		return 0, err
	}
	n, err := idx.DocCount()
	if err != nil {
		return 0, fmt.Errorf("search: doc count: %w", err)
	}
	return n, nil
}

// Close releases the index handle. Safe to call more than once; the engine
// is unusable afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.idx == nil {
		return nil
	}
	idx := e.idx
	e.idx = nil
	if err := idx.Close(); err != nil {
		return fmt.Errorf("search: close index: %w", err)
	}
	return nil
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}
