package index

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/vectorize"
)

// Entry pairs a vector with the document it was derived from.
type Entry struct {
	Vector   []float32
	Document *core.Document
}

// BulkResult reports the outcome of a bulk upsert. Failures are isolated per
// key; a bad entry never aborts the rest of the batch.
type BulkResult struct {
	Inserted int
	Failed   int
	Errors   map[core.ID]string
}

// Index is the concurrent in-memory vector index.
// The vector map and the document map are maintained as a single entry map,
// so a key can never hold a vector without a document or vice versa.
type Index struct {
	mu      sync.RWMutex
	entries map[core.ID]Entry
	logger  *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	idx := &Index{
		entries: make(map[core.ID]Entry),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Upsert inserts or replaces the (vector, document) pair for a key.
// The vector must have exactly core.VectorDimension elements and the
// document must be non-nil. Vector and document are replaced together.
func (idx *Index) Upsert(id core.ID, vector []float32, doc *core.Document) error {
	if err := core.ValidateVector(vector); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}

	idx.mu.Lock()
	idx.entries[id] = Entry{Vector: vector, Document: doc}
	idx.mu.Unlock()

	idx.logger.Debug("upserted entry", "id", uint64(id), "title", doc.Title)
	return nil
}

// BulkUpsert applies entries one at a time. Entries that fail validation are
// counted and reported per key; valid entries are still applied.
func (idx *Index) BulkUpsert(entries map[core.ID]Entry) BulkResult {
	result := BulkResult{Errors: make(map[core.ID]string)}

	for id, entry := range entries {
		if err := idx.Upsert(id, entry.Vector, entry.Document); err != nil {
			result.Failed++
			result.Errors[id] = err.Error()
			idx.logger.Warn("bulk upsert entry rejected", "id", uint64(id), "err", err)
			continue
		}
		result.Inserted++
	}

	idx.logger.Info("bulk upsert complete", "inserted", result.Inserted, "failed", result.Failed)
	return result
}

// Remove deletes the entry for a key. Removing an absent key is a no-op.
func (idx *Index) Remove(id core.ID) {
	idx.mu.Lock()
	delete(idx.entries, id)
	idx.mu.Unlock()
}

// Get returns the entry for a key, or ErrNotFound.
func (idx *Index) Get(id core.ID) (Entry, error) {
	idx.mu.RLock()
	entry, ok := idx.entries[id]
	idx.mu.RUnlock()

	if !ok {
		return Entry{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return entry, nil
}

// Count returns the number of indexed entries.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Clear removes all entries.
func (idx *Index) Clear() {
	idx.mu.Lock()
	idx.entries = make(map[core.ID]Entry)
	idx.mu.Unlock()
}

// Search scores every stored vector against queryVector by cosine similarity
// and returns the top min(topK, Count()) results, ordered by descending
// score with ties broken by ascending ID. A zero query vector scores 0
// against everything.
func (idx *Index) Search(queryVector []float32, topK int) []*core.SearchResult {
	if topK < 1 {
		return nil
	}

	type scored struct {
		id    core.ID
		entry Entry
		score float32
	}

	idx.mu.RLock()
	candidates := make([]scored, 0, len(idx.entries))
	for id, entry := range idx.entries {
		score := vectorize.Cosine(queryVector, entry.Vector)
		candidates = append(candidates, scored{id: id, entry: entry, score: score})
	}
	idx.mu.RUnlock()

	slices.SortFunc(candidates, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		// Deterministic order for equal scores
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]*core.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = &core.SearchResult{Document: c.entry.Document, Score: c.score}
	}
	return results
}

// snapshotEntries copies the entry map for serialization.
func (idx *Index) snapshotEntries() map[core.ID]Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := make(map[core.ID]Entry, len(idx.entries))
	for id, entry := range idx.entries {
		entries[id] = entry
	}
	return entries
}

// replaceEntries swaps in a fully decoded entry map.
func (idx *Index) replaceEntries(entries map[core.ID]Entry) {
	idx.mu.Lock()
	idx.entries = entries
	idx.mu.Unlock()
}

// mergeEntries adds decoded entries into the current map, overwriting
// entries whose keys already exist.
func (idx *Index) mergeEntries(entries map[core.ID]Entry) {
	idx.mu.Lock()
	for id, entry := range entries {
		idx.entries[id] = entry
	}
	idx.mu.Unlock()
}
