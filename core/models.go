package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// VectorDimension is the fixed length of every embedding vector in the system.
// The index rejects vectors of any other length.
const VectorDimension = 384

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or assigned by callers.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document represents a single piece of knowledge content.
// It is immutable once indexed; changes happen only by re-upserting
// the same ID with new field values.
type Document struct {
	Id          ID
	Title       string
	Body        string
	Summary     string
	Tags        []string
	SourceURL   string
	ContentType string
	AcquiredAt  time.Time // When the content was originally acquired
	Processed   bool      // Whether AI post-processing (summary, tags) has run
	Success     bool      // Whether acquisition completed without errors
}

// SearchResult pairs a document with its similarity score for a query.
// Scores are cosine similarities in [0, 1] for term-frequency vectors.
type SearchResult struct {
	Document *Document
	Score    float32
}

// Query describes a retrieval request against the index.
type Query struct {
	Text          string
	TopK          int
	MinSimilarity float32
	ContentType   string // Optional filter; empty matches all types
	ProcessedOnly bool   // Restrict to documents with Processed set
}

// Checkpoint marks how far a long-running job has progressed, so an
// interrupted run can resume instead of starting over.
type Checkpoint struct {
	Name      string
	LastID    ID
	Processed int64
	UpdatedAt time.Time
}

// SimilarityStats aggregates the scores of a local result set.
// All fields are 0 when the result set is empty.
type SimilarityStats struct {
	Count   int
	Average float32
	Max     float32
	Min     float32
}

// ComputeStats derives aggregate similarity statistics from search results.
func ComputeStats(results []*SearchResult) SimilarityStats {
	stats := SimilarityStats{Count: len(results)}
	if len(results) == 0 {
		return stats
	}

	var sum float32
	stats.Max = results[0].Score
	stats.Min = results[0].Score
	for _, r := range results {
		sum += r.Score
		if r.Score > stats.Max {
			stats.Max = r.Score
		}
		if r.Score < stats.Min {
			stats.Min = r.Score
		}
	}
	stats.Average = sum / float32(len(results))
	return stats
}
