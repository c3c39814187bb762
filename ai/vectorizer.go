package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/vectorize"
)

const defaultEmbedTimeout = 30 * time.Second

// ModelVectorizer adapts an Embedder to the vectorize.Vectorizer contract.
// The contract says vectorization never fails, so embedding errors and
// wrong-size embeddings degrade to the all-zero "no signal" vector instead
// of surfacing. Use this when a real embedding model should replace the
// default hashing vectorizer; the index and retrieval pipeline are unchanged.
type ModelVectorizer struct {
	embedder Embedder
	timeout  time.Duration
	logger   *slog.Logger
}

var _ vectorize.Vectorizer = (*ModelVectorizer)(nil)

// NewModelVectorizer wraps an embedder as a Vectorizer.
func NewModelVectorizer(embedder Embedder) *ModelVectorizer {
	return &ModelVectorizer{
		embedder: embedder,
		timeout:  defaultEmbedTimeout,
		logger:   slog.Default().With("component", "model-vectorizer"),
	}
}

// Vectorize embeds text through the model, falling back to the zero vector
// on any failure.
func (mv *ModelVectorizer) Vectorize(text string) []float32 {
	ctx, cancel := context.WithTimeout(context.Background(), mv.timeout)
	defer cancel()

	embedding, err := mv.embedder.EmbedText(ctx, text)
	if err != nil {
		mv.logger.Warn("embedding failed, returning zero vector", "err", err)
		return make([]float32, core.VectorDimension)
	}
	if len(embedding) != core.VectorDimension {
		mv.logger.Warn("embedding has wrong dimension, returning zero vector",
			"got", len(embedding), "want", core.VectorDimension)
		return make([]float32, core.VectorDimension)
	}
	return embedding
}
