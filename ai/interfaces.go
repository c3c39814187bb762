package ai

import "context"

// Synthesizer generates a natural-language answer from a prompt that
// embeds retrieved context. Implementations must be thread-safe for
// concurrent use.
type Synthesizer interface {
	// Generate produces an answer for the given prompt text.
	// Returns an error if generation fails; callers are expected to
	// degrade to a non-model answer rather than propagate the failure.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
