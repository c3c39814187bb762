package vectorize

import (
	"math"
	"strings"

	"github.com/knowhaven/knowhaven/core"
)

// Vectorizer maps text to a fixed-dimension vector.
// Implementations must be deterministic for a given input, must never fail,
// and must always return a vector of exactly core.VectorDimension elements.
// Unusable input (empty or fully filtered text) yields the all-zero vector.
type Vectorizer interface {
	Vectorize(text string) []float32
}

// Hashing is the default term-frequency vectorizer. Each token is hashed to
// one of core.VectorDimension buckets and counted; the bucket vector is then
// L2-normalized. It holds no state and is safe for concurrent use.
type Hashing struct{}

var _ Vectorizer = Hashing{}

// NewHashing creates the default hash-bucket vectorizer.
func NewHashing() Hashing {
	return Hashing{}
}

// Vectorize converts text into a normalized term-frequency vector.
func (Hashing) Vectorize(text string) []float32 {
	vector := make([]float32, core.VectorDimension)

	for token, freq := range termFrequencies(tokenize(text)) {
		bucket := int(core.IDFromContent(token) % core.VectorDimension)
		vector[bucket] += float32(freq)
	}

	normalize(vector)
	return vector
}

// DocumentText concatenates the embeddable fields of a document in a fixed
// order. Indexing and querying must agree on this order for scores to be
// comparable.
func DocumentText(doc *core.Document) string {
	if doc == nil {
		return ""
	}

	parts := make([]string, 0, 4)
	if doc.Title != "" {
		parts = append(parts, doc.Title)
	}
	if doc.Body != "" {
		parts = append(parts, doc.Body)
	}
	if len(doc.Tags) > 0 {
		parts = append(parts, strings.Join(doc.Tags, " "))
	}
	if doc.Summary != "" {
		parts = append(parts, doc.Summary)
	}
	return strings.Join(parts, " ")
}

// normalize scales the vector to unit length in place.
// The all-zero vector is left unchanged; it is the reserved "no signal" value.
func normalize(vector []float32) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}

	magnitude := float32(math.Sqrt(sumSquares))
	for i := range vector {
		vector[i] /= magnitude
	}
}

// Cosine computes the cosine similarity of two vectors.
// Returns 0 when either vector has zero magnitude, so callers never divide
// by zero. For non-negative term-frequency vectors the result is in [0, 1].
func Cosine(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	for i := minLen; i < len(a); i++ {
		magA += float64(a[i]) * float64(a[i])
	}
	for i := minLen; i < len(b); i++ {
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(magA) * math.Sqrt(magB)))
}
