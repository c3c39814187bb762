package retrieval

import (
	"time"

	"github.com/knowhaven/knowhaven/core"
)

// Method labels describing which stages contributed to an answer.
const (
	MethodLocal    = "local+llm"
	MethodFallback = "local+web+llm"
	MethodError    = "error"
)

// externalRelevance is the score assigned to web results, which carry no
// similarity of their own.
const externalRelevance = 0.8

// WebResult is an external search hit annotated for the response.
type WebResult struct {
	Title      string
	URL        string
	Snippet    string
	Source     string
	Relevance  float32
	SearchedAt time.Time
}

// Response is the complete outcome of one retrieval run.
type Response struct {
	Query string

	LocalResults []*core.SearchResult
	WebResults   []WebResult
	Answer       string

	FallbackTriggered bool
	FallbackReason    string
	Method            string

	Stats     core.SimilarityStats
	Timestamp time.Time

	TotalTime     time.Duration
	SearchTime    time.Duration
	WebSearchTime time.Duration
	SynthesisTime time.Duration
}
