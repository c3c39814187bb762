package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// maxOfflineResults caps fabricated result sets regardless of the
// requested count.
const maxOfflineResults = 3

// Offline fabricates deterministic search results without touching the
// network. It stands in for a real provider when no API credentials are
// configured, and keeps tests hermetic.
type Offline struct {
	logger *slog.Logger
}

// OfflineOption configures an Offline adapter.
type OfflineOption func(*Offline)

// WithOfflineLogger sets the logger used by the adapter.
func WithOfflineLogger(logger *slog.Logger) OfflineOption {
	return func(o *Offline) {
		o.logger = logger
	}
}

// NewOffline creates an offline adapter.
func NewOffline(opts ...OfflineOption) *Offline {
	o := &Offline{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "websearch.offline")
	return o
}

// Search returns up to min(count, 3) fabricated results derived from the
// query text. Results are stable for a given query.
func (o *Offline) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "" || count <= 0 {
		return nil, nil
	}

	n := count
	if n > maxOfflineResults {
		n = maxOfflineResults
	}

	results := make([]Result, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, Result{
			Title:   fmt.Sprintf("Result %d: %s", i, query),
			URL:     fmt.Sprintf("https://example.com/search?q=%s&rank=%d", url.QueryEscape(query), i),
			Snippet: fmt.Sprintf("Reference material %d covering %q with related background detail.", i, query),
			Source:  "offline",
		})
	}

	o.logger.Debug("offline search", "query", query, "results", len(results))
	return results, nil
}
