package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// ErrMissingEndpoint is returned by NewHTTP when no endpoint is configured.
var ErrMissingEndpoint = errors.New("websearch: missing endpoint")

// HTTP queries a JSON search API. The provider is expected to accept
// `q` and `count` query parameters and respond with a JSON array of
// {title, url, snippet} objects.
type HTTP struct {
	endpoint string
	apiKey   string
	source   string
	client   *http.Client
	logger   *slog.Logger
}

// HTTPOption configures an HTTP adapter.
type HTTPOption func(*HTTP)

// WithAPIKey sets the bearer token sent with each request.
func WithAPIKey(key string) HTTPOption {
	return func(h *HTTP) {
		h.apiKey = key
	}
}

// WithSource sets the source label attached to results. Defaults to the
// endpoint host.
func WithSource(source string) HTTPOption {
	return func(h *HTTP) {
		h.source = source
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = client
	}
}

// WithHTTPLogger sets the logger used by the adapter.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = logger
	}
}

// NewHTTP creates an adapter for the given search endpoint.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTP, error) {
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("websearch: invalid endpoint %q: %w", endpoint, err)
	}

	h := &HTTP{
		endpoint: endpoint,
		source:   u.Host,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "websearch.http")
	return h, nil
}

type wireResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Search issues a GET request to the configured endpoint and decodes the
// response. A non-2xx status is an error.
func (h *HTTP) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if query == "" || count <= 0 {
		return nil, nil
	}

	u, err := url.Parse(h.endpoint)
	if err != nil {
		return nil, fmt.Errorf("websearch: invalid endpoint %q: %w", h.endpoint, err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("websearch: unexpected status %d from %s", resp.StatusCode, h.source)
	}

	var wire []wireResult
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("websearch: decode response: %w", err)
	}

	if len(wire) > count {
		wire = wire[:count]
	}
	results := make([]Result, 0, len(wire))
	for _, w := range wire {
		results = append(results, Result{
			Title:   w.Title,
			URL:     w.URL,
			Snippet: w.Snippet,
			Source:  h.source,
		})
	}

	h.logger.Debug("web search", "query", query, "results", len(results))
	return results, nil
}
