package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffline_Search(t *testing.T) {
	adapter := NewOffline()
	ctx := context.Background()

	t.Run("returns at most three results", func(t *testing.T) {
		results, err := adapter.Search(ctx, "public holidays in germany", 10)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("respects smaller count", func(t *testing.T) {
		results, err := adapter.Search(ctx, "public holidays", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("deterministic for a given query", func(t *testing.T) {
		first, err := adapter.Search(ctx, "badger compaction", 3)
		require.NoError(t, err)
		second, err := adapter.Search(ctx, "badger compaction", 3)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("fields populated", func(t *testing.T) {
		results, err := adapter.Search(ctx, "vector search", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Title, "vector search")
		assert.NotEmpty(t, results[0].URL)
		assert.NotEmpty(t, results[0].Snippet)
		assert.Equal(t, "offline", results[0].Source)
	})

	t.Run("empty query yields no results", func(t *testing.T) {
		results, err := adapter.Search(ctx, "", 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := adapter.Search(canceled, "anything", 3)
		assert.Error(t, err)
	})
}

func TestNewHTTP(t *testing.T) {
	t.Run("requires endpoint", func(t *testing.T) {
		_, err := NewHTTP("")
		assert.ErrorIs(t, err, ErrMissingEndpoint)
	})

	t.Run("source defaults to host", func(t *testing.T) {
		adapter, err := NewHTTP("https://search.example.net/api")
		require.NoError(t, err)
		assert.Equal(t, "search.example.net", adapter.source)
	})
}

func TestHTTP_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes results and forwards parameters", func(t *testing.T) {
		var gotQuery, gotCount, gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotCount = r.URL.Query().Get("count")
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]wireResult{
				{Title: "First", URL: "https://a.example.com", Snippet: "alpha"},
				{Title: "Second", URL: "https://b.example.com", Snippet: "beta"},
			})
		}))
		defer srv.Close()

		adapter, err := NewHTTP(srv.URL, WithAPIKey("secret"), WithSource("testsearch"))
		require.NoError(t, err)

		results, err := adapter.Search(ctx, "holiday schedule", 5)
		require.NoError(t, err)

		assert.Equal(t, "holiday schedule", gotQuery)
		assert.Equal(t, "5", gotCount)
		assert.Equal(t, "Bearer secret", gotAuth)

		require.Len(t, results, 2)
		assert.Equal(t, "First", results[0].Title)
		assert.Equal(t, "testsearch", results[0].Source)
	})

	t.Run("truncates to requested count", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]wireResult{
				{Title: "a"}, {Title: "b"}, {Title: "c"},
			})
		}))
		defer srv.Close()

		adapter, err := NewHTTP(srv.URL)
		require.NoError(t, err)

		results, err := adapter.Search(ctx, "q", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer srv.Close()

		adapter, err := NewHTTP(srv.URL)
		require.NoError(t, err)

		_, err = adapter.Search(ctx, "q", 3)
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		adapter, err := NewHTTP(srv.URL)
		require.NoError(t, err)

		_, err = adapter.Search(ctx, "q", 3)
		assert.Error(t, err)
	})
}
