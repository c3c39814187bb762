package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowhaven/knowhaven/ai/mock"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/ingest"
	"github.com/knowhaven/knowhaven/retrieval"
	"github.com/knowhaven/knowhaven/storage/badger"
	"github.com/knowhaven/knowhaven/vectorize"
	"github.com/knowhaven/knowhaven/websearch"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	archive, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	idx := index.New()
	vectorizer := vectorize.NewHashing()

	orch, err := retrieval.New(idx, vectorizer, websearch.NewOffline(), mock.NewMockSynthesizer())
	require.NoError(t, err)

	pipeline, err := ingest.NewPipeline(idx, vectorizer, ingest.WithArchive(archive))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	srv, err := New(orch, pipeline, idx, nil, WithArchive(archive))
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func ingestDocs(t *testing.T, handler http.Handler, docs ...documentPayload) []uint64 {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/documents", ingestRequest{Documents: docs})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Ingested int      `json:"ingested"`
		IDs      []uint64 `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, len(docs), resp.Ingested)
	return resp.IDs
}

func TestServer_Health(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_IngestAndGetDocument(t *testing.T) {
	handler := newTestServer(t).Handler()

	ids := ingestDocs(t, handler, documentPayload{
		Title: "Go concurrency",
		Body:  "Goroutines and channels structure concurrent programs.",
		Tags:  []string{"go", "concurrency"},
	})
	require.Len(t, ids, 1)

	rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", ids[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc documentPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, ids[0], doc.ID)
	assert.Equal(t, "Go concurrency", doc.Title)
	assert.Equal(t, []string{"go", "concurrency"}, doc.Tags)
}

func TestServer_GetDocument_NotFound(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/documents/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_GetDocument_InvalidID(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/documents/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Ingest_InvalidBody(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Ingest_SingleDocument(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/documents", documentPayload{
		Title: "Single ingest",
		Body:  "One document posted without a batch wrapper.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Ingested int      `json:"ingested"`
		IDs      []uint64 `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Ingested)
	require.Len(t, resp.IDs, 1)

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", resp.IDs[0]), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Ingest_EmptyBatch(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/documents", ingestRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Ingest_AllInvalidDocuments(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/documents", ingestRequest{
		Documents: []documentPayload{{Title: "", Body: ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Ingested int               `json:"ingested"`
		Failed   int               `json:"failed"`
		Errors   map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Ingested)
	assert.Equal(t, 1, resp.Failed)
	assert.NotEmpty(t, resp.Errors)
}

func TestServer_Search_LocalHit(t *testing.T) {
	handler := newTestServer(t).Handler()

	ingestDocs(t, handler, documentPayload{
		Title: "Vector search",
		Body:  "Cosine similarity ranks documents against a query vector.",
	})

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/search", searchRequest{
		Query: "Vector search\nCosine similarity ranks documents against a query vector.",
		TopK:  2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.LocalResults, 1)
	assert.Equal(t, "Vector search", resp.LocalResults[0].Document.Title)
	assert.False(t, resp.FallbackTriggered)
	assert.Equal(t, retrieval.MethodLocal, resp.Method)
	assert.NotEmpty(t, resp.Answer)
}

func TestServer_Search_EmptyIndexFallsBack(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/search", searchRequest{
		Query: "orchestration patterns",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.FallbackTriggered)
	assert.Equal(t, retrieval.MethodFallback, resp.Method)
	assert.NotEmpty(t, resp.WebResults)
	for _, w := range resp.WebResults {
		assert.InDelta(t, 0.8, w.Relevance, 0.001)
	}
}

func TestServer_Search_InvalidBody(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Ask(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/ask", askRequest{Question: "what is indexed?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "what is indexed?", resp["question"])
	assert.NotEmpty(t, resp["answer"])
}

func TestServer_DeleteDocument(t *testing.T) {
	handler := newTestServer(t).Handler()

	ids := ingestDocs(t, handler, documentPayload{
		Title: "Ephemeral note",
		Body:  "This document will be removed.",
	})

	rec := doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", ids[0]), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", ids[0]), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", ids[0]), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Stats(t *testing.T) {
	handler := newTestServer(t).Handler()

	ingestDocs(t, handler,
		documentPayload{Title: "First", Body: "First body."},
		documentPayload{Title: "Second", Body: "Second body."},
	)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats["indexed_documents"])
	assert.EqualValues(t, 2, stats["archived_documents"])
	assert.EqualValues(t, 384, stats["vector_dimension"])
}

func TestServer_RequiredCollaborators(t *testing.T) {
	idx := index.New()
	vectorizer := vectorize.NewHashing()

	orch, err := retrieval.New(idx, vectorizer, websearch.NewOffline(), mock.NewMockSynthesizer())
	require.NoError(t, err)
	pipeline, err := ingest.NewPipeline(idx, vectorizer)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	_, err = New(nil, pipeline, idx, nil)
	assert.ErrorIs(t, err, ErrOrchestratorRequired)

	_, err = New(orch, nil, idx, nil)
	assert.ErrorIs(t, err, ErrPipelineRequired)

	_, err = New(orch, pipeline, nil, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Port = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)

	bad = *cfg
	bad.RequestTimeout = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KNOWHAVEN_SERVER_PORT", "9191")
	t.Setenv("KNOWHAVEN_SERVER_REQUEST_TIMEOUT", "15s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "0.0.0.0:9191", cfg.Addr())
	assert.Equal(t, float64(15), cfg.RequestTimeout.Seconds())
}
