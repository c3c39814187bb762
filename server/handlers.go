package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/retrieval"
	"github.com/knowhaven/knowhaven/storage"
)

// documentPayload is the wire form of a document.
type documentPayload struct {
	ID          uint64    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Summary     string    `json:"summary,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	AcquiredAt  time.Time `json:"acquired_at,omitempty"`
	Processed   bool      `json:"processed,omitempty"`
	Success     bool      `json:"success,omitempty"`
}

func (p *documentPayload) toDocument() *core.Document {
	return &core.Document{
		Id:          core.ID(p.ID),
		Title:       p.Title,
		Body:        p.Body,
		Summary:     p.Summary,
		Tags:        p.Tags,
		SourceURL:   p.SourceURL,
		ContentType: p.ContentType,
		AcquiredAt:  p.AcquiredAt,
		Processed:   p.Processed,
		Success:     p.Success,
	}
}

func toDocumentPayload(doc *core.Document) documentPayload {
	return documentPayload{
		ID:          uint64(doc.Id),
		Title:       doc.Title,
		Body:        doc.Body,
		Summary:     doc.Summary,
		Tags:        doc.Tags,
		SourceURL:   doc.SourceURL,
		ContentType: doc.ContentType,
		AcquiredAt:  doc.AcquiredAt,
		Processed:   doc.Processed,
		Success:     doc.Success,
	}
}

type searchRequest struct {
	Query         string  `json:"query"`
	TopK          int     `json:"top_k,omitempty"`
	MinSimilarity float32 `json:"min_similarity,omitempty"`
	ContentType   string  `json:"content_type,omitempty"`
	ProcessedOnly bool    `json:"processed_only,omitempty"`
}

type localResultPayload struct {
	Document documentPayload `json:"document"`
	Score    float32         `json:"score"`
}

type webResultPayload struct {
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Snippet    string    `json:"snippet"`
	Source     string    `json:"source"`
	Relevance  float32   `json:"relevance"`
	SearchedAt time.Time `json:"searched_at"`
}

type searchResponse struct {
	Query             string               `json:"query"`
	Answer            string               `json:"answer"`
	LocalResults      []localResultPayload `json:"local_results"`
	WebResults        []webResultPayload   `json:"web_results,omitempty"`
	FallbackTriggered bool                 `json:"fallback_triggered"`
	FallbackReason    string               `json:"fallback_reason,omitempty"`
	Method            string               `json:"method"`
	TotalTimeMillis   int64                `json:"total_time_ms"`
}

func toSearchResponse(resp *retrieval.Response) searchResponse {
	out := searchResponse{
		Query:             resp.Query,
		Answer:            resp.Answer,
		LocalResults:      make([]localResultPayload, 0, len(resp.LocalResults)),
		FallbackTriggered: resp.FallbackTriggered,
		FallbackReason:    resp.FallbackReason,
		Method:            resp.Method,
		TotalTimeMillis:   resp.TotalTime.Milliseconds(),
	}
	for _, r := range resp.LocalResults {
		out.LocalResults = append(out.LocalResults, localResultPayload{
			Document: toDocumentPayload(r.Document),
			Score:    r.Score,
		})
	}
	for _, w := range resp.WebResults {
		out.WebResults = append(out.WebResults, webResultPayload{
			Title:      w.Title,
			URL:        w.URL,
			Snippet:    w.Snippet,
			Source:     w.Source,
			Relevance:  w.Relevance,
			SearchedAt: w.SearchedAt,
		})
	}
	return out
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TopK < 1 {
		req.TopK = 5
	}
	s.logger.Debug("search request", "query", req.Query, "topK", req.TopK)

	response := s.orchestrator.Retrieve(r.Context(), core.Query{
		Text:          req.Query,
		TopK:          req.TopK,
		MinSimilarity: req.MinSimilarity,
		ContentType:   req.ContentType,
		ProcessedOnly: req.ProcessedOnly,
	})
	s.respondJSON(w, http.StatusOK, toSearchResponse(response))
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ask request", "question", req.Question)

	answer := s.orchestrator.Ask(r.Context(), req.Question)
	s.respondJSON(w, http.StatusOK, map[string]string{
		"question": req.Question,
		"answer":   answer,
	})
}

type ingestRequest struct {
	Documents []documentPayload `json:"documents"`
}

// handleIngestDocuments accepts either a batch ({"documents": [...]}) or a
// single document object.
func (s *Server) handleIngestDocuments(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var req ingestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Documents) == 0 {
		var single documentPayload
		if err := json.Unmarshal(body, &single); err == nil && (single.Title != "" || single.Body != "") {
			req.Documents = []documentPayload{single}
		}
	}
	if len(req.Documents) == 0 {
		s.respondError(w, http.StatusBadRequest, "documents is required")
		return
	}

	docs := make([]*core.Document, len(req.Documents))
	for i := range req.Documents {
		docs[i] = req.Documents[i].toDocument()
	}

	report, err := s.pipeline.Ingest(r.Context(), docs...)
	if err != nil {
		s.logger.Error("ingest failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ids := make([]uint64, len(docs))
	for i, doc := range docs {
		ids[i] = uint64(doc.Id)
	}
	errs := make(map[string]string, len(report.Errors))
	for id, msg := range report.Errors {
		errs[strconv.FormatUint(uint64(id), 10)] = msg
	}

	status := http.StatusCreated
	if report.Ingested == 0 {
		status = http.StatusBadRequest
	}
	s.respondJSON(w, status, map[string]any{
		"ingested": report.Ingested,
		"failed":   report.Failed,
		"ids":      ids,
		"errors":   errs,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}

	if s.archive != nil {
		doc, err := s.archive.GetDocument(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.respondError(w, http.StatusNotFound, "document not found")
				return
			}
			s.logger.Error("get document failed", "id", uint64(id), "err", err)
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondJSON(w, http.StatusOK, toDocumentPayload(doc))
		return
	}

	entry, err := s.idx.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	s.respondJSON(w, http.StatusOK, toDocumentPayload(entry.Document))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	s.logger.Debug("delete document request", "id", uint64(id))

	if s.archive != nil {
		if err := s.archive.DeleteDocuments(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Index may still hold it; fall through to the removal below
				if _, idxErr := s.idx.Get(id); idxErr != nil {
					s.respondError(w, http.StatusNotFound, "document not found")
					return
				}
			} else {
				s.logger.Error("delete document failed", "id", uint64(id), "err", err)
				s.respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	} else if _, err := s.idx.Get(id); err != nil {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}

	s.idx.Remove(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"indexed_documents": s.idx.Count(),
		"vector_dimension":  core.VectorDimension,
	}

	if s.archive != nil {
		archived, err := s.archive.CountDocuments(r.Context())
		if err != nil {
			s.logger.Error("stats: count documents failed", "err", err)
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		stats["archived_documents"] = archived
	}

	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseID extracts the document ID from the URL, responding with 400 on
// malformed input.
func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (core.ID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return 0, false
	}
	return core.ID(id), true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
