// Copyright 2025 Knowhaven Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/ingest"
	"github.com/knowhaven/knowhaven/retrieval"
	"github.com/knowhaven/knowhaven/storage"
)

// Server is the HTTP front end over the retrieval engine.
type Server struct {
	orchestrator *retrieval.Orchestrator
	pipeline     *ingest.Pipeline
	idx          *index.Index
	archive      storage.DocumentRepository
	config       *Config
	logger       *slog.Logger
	httpServer   *http.Server
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithArchive attaches the durable document archive. Without it, document
// reads are served from the index and deletes only touch the index.
func WithArchive(archive storage.DocumentRepository) Option {
	return func(s *Server) error {
		s.archive = archive
		return nil
	}
}

// New creates a server over the given collaborators.
// config may be nil, in which case DefaultConfig is used.
func New(
	orchestrator *retrieval.Orchestrator,
	pipeline *ingest.Pipeline,
	idx *index.Index,
	config *Config,
	opts ...Option,
) (*Server, error) {
	if orchestrator == nil {
		return nil, ErrOrchestratorRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		orchestrator: orchestrator,
		pipeline:     pipeline,
		idx:          idx,
		config:       config,
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")

	return s, nil
}

// Handler builds the routed HTTP handler. Exposed separately from Start so
// tests can drive it without a listening socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/ask", s.handleAsk)
	r.Post("/api/v1/documents", s.handleIngestDocuments)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Addr(),
		Handler: s.Handler(),
	}
	s.logger.Info("starting server", "addr", s.config.Addr())

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server, waiting for in-flight requests
// up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("stopping server")
	return s.httpServer.Shutdown(ctx)
}
