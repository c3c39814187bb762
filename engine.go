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

package knowhaven

import (
	"io"
	"log/slog"
	"os"

	"github.com/knowhaven/knowhaven/ai"
	"github.com/knowhaven/knowhaven/ai/openai"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/ingest"
	"github.com/knowhaven/knowhaven/reindex"
	"github.com/knowhaven/knowhaven/retrieval"
	"github.com/knowhaven/knowhaven/storage"
	"github.com/knowhaven/knowhaven/storage/badger"
	"github.com/knowhaven/knowhaven/vectorize"
	"github.com/knowhaven/knowhaven/websearch"
)

// Engine bundles the archive, the vector index, and the AI collaborators
// behind one open/close lifecycle. It is the composition root: commands and
// servers obtain their pipelines and orchestrators from here.
type Engine struct {
	backend      *badger.Backend
	archive      storage.DocumentRepository
	checkpoints  storage.CheckpointRepository
	idx          *index.Index
	vectorizer   vectorize.Vectorizer
	synthesizer  ai.Synthesizer
	web          websearch.Adapter
	snapshotPath string
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig        *ai.Config
	inMemory        bool
	snapshotPath    string
	modelEmbeddings bool
	vectorizer      vectorize.Vectorizer
	synthesizer     ai.Synthesizer
	web             websearch.Adapter
	logger          *slog.Logger
}

// WithAIConfig sets the AI service configuration used for synthesis and,
// when enabled, model embeddings.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemory opens the archive backend in memory. Intended for tests.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithSnapshotPath enables index persistence: an existing snapshot is
// loaded on open and the current state is written on Close.
func WithSnapshotPath(path string) EngineOption {
	return func(o *engineOptions) {
		o.snapshotPath = path
	}
}

// WithModelEmbeddings replaces the default hashing vectorizer with
// embeddings from the configured embedding model.
func WithModelEmbeddings() EngineOption {
	return func(o *engineOptions) {
		o.modelEmbeddings = true
	}
}

// WithVectorizer overrides the vectorizer. Takes precedence over
// WithModelEmbeddings.
func WithVectorizer(v vectorize.Vectorizer) EngineOption {
	return func(o *engineOptions) {
		o.vectorizer = v
	}
}

// WithSynthesizer overrides the answer synthesizer.
func WithSynthesizer(s ai.Synthesizer) EngineOption {
	return func(o *engineOptions) {
		o.synthesizer = s
	}
}

// WithWebSearch sets the web search adapter used on retrieval fallback.
// Default is the offline adapter.
func WithWebSearch(adapter websearch.Adapter) EngineOption {
	return func(o *engineOptions) {
		o.web = adapter
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open creates an Engine over the archive at filePath.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create document archive
	archive, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create checkpoint repository
	checkpoints := badger.NewCheckpointRepository(backend)

	// Vectorizer: hashing by default, model embeddings on request
	vectorizer := options.vectorizer
	if vectorizer == nil {
		if options.modelEmbeddings {
			embedder, err := openai.NewEmbedder(options.aiConfig)
			if err != nil {
				backend.Close()
				return nil, err
			}
			vectorizer = ai.NewModelVectorizer(embedder)
		} else {
			vectorizer = vectorize.NewHashing()
		}
	}

	// Synthesizer: OpenAI-compatible endpoint unless overridden
	synthesizer := options.synthesizer
	if synthesizer == nil {
		synthesizer, err = openai.NewSynthesizer(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	web := options.web
	if web == nil {
		web = websearch.NewOffline()
	}

	e := &Engine{
		backend:      backend,
		archive:      archive,
		checkpoints:  checkpoints,
		idx:          index.New(),
		vectorizer:   vectorizer,
		synthesizer:  synthesizer,
		web:          web,
		snapshotPath: options.snapshotPath,
		logger:       options.logger,
	}

	if e.snapshotPath != "" {
		if err := e.loadSnapshot(); err != nil {
			backend.Close()
			return nil, err
		}
	}

	return e, nil
}

// loadSnapshot restores the index from the configured snapshot path.
// A missing snapshot file is not an error; the index starts empty.
func (e *Engine) loadSnapshot() error {
	if _, err := os.Stat(e.snapshotPath); err != nil {
		if os.IsNotExist(err) {
			e.logger.Info("no snapshot found, starting with empty index", "path", e.snapshotPath)
			return nil
		}
		return err
	}
	return e.idx.Load(e.snapshotPath)
}

// Close flushes the snapshot (when configured) and releases the backend.
func (e *Engine) Close() error {
	if e.snapshotPath != "" {
		if err := e.idx.Save(e.snapshotPath); err != nil {
			e.logger.Error("error saving snapshot", "err", err)
			return err
		}
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Index returns the in-memory vector index.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Archive returns the durable document repository.
func (e *Engine) Archive() storage.DocumentRepository {
	return e.archive
}

// Checkpoints returns the checkpoint repository.
func (e *Engine) Checkpoints() storage.CheckpointRepository {
	return e.checkpoints
}

// Vectorizer returns the active vectorizer.
func (e *Engine) Vectorizer() vectorize.Vectorizer {
	return e.vectorizer
}

// SaveSnapshot writes the current index state to the configured path.
func (e *Engine) SaveSnapshot() error {
	if e.snapshotPath == "" {
		return ErrNoSnapshotPath
	}
	return e.idx.Save(e.snapshotPath)
}

// NewPipeline creates an ingest pipeline wired to the engine's index,
// vectorizer, and archive.
func (e *Engine) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	base := []ingest.Option{ingest.WithArchive(e.archive)}
	return ingest.NewPipeline(e.idx, e.vectorizer, append(base, opts...)...)
}

// NewOrchestrator creates a retrieval orchestrator wired to the engine's
// index, vectorizer, web adapter, and synthesizer.
func (e *Engine) NewOrchestrator(opts ...retrieval.Option) (*retrieval.Orchestrator, error) {
	return retrieval.New(e.idx, e.vectorizer, e.web, e.synthesizer, opts...)
}

// NewRebuilder creates a rebuilder that repopulates the index from the
// archive, with checkpoint-based resume.
func (e *Engine) NewRebuilder(config *reindex.Config, progress io.Writer) (*reindex.Rebuilder, error) {
	return reindex.NewRebuilder(e.archive, e.idx, e.vectorizer, e.checkpoints, config, progress)
}
