package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/storage"
	"github.com/knowhaven/knowhaven/vectorize"
	"github.com/panjf2000/ants/v2"
)

// Pipeline validates, persists, vectorizes, and indexes documents.
// Vectorization runs concurrently on a worker pool.
type Pipeline struct {
	idx        *index.Index
	vectorizer vectorize.Vectorizer
	archive    storage.DocumentRepository
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent vectorization.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithArchive attaches a durable archive. When set, documents are persisted
// before they are indexed.
func WithArchive(archive storage.DocumentRepository) Option {
	return func(p *Pipeline) error {
		p.archive = archive
		return nil
	}
}

// NewPipeline creates a new ingest pipeline.
func NewPipeline(idx *index.Index, vectorizer vectorize.Vectorizer, opts ...Option) (*Pipeline, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		idx:        idx,
		vectorizer: vectorizer,
		pool:       pool,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingest")

	return p, nil
}

// Report summarizes the outcome of an ingest batch. Failures are isolated
// per document.
type Report struct {
	Ingested int
	Failed   int
	Errors   map[core.ID]string
}

// Ingest validates, persists, vectorizes, and indexes a batch of documents.
// Documents with ID=0 get content-based IDs, and AcquiredAt defaults to the
// current time. Invalid documents are reported in the result and skipped.
func (p *Pipeline) Ingest(ctx context.Context, docs ...*core.Document) (*Report, error) {
	report := &Report{Errors: make(map[core.ID]string)}

	valid := make([]*core.Document, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.Id == 0 {
			doc.Id = core.IDFromContent(doc.Title + "\n" + doc.Body)
		}
		if doc.AcquiredAt.IsZero() {
			doc.AcquiredAt = time.Now().UTC()
		}
		if err := core.ValidateDocument(doc); err != nil {
			report.Failed++
			report.Errors[doc.Id] = err.Error()
			p.logger.Warn("rejected document", "id", uint64(doc.Id), "title", doc.Title, "err", err)
			continue
		}
		valid = append(valid, doc)
	}

	if len(valid) == 0 {
		return report, nil
	}

	if p.archive != nil {
		if _, err := p.archive.PutDocuments(ctx, valid...); err != nil {
			return report, err
		}
	}

	// Vectorize concurrently, then apply as one bulk upsert
	entries := make(map[core.ID]index.Entry, len(valid))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, doc := range valid {
		doc := doc
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			vector := p.vectorizer.Vectorize(vectorize.DocumentText(doc))
			mu.Lock()
			entries[doc.Id] = index.Entry{Vector: vector, Document: doc}
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			report.Failed++
			report.Errors[doc.Id] = err.Error()
		}
	}
	wg.Wait()

	result := p.idx.BulkUpsert(entries)
	report.Ingested = result.Inserted
	report.Failed += result.Failed
	for id, msg := range result.Errors {
		report.Errors[id] = msg
	}

	p.logger.Info("ingest batch complete", "ingested", report.Ingested, "failed", report.Failed)
	return report, nil
}

// IngestFromSource pages through a content source and ingests every page.
// Returns the total number of documents indexed.
func (p *Pipeline) IngestFromSource(ctx context.Context, source ContentSource, pageSize int) (int, error) {
	if source == nil {
		return 0, ErrSourceRequired
	}
	if pageSize < 1 {
		pageSize = 100
	}

	total := 0
	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		docs, err := source.NextPage(ctx, page, pageSize)
		if err != nil {
			return total, err
		}
		if len(docs) == 0 {
			break
		}

		report, err := p.Ingest(ctx, docs...)
		if err != nil {
			return total, err
		}
		total += report.Ingested

		if len(docs) < pageSize {
			break
		}
	}

	p.logger.Info("source ingest complete", "documents", total)
	return total, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
