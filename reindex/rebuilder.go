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


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/storage"
	"github.com/knowhaven/knowhaven/vectorize"
)

// checkpointName identifies the rebuild job in the checkpoint store.
const checkpointName = "rebuild"

// Config holds configuration for the rebuild operation.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for archive reads
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Rebuilder repopulates the vector index from the document archive.
type Rebuilder struct {
	archive     storage.DocumentRepository
	idx         *index.Index
	vectorizer  vectorize.Vectorizer
	checkpoints storage.CheckpointRepository
	config      *Config
	progress    io.Writer
}

// NewRebuilder creates a new rebuilder.
// checkpoints may be nil, in which case runs always start from scratch.
// progress: where to write progress output (typically os.Stderr)
func NewRebuilder(
	archive storage.DocumentRepository,
	idx *index.Index,
	vectorizer vectorize.Vectorizer,
	checkpoints storage.CheckpointRepository,
	config *Config,
	progress io.Writer,
) (*Rebuilder, error) {
	if archive == nil {
		return nil, ErrArchiveRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if vectorizer == nil {
		return nil, ErrVectorizerRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Rebuilder{
		archive:     archive,
		idx:         idx,
		vectorizer:  vectorizer,
		checkpoints: checkpoints,
		config:      config,
		progress:    progress,
	}, nil
}

// Run executes the rebuild. Every archived document is vectorized and
// upserted into the index in batches. With a checkpoint store attached,
// an interrupted run resumes from the last completed batch.
func (r *Rebuilder) Run(ctx context.Context) error {
	total, err := r.archive.CountDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found in archive (0 documents)\n")
		return nil
	}

	processed, err := r.resumePoint(ctx)
	if err != nil {
		return err
	}
	if processed > 0 {
		fmt.Fprintf(r.progress, "Resuming rebuild at document %d of %d\n", processed, total)
	} else {
		fmt.Fprintf(r.progress, "Starting rebuild of %d documents (batch size: %d)\n",
			total, r.config.BatchSize)
	}

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()
	tracker.Update(processed)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var docs []*core.Document
		err := RetryWithBackoff(ctx, func() error {
			var fetchErr error
			docs, fetchErr = r.archive.ListDocuments(ctx, processed, r.config.BatchSize)
			return fetchErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to read archive after %d attempts: %w", r.config.MaxRetries, err)
		}
		if len(docs) == 0 {
			break
		}

		entries := make(map[core.ID]index.Entry, len(docs))
		var lastID core.ID
		for _, doc := range docs {
			vector := r.vectorizer.Vectorize(vectorize.DocumentText(doc))
			entries[doc.Id] = index.Entry{Vector: vector, Document: doc}
			lastID = doc.Id
		}

		result := r.idx.BulkUpsert(entries)
		if result.Failed > 0 {
			return fmt.Errorf("failed to index %d documents in batch at offset %d", result.Failed, processed)
		}

		processed += len(docs)
		tracker.Update(processed)

		if err := r.saveCheckpoint(ctx, lastID, processed); err != nil {
			return err
		}

		if len(docs) < r.config.BatchSize {
			break
		}
	}

	tracker.Finish()

	// Clear the checkpoint so the next run starts from scratch
	if err := r.saveCheckpoint(ctx, 0, 0); err != nil {
		return err
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Rebuild complete. Processed %d documents in %v (%.1f documents/sec)\n",
		processed, elapsed.Round(time.Second), float64(processed)/elapsed.Seconds())

	return nil
}

// resumePoint returns the offset to resume from, based on the stored
// checkpoint. Returns 0 when no checkpoint store or checkpoint exists.
func (r *Rebuilder) resumePoint(ctx context.Context) (int, error) {
	if r.checkpoints == nil {
		return 0, nil
	}

	cp, err := r.checkpoints.LoadCheckpoint(ctx, checkpointName)
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if cp == nil {
		return 0, nil
	}
	return int(cp.Processed), nil
}

// saveCheckpoint records batch completion when a checkpoint store is attached.
func (r *Rebuilder) saveCheckpoint(ctx context.Context, lastID core.ID, processed int) error {
	if r.checkpoints == nil {
		return nil
	}

	cp := &core.Checkpoint{
		Name:      checkpointName,
		LastID:    lastID,
		Processed: int64(processed),
	}
	if err := r.checkpoints.SaveCheckpoint(ctx, cp); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}
