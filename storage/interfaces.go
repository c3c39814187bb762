package storage

import (
	"context"
	"time"

	"github.com/knowhaven/knowhaven/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for the durable document archive.
type DocumentRepository interface {
	Repository

	// PutDocuments adds or replaces one or more documents.
	// Documents with ID=0 get content-based IDs.
	// Sets AcquiredAt to the current time if not already set.
	// Returns the documents with IDs and timestamps populated.
	PutDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// ListDocuments retrieves a page of documents ordered by ID.
	// Offset is the number of documents to skip; limit caps the page size.
	ListDocuments(ctx context.Context, offset, limit int) ([]*core.Document, error)

	// GetDocumentsByDateRange retrieves documents acquired within a time range.
	// Returns documents where start <= AcquiredAt < end, ordered by time.
	GetDocumentsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}

// CheckpointRepository persists progress markers for long-running jobs,
// so an interrupted rebuild can resume where it left off.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint under its name.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a job name.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)
}
