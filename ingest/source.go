package ingest

import (
	"context"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/storage"
)

// ContentSource supplies documents page by page. A short or empty page
// signals the end of the source.
type ContentSource interface {
	NextPage(ctx context.Context, page, size int) ([]*core.Document, error)
}

// RepositorySource adapts a document archive into a ContentSource, so the
// index can be rebuilt from durable storage.
type RepositorySource struct {
	repo storage.DocumentRepository
}

var _ ContentSource = (*RepositorySource)(nil)

// NewRepositorySource wraps an archive repository.
func NewRepositorySource(repo storage.DocumentRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

// NextPage returns the requested page of archived documents.
func (s *RepositorySource) NextPage(ctx context.Context, page, size int) ([]*core.Document, error) {
	return s.repo.ListDocuments(ctx, page*size, size)
}

// SliceSource serves a fixed set of documents, mainly for tests and seeding.
type SliceSource struct {
	Documents []*core.Document
}

var _ ContentSource = (*SliceSource)(nil)

// NextPage returns the requested page of the underlying slice.
func (s *SliceSource) NextPage(ctx context.Context, page, size int) ([]*core.Document, error) {
	start := page * size
	if start >= len(s.Documents) {
		return nil, nil
	}
	end := start + size
	if end > len(s.Documents) {
		end = len(s.Documents)
	}
	return s.Documents[start:end], nil
}
