// Package reindex rebuilds the vector index from the document archive.
//
// The archive is the source of truth; the index is derived state. This
// package supports batch processing of archived documents, progress
// tracking, resumable checkpoints, and retry logic with exponential
// backoff for archive reads.
package reindex
