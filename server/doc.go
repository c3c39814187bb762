// Package server exposes the retrieval engine over an HTTP API.
//
// Routes are versioned under /api/v1. Search and ask requests run through
// the retrieval orchestrator; document writes go through the ingest
// pipeline so every stored document is archived and indexed in one step.
package server
