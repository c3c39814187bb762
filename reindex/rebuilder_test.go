package reindex

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowhaven/knowhaven/core"
	"github.com/knowhaven/knowhaven/index"
	"github.com/knowhaven/knowhaven/storage"
	"github.com/knowhaven/knowhaven/storage/badger"
	"github.com/knowhaven/knowhaven/vectorize"
)

func setupArchive(t *testing.T, n int) (storage.DocumentRepository, *badger.Backend) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	docs := make([]*core.Document, n)
	for i := 0; i < n; i++ {
		docs[i] = &core.Document{
			Id:    core.ID(i + 1),
			Title: fmt.Sprintf("Archived document %d", i+1),
			Body:  fmt.Sprintf("Body content for archived document %d.", i+1),
		}
	}
	if n > 0 {
		_, err = repo.PutDocuments(context.Background(), docs...)
		require.NoError(t, err)
	}
	return repo, backend
}

func TestRebuilder_Run(t *testing.T) {
	archive, _ := setupArchive(t, 25)
	idx := index.New()
	var out bytes.Buffer

	cfg := DefaultConfig()
	cfg.BatchSize = 10
	r, err := NewRebuilder(archive, idx, vectorize.NewHashing(), nil, cfg, &out)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 25, idx.Count())
	assert.Contains(t, out.String(), "Rebuild complete")
}

func TestRebuilder_EmptyArchive(t *testing.T) {
	archive, _ := setupArchive(t, 0)
	idx := index.New()
	var out bytes.Buffer

	r, err := NewRebuilder(archive, idx, vectorize.NewHashing(), nil, nil, &out)
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 0, idx.Count())
	assert.Contains(t, out.String(), "No documents found")
}

func TestRebuilder_RebuiltIndexIsSearchable(t *testing.T) {
	archive, _ := setupArchive(t, 5)
	idx := index.New()
	vectorizer := vectorize.NewHashing()

	r, err := NewRebuilder(archive, idx, vectorizer, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, r.Run(context.Background()))

	doc, err := archive.GetDocument(context.Background(), core.ID(3))
	require.NoError(t, err)

	results := idx.Search(vectorizer.Vectorize(vectorize.DocumentText(doc)), 1)
	require.Len(t, results, 1)
	assert.Equal(t, doc.Id, results[0].Document.Id)
}

func TestRebuilder_CheckpointResume(t *testing.T) {
	archive, backend := setupArchive(t, 20)
	checkpoints := badger.NewCheckpointRepository(backend)
	ctx := context.Background()

	// Simulate an interrupted run that got through the first batch
	require.NoError(t, checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		Name:      "rebuild",
		LastID:    core.ID(10),
		Processed: 10,
	}))

	idx := index.New()
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.BatchSize = 10

	r, err := NewRebuilder(archive, idx, vectorize.NewHashing(), checkpoints, cfg, &out)
	require.NoError(t, err)
	require.NoError(t, r.Run(ctx))

	// Only the remaining documents were indexed
	assert.Equal(t, 10, idx.Count())
	assert.Contains(t, out.String(), "Resuming rebuild at document 10")

	// Completion clears the checkpoint
	cp, err := checkpoints.LoadCheckpoint(ctx, "rebuild")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.EqualValues(t, 0, cp.Processed)
}

func TestRebuilder_RequiredCollaborators(t *testing.T) {
	archive, _ := setupArchive(t, 1)
	idx := index.New()

	_, err := NewRebuilder(nil, idx, vectorize.NewHashing(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrArchiveRequired)

	_, err = NewRebuilder(archive, nil, vectorize.NewHashing(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewRebuilder(archive, idx, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrVectorizerRequired)
}

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	tracker := NewProgressTracker(&out, 100, 10)

	tracker.Start()
	tracker.Update(50)
	tracker.Finish()

	assert.Contains(t, out.String(), "50/100")
	assert.Contains(t, out.String(), "100/100")
	assert.GreaterOrEqual(t, tracker.Elapsed(), time.Duration(0))
}
