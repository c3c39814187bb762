package badger

import (
	"context"
	"testing"

	"github.com/knowhaven/knowhaven/core"
)

func TestCheckpointRoundTrip(t *testing.T) {
	_, backend := newTestRepo(t)
	repo := NewCheckpointRepository(backend)
	ctx := context.Background()

	cp := &core.Checkpoint{
		Name:      "rebuild",
		LastID:    core.ID(100),
		Processed: 250,
	}
	if err := repo.SaveCheckpoint(ctx, cp); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}
	if cp.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set on save")
	}

	loaded, err := repo.LoadCheckpoint(ctx, "rebuild")
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected checkpoint, got nil")
	}
	if loaded.LastID != cp.LastID || loaded.Processed != cp.Processed {
		t.Errorf("Loaded checkpoint differs: %+v", loaded)
	}
}

func TestCheckpointMissing(t *testing.T) {
	_, backend := newTestRepo(t)
	repo := NewCheckpointRepository(backend)

	loaded, err := repo.LoadCheckpoint(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil checkpoint, got %+v", loaded)
	}
}

func TestCheckpointOverwrite(t *testing.T) {
	_, backend := newTestRepo(t)
	repo := NewCheckpointRepository(backend)
	ctx := context.Background()

	first := &core.Checkpoint{Name: "rebuild", LastID: core.ID(10), Processed: 10}
	if err := repo.SaveCheckpoint(ctx, first); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	second := &core.Checkpoint{Name: "rebuild", LastID: core.ID(20), Processed: 20}
	if err := repo.SaveCheckpoint(ctx, second); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	loaded, err := repo.LoadCheckpoint(ctx, "rebuild")
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if loaded.LastID != core.ID(20) {
		t.Errorf("LastID = %d, want 20", loaded.LastID)
	}
}
