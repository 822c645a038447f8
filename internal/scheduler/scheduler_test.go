package scheduler

import (
	"context"
	"testing"

	"listing-tracker/internal/feed/stub"
	"listing-tracker/internal/pipeline"
	"listing-tracker/internal/storage/memory"
)

func testRunner(t *testing.T) *pipeline.Runner {
	t.Helper()
	return pipeline.New(pipeline.Options{
		Fetcher:     &stub.Fetcher{},
		Snapshots:   memory.NewSnapshotStore(),
		LedgerStore: memory.NewLedgerStore(),
		OutputDir:   t.TempDir(),
	})
}

func TestStartAndStop(t *testing.T) {
	s := New(testRunner(t), nil, "0 6 * * *", "0 3 * * 0")
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	// Stop again is a no-op.
	s.Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(testRunner(t), nil, "not a cron spec", "0 3 * * 0")
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}
