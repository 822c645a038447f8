package storage

import (
	"context"

	"listing-tracker/internal/domain"
)

// SnapshotStore persists one filtered listing snapshot per calendar day.
// Snapshots are append-only: a day's snapshot is written once and never
// modified afterward.
type SnapshotStore interface {
	// Save persists a snapshot keyed by its date. Returns ErrInvalidInput
	// if the date is not a valid calendar date, ErrDuplicateKey if a
	// snapshot already exists for that day. Duplicate listing keys within
	// the input are deduplicated deterministically (first occurrence wins).
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Get retrieves the snapshot for an exact day. Returns ErrNotFound
	// if none exists.
	Get(ctx context.Context, date domain.Date) (*domain.Snapshot, error)

	// FindLatestBefore retrieves the snapshot with the greatest date
	// strictly less than the given day. Returns ErrNotFound when no prior
	// snapshot exists (the first-run condition).
	FindLatestBefore(ctx context.Context, date domain.Date) (*domain.Snapshot, error)

	// Dates returns all persisted snapshot dates in ascending order.
	Dates(ctx context.Context) ([]domain.Date, error)
}

// LedgerStore persists the cross-run first-seen ledger. The ledger is read
// once at the start of a run and atomically replaced at the end; a partial
// write must never be observable.
type LedgerStore interface {
	// Load reads all ledger entries. An absent ledger is not an error and
	// yields an empty result.
	Load(ctx context.Context) ([]*domain.LedgerEntry, error)

	// Replace atomically replaces the entire persisted ledger.
	Replace(ctx context.Context, entries []*domain.LedgerEntry) error
}

// PriceHistoryStore records the observed price per listing per day, for
// trend analysis across snapshots.
type PriceHistoryStore interface {
	// InsertBulk appends price points. Returns ErrDuplicateKey when a
	// (key, day) pair in the batch was already recorded.
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// GetByKey retrieves all points for a listing, ordered by day ASC.
	GetByKey(ctx context.Context, key string) ([]*domain.PricePoint, error)
}
