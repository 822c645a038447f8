package memory

import (
	"context"
	"sort"
	"sync"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Snapshot // keyed by ISO date string
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.Snapshot),
	}
}

// Save persists a snapshot. Returns ErrInvalidInput for an invalid date,
// ErrDuplicateKey when the day already has a snapshot. Duplicate listing
// keys keep the first occurrence.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil || !snap.Date.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := snap.Date.String()
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[key] = copySnapshot(snap)
	return nil
}

// Get retrieves the snapshot for an exact day. Returns ErrNotFound if none exists.
func (s *SnapshotStore) Get(_ context.Context, date domain.Date) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[date.String()]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(snap), nil
}

// FindLatestBefore retrieves the snapshot with the greatest date strictly
// before the given day. Returns ErrNotFound when no prior snapshot exists.
func (s *SnapshotStore) FindLatestBefore(_ context.Context, date domain.Date) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := date.String()
	best := ""
	for key := range s.data {
		if key < cutoff && key > best {
			best = key
		}
	}
	if best == "" {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(s.data[best]), nil
}

// Dates returns all persisted snapshot dates in ascending order.
func (s *SnapshotStore) Dates(_ context.Context) ([]domain.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	dates := make([]domain.Date, 0, len(keys))
	for _, key := range keys {
		dates = append(dates, s.data[key].Date)
	}
	return dates, nil
}

// copySnapshot deep-copies a snapshot, dropping listings whose key repeats
// an earlier one (first occurrence wins).
func copySnapshot(snap *domain.Snapshot) *domain.Snapshot {
	out := &domain.Snapshot{Date: snap.Date}
	seen := make(map[string]struct{}, len(snap.Listings))
	for _, l := range snap.Listings {
		if _, dup := seen[l.Key]; dup {
			continue
		}
		seen[l.Key] = struct{}{}
		listingCopy := *l
		out.Listings = append(out.Listings, &listingCopy)
	}
	return out
}

// Verify interface compliance at compile time.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)
