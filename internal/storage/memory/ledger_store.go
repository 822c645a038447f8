package memory

import (
	"context"
	"sort"
	"sync"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// LedgerStore is an in-memory implementation of storage.LedgerStore.
type LedgerStore struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
}

// NewLedgerStore creates a new in-memory ledger store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Load reads all ledger entries, ordered by key ASC. An empty ledger
// yields an empty result, not an error.
func (s *LedgerStore) Load(_ context.Context) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.LedgerEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entryCopy := *e
		out = append(out, &entryCopy)
	}
	return out, nil
}

// Replace atomically replaces the entire ledger.
func (s *LedgerStore) Replace(_ context.Context, entries []*domain.LedgerEntry) error {
	replacement := make([]*domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.Key == "" {
			return storage.ErrInvalidInput
		}
		entryCopy := *e
		replacement = append(replacement, &entryCopy)
	}
	sort.Slice(replacement, func(i, j int) bool {
		return replacement[i].Key < replacement[j].Key
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = replacement
	return nil
}

// Verify interface compliance at compile time.
var _ storage.LedgerStore = (*LedgerStore)(nil)
