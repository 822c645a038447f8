package memory

import (
	"context"
	"sort"
	"sync"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.PricePoint // keyed by listing key
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[string][]*domain.PricePoint),
	}
}

// InsertBulk appends price points. Fails the entire batch with
// ErrDuplicateKey when any (key, day) pair already exists, in the batch
// or in the store.
func (s *PriceHistoryStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	type pk struct {
		key string
		day string
	}
	seen := make(map[pk]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Key == "" || !p.Day.Valid() {
			return storage.ErrInvalidInput
		}
		k := pk{p.Key, p.Day.String()}
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		for _, existing := range s.data[p.Key] {
			if existing.Day == p.Day {
				return storage.ErrDuplicateKey
			}
		}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[p.Key] = append(s.data[p.Key], &pointCopy)
	}
	return nil
}

// GetByKey retrieves all points for a listing, ordered by day ASC.
func (s *PriceHistoryStore) GetByKey(_ context.Context, key string) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, p := range s.data[key] {
		pointCopy := *p
		result = append(result, &pointCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Day.Before(result[j].Day)
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)
