// Package ledger maintains the cross-run table of first-seen dates per
// listing key. The ledger only grows: FirstSeen is written on the first
// sighting and never touched again, so a listing that disappears and
// later reappears keeps its original age.
package ledger

import (
	"sort"

	"listing-tracker/internal/domain"
)

// Book is the in-run working copy of the ledger, keyed by listing key.
// It is loaded from a storage.LedgerStore at the start of a run and
// written back atomically at the end.
type Book struct {
	entries map[string]*domain.LedgerEntry
}

// NewBook builds a Book from persisted entries. Later duplicates of a key
// are ignored so a corrupted double row cannot shift FirstSeen.
func NewBook(entries []*domain.LedgerEntry) *Book {
	b := &Book{entries: make(map[string]*domain.LedgerEntry, len(entries))}
	for _, e := range entries {
		if e == nil || e.Key == "" {
			continue
		}
		if _, exists := b.entries[e.Key]; exists {
			continue
		}
		entryCopy := *e
		b.entries[e.Key] = &entryCopy
	}
	return b
}

// UpsertNewSightings inserts an entry with FirstSeen = today for every
// snapshot listing not already in the book, and refreshes the
// denormalized descriptive fields of entries that are. FirstSeen of
// existing entries is never modified. Returns the number of entries
// added; re-running with the same snapshot and date adds zero.
func (b *Book) UpsertNewSightings(snap *domain.Snapshot, today domain.Date) int {
	added := 0
	for _, l := range snap.Listings {
		if existing, ok := b.entries[l.Key]; ok {
			existing.Address = l.Address
			existing.Community = l.Community
			existing.Price = l.Price
			existing.FeedNumber = l.FeedNumber
			continue
		}
		b.entries[l.Key] = &domain.LedgerEntry{
			Key:        l.Key,
			FirstSeen:  today,
			Address:    l.Address,
			Community:  l.Community,
			Price:      l.Price,
			FeedNumber: l.FeedNumber,
		}
		added++
	}
	return added
}

// Get returns the entry for a key, or nil if the key was never observed.
func (b *Book) Get(key string) *domain.LedgerEntry {
	return b.entries[key]
}

// Len returns the number of tracked keys.
func (b *Book) Len() int {
	return len(b.entries)
}

// Entries returns all entries ordered by key ASC, ready for persistence.
func (b *Book) Entries() []*domain.LedgerEntry {
	out := make([]*domain.LedgerEntry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DaysOnMarket returns the whole days between an entry's first sighting
// and asOf. ok is false when FirstSeen is unknown; such entries carry
// unknown age and are excluded from aging selection rather than defaulted
// to zero.
func DaysOnMarket(e *domain.LedgerEntry, asOf domain.Date) (days int, ok bool) {
	if e == nil || !e.FirstSeen.Valid() {
		return 0, false
	}
	return asOf.DaysSince(e.FirstSeen), true
}
