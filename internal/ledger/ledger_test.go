package ledger

import (
	"testing"

	"listing-tracker/internal/domain"
)

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func snapshot(t *testing.T, day string, keys ...string) *domain.Snapshot {
	t.Helper()
	s := &domain.Snapshot{Date: date(t, day)}
	for _, k := range keys {
		s.Listings = append(s.Listings, &domain.Listing{
			Key:     k,
			Address: k + " Main St",
			Price:   "350000",
		})
	}
	return s
}

func TestUpsertNewSightings(t *testing.T) {
	b := NewBook(nil)
	today := date(t, "2024-06-01")

	added := b.UpsertNewSightings(snapshot(t, "2024-06-01", "100", "200"), today)
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
	if got := b.Get("100").FirstSeen; got != today {
		t.Errorf("FirstSeen = %s, want %s", got, today)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	b := NewBook(nil)
	today := date(t, "2024-06-01")
	snap := snapshot(t, "2024-06-01", "100", "200")

	b.UpsertNewSightings(snap, today)
	added := b.UpsertNewSightings(snap, today)

	if added != 0 {
		t.Errorf("second upsert added %d, want 0", added)
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d after double upsert, want 2", b.Len())
	}
}

func TestFirstSeenNeverChanges(t *testing.T) {
	b := NewBook(nil)
	day1 := date(t, "2024-06-01")
	day2 := date(t, "2024-06-10")

	b.UpsertNewSightings(snapshot(t, "2024-06-01", "100"), day1)
	// The listing disappears, then reappears nine days later.
	b.UpsertNewSightings(snapshot(t, "2024-06-10", "100", "200"), day2)

	if got := b.Get("100").FirstSeen; got != day1 {
		t.Errorf("FirstSeen drifted to %s, want %s", got, day1)
	}
	if got := b.Get("200").FirstSeen; got != day2 {
		t.Errorf("new key FirstSeen = %s, want %s", got, day2)
	}
}

func TestUpsertRefreshesDescriptiveFields(t *testing.T) {
	b := NewBook([]*domain.LedgerEntry{
		{Key: "100", FirstSeen: date(t, "2024-01-01"), Price: "400000"},
	})

	snap := snapshot(t, "2024-06-01", "100")
	b.UpsertNewSightings(snap, date(t, "2024-06-01"))

	e := b.Get("100")
	if e.Price != "350000" {
		t.Errorf("Price not refreshed: %s", e.Price)
	}
	if e.FirstSeen != date(t, "2024-01-01") {
		t.Errorf("FirstSeen must survive a refresh, got %s", e.FirstSeen)
	}
}

func TestNewBookIgnoresDuplicateRows(t *testing.T) {
	b := NewBook([]*domain.LedgerEntry{
		{Key: "100", FirstSeen: date(t, "2024-01-01")},
		{Key: "100", FirstSeen: date(t, "2024-03-01")},
	})
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
	if got := b.Get("100").FirstSeen; got != date(t, "2024-01-01") {
		t.Errorf("duplicate row shifted FirstSeen to %s", got)
	}
}

func TestDaysOnMarket(t *testing.T) {
	e := &domain.LedgerEntry{Key: "K1", FirstSeen: date(t, "2024-01-01")}
	asOf := date(t, "2024-05-30")

	days, ok := DaysOnMarket(e, asOf)
	if !ok {
		t.Fatal("expected known age")
	}
	if days != 150 {
		t.Errorf("days = %d, want 150", days)
	}
}

func TestDaysOnMarketUnknownFirstSeen(t *testing.T) {
	e := &domain.LedgerEntry{Key: "K1"}
	if _, ok := DaysOnMarket(e, date(t, "2024-05-30")); ok {
		t.Error("zero FirstSeen must report unknown age")
	}
	if _, ok := DaysOnMarket(nil, date(t, "2024-05-30")); ok {
		t.Error("nil entry must report unknown age")
	}
}

func TestEntriesOrderedByKey(t *testing.T) {
	b := NewBook(nil)
	b.UpsertNewSightings(snapshot(t, "2024-06-01", "300", "100", "200"), date(t, "2024-06-01"))

	entries := b.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Key >= entries[i].Key {
			t.Fatalf("entries not ordered: %s before %s", entries[i-1].Key, entries[i].Key)
		}
	}
}
