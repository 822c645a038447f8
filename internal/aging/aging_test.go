package aging

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

func entry(t *testing.T, key, firstSeen string) *domain.LedgerEntry {
	t.Helper()
	e := &domain.LedgerEntry{Key: key}
	if firstSeen != "" {
		e.FirstSeen = date(t, firstSeen)
	}
	return e
}

func activeSet(keys ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func TestSelectThresholdBoundary(t *testing.T) {
	asOf := date(t, "2024-05-30")
	entries := []*domain.LedgerEntry{
		entry(t, "exactly", "2024-01-01"), // 150 days: included
		entry(t, "under", "2024-01-02"),   // 149 days: excluded
	}

	aged := Select(entries, activeSet("exactly", "under"), 150, asOf)

	if len(aged) != 1 {
		t.Fatalf("expected 1 aged listing, got %d", len(aged))
	}
	if aged[0].Entry.Key != "exactly" || aged[0].DaysOnMarket != 150 {
		t.Errorf("got %s at %d days, want exactly at 150", aged[0].Entry.Key, aged[0].DaysOnMarket)
	}
}

func TestSelectExcludesInactive(t *testing.T) {
	asOf := date(t, "2024-12-01")
	entries := []*domain.LedgerEntry{
		entry(t, "gone", "2024-01-01"),
		entry(t, "here", "2024-01-01"),
	}

	aged := Select(entries, activeSet("here"), 150, asOf)

	if len(aged) != 1 || aged[0].Entry.Key != "here" {
		t.Errorf("only active keys belong in the aged report, got %+v", aged)
	}
}

func TestSelectExcludesUnknownAge(t *testing.T) {
	asOf := date(t, "2024-12-01")
	entries := []*domain.LedgerEntry{
		entry(t, "known", "2024-01-01"),
		entry(t, "unknown", ""),
	}

	aged := Select(entries, activeSet("known", "unknown"), 150, asOf)

	if len(aged) != 1 || aged[0].Entry.Key != "known" {
		t.Errorf("unknown-age entries must be excluded, got %+v", aged)
	}
}

func TestSelectOrdering(t *testing.T) {
	asOf := date(t, "2024-12-01")
	entries := []*domain.LedgerEntry{
		entry(t, "b", "2024-03-01"),
		entry(t, "a", "2024-03-01"), // same age as b: key ascending breaks the tie
		entry(t, "oldest", "2024-01-01"),
	}

	aged := Select(entries, activeSet("a", "b", "oldest"), 150, asOf)

	if len(aged) != 3 {
		t.Fatalf("expected 3 aged listings, got %d", len(aged))
	}
	if aged[0].Entry.Key != "oldest" {
		t.Errorf("descending by age: first = %s, want oldest", aged[0].Entry.Key)
	}
	if aged[1].Entry.Key != "a" || aged[2].Entry.Key != "b" {
		t.Errorf("ties broken by key ascending, got %s then %s", aged[1].Entry.Key, aged[2].Entry.Key)
	}
}

func TestSelectEmpty(t *testing.T) {
	if aged := Select(nil, activeSet(), 150, date(t, "2024-12-01")); len(aged) != 0 {
		t.Errorf("empty ledger must yield empty report, got %+v", aged)
	}
}
