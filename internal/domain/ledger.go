package domain

// LedgerEntry records the first day a listing key was ever observed, plus
// a small denormalized copy of descriptive fields for reporting.
// FirstSeen is set once and never updated; a zero FirstSeen means the
// persisted value was missing or unparseable, and the entry carries
// unknown age. Entries are never deleted, so a listing that disappears
// and later returns keeps its original FirstSeen.
type LedgerEntry struct {
	Key        string
	FirstSeen  Date // zero = unknown age
	Address    string
	Community  string
	Price      string
	FeedNumber string
}

// PricePoint is one observed price for a listing on one day.
type PricePoint struct {
	Key   string
	Day   Date
	Price float64
}
