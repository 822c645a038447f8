package reporting

import (
	"time"

	"listing-tracker/internal/aging"
	"listing-tracker/internal/domain"
)

// Report represents the outcome of one daily tracking run.
type Report struct {
	// Metadata
	RunDate     domain.Date
	GeneratedAt time.Time
	FirstRun    bool

	// Feed summary
	TotalReceived int // raw records in the feed
	TotalTracked  int // records left after the sale type and status filter

	// Day-over-day changes
	NewKeys []string
	Removed []*domain.Listing // verified removals, with their last known details

	// Ledger and aging
	LedgerSize int
	Aged       []aging.AgedListing
}
