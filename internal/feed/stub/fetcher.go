// Package stub provides a canned feed fetcher for tests.
package stub

import (
	"context"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/feed"
)

// Fetcher returns a fixed listing collection, or a fixed error.
type Fetcher struct {
	Listings []*domain.Listing
	Err      error

	// Calls counts FetchAll invocations.
	Calls int
}

// FetchAll returns the canned listings.
func (f *Fetcher) FetchAll(_ context.Context) ([]*domain.Listing, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Listings, nil
}

// Verify interface compliance at compile time.
var _ feed.Fetcher = (*Fetcher)(nil)
