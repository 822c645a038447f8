// Package verify disambiguates removal candidates against the raw,
// unfiltered feed. A listing that merely changed status (went under
// contract, pending) drops out of the filtered snapshot but is still
// present upstream; only a key absent from the raw feed entirely is
// truly removed.
package verify

import (
	"sort"

	"listing-tracker/internal/domain"
)

// KeyIndex builds the set of keys present in a raw listing collection.
func KeyIndex(listings []*domain.Listing) map[string]struct{} {
	idx := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		idx[l.Key] = struct{}{}
	}
	return idx
}

// TrulyRemoved returns the candidates absent from the raw feed, ordered
// ascending. The result is always a subset of candidates; an empty input
// yields an empty result.
func TrulyRemoved(candidates []string, rawKeys map[string]struct{}) []string {
	var removed []string
	for _, key := range candidates {
		if _, present := rawKeys[key]; !present {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	return removed
}
