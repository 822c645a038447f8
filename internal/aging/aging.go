// Package aging selects currently-active listings whose time on market
// meets a configured threshold.
package aging

import (
	"sort"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/ledger"
)

// DefaultThresholdDays is the default days-on-market threshold (five months).
const DefaultThresholdDays = 150

// AgedListing pairs a ledger entry with its computed age.
type AgedListing struct {
	Entry        *domain.LedgerEntry
	DaysOnMarket int
}

// Select filters entries to those whose key is in today's active set and
// whose days-on-market as of asOf is >= thresholdDays (inclusive).
// Entries with unknown age are excluded. The result is ordered by
// days-on-market descending, ties broken by key ascending for
// determinism.
func Select(entries []*domain.LedgerEntry, activeKeys map[string]struct{}, thresholdDays int, asOf domain.Date) []AgedListing {
	var aged []AgedListing
	for _, e := range entries {
		if _, active := activeKeys[e.Key]; !active {
			continue
		}
		days, ok := ledger.DaysOnMarket(e, asOf)
		if !ok || days < thresholdDays {
			continue
		}
		aged = append(aged, AgedListing{Entry: e, DaysOnMarket: days})
	}

	sort.Slice(aged, func(i, j int) bool {
		if aged[i].DaysOnMarket != aged[j].DaysOnMarket {
			return aged[i].DaysOnMarket > aged[j].DaysOnMarket
		}
		return aged[i].Entry.Key < aged[j].Entry.Key
	})

	return aged
}
