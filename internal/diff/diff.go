// Package diff computes the day-over-day change set between two listing
// snapshots.
package diff

import (
	"sort"

	"listing-tracker/internal/domain"
)

// Result holds the outcome of comparing yesterday's snapshot with today's.
type Result struct {
	// NewKeys are keys present today and absent from the prior snapshot,
	// ordered ascending.
	NewKeys []string

	// RemovedCandidateKeys are keys that were active in the prior snapshot
	// and are absent from today's filtered snapshot, ordered ascending.
	// They are candidates only: a status change also removes a listing
	// from the filtered view, so disappearance must be verified against
	// the raw feed before it counts as a removal.
	RemovedCandidateKeys []string
}

// Diff compares the prior snapshot against today's. A nil previous
// snapshot is the first-run condition: every key is new and there are no
// removal candidates. Only prior entries whose status equals StatusActive
// are considered removable; an entry already in another status was
// reported when it left, and is not re-reported.
func Diff(previous, today *domain.Snapshot) Result {
	var res Result

	todayKeys := today.Keys()

	if previous == nil {
		for key := range todayKeys {
			res.NewKeys = append(res.NewKeys, key)
		}
		sort.Strings(res.NewKeys)
		return res
	}

	prevKeys := previous.Keys()
	for key := range todayKeys {
		if _, ok := prevKeys[key]; !ok {
			res.NewKeys = append(res.NewKeys, key)
		}
	}

	for _, l := range previous.Listings {
		if l.Status != domain.StatusActive {
			continue
		}
		if _, ok := todayKeys[l.Key]; !ok {
			res.RemovedCandidateKeys = append(res.RemovedCandidateKeys, l.Key)
		}
	}

	sort.Strings(res.NewKeys)
	sort.Strings(res.RemovedCandidateKeys)
	return res
}
