package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"listing-tracker/internal/aging"
	"listing-tracker/internal/domain"
)

// RenderRemovedCSV renders verified removals as a CSV string, one row per
// listing with its last known details. Addresses can contain commas, so
// rows go through a real CSV writer rather than string joins.
func RenderRemovedCSV(removed []*domain.Listing) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	w.Write([]string{
		"key", "address", "community", "county", "model", "price",
		"bedrooms", "baths", "square_feet", "status", "sale_type", "feed_number",
	})
	for _, l := range removed {
		w.Write([]string{
			l.Key,
			l.Address,
			l.Community,
			l.County,
			l.Model,
			l.Price,
			intCell(l.Bedrooms),
			floatCell(l.Baths),
			intCell(l.SquareFeet),
			string(l.Status),
			string(l.SaleType),
			l.FeedNumber,
		})
	}

	w.Flush()
	return sb.String()
}

// RenderAgedCSV renders the aged listing selection as a CSV string, ordered
// as given (oldest first).
func RenderAgedCSV(aged []aging.AgedListing) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	w.Write([]string{"key", "first_seen", "days_on_market", "address", "community", "price", "feed_number"})
	for _, a := range aged {
		w.Write([]string{
			a.Entry.Key,
			a.Entry.FirstSeen.String(),
			strconv.Itoa(a.DaysOnMarket),
			a.Entry.Address,
			a.Entry.Community,
			a.Entry.Price,
			a.Entry.FeedNumber,
		})
	}

	w.Flush()
	return sb.String()
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
