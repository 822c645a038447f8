package file

import (
	"strconv"

	"listing-tracker/internal/domain"
)

// Column layouts. The snapshot layout mirrors the feed fields; the ledger
// layout is the small denormalized set kept per first sighting.
var (
	snapshotHeader = []string{
		"key", "address", "community", "county", "model", "price",
		"bedrooms", "baths", "square_feet", "garage", "pool",
		"latitude", "longitude", "status", "sale_type", "media_id", "feed_number",
	}
	ledgerHeader = []string{"key", "first_seen", "address", "community", "price", "feed_number"}
)

func listingToRow(l *domain.Listing) []string {
	return []string{
		l.Key,
		l.Address,
		l.Community,
		l.County,
		l.Model,
		l.Price,
		intField(l.Bedrooms),
		floatField(l.Baths),
		intField(l.SquareFeet),
		l.Garage,
		l.Pool,
		floatField(l.Latitude),
		floatField(l.Longitude),
		string(l.Status),
		string(l.SaleType),
		l.MediaID,
		l.FeedNumber,
	}
}

// rowToListing parses one snapshot row. Malformed numeric cells become
// absent values; the row itself is never rejected.
func rowToListing(row []string) *domain.Listing {
	if len(row) < len(snapshotHeader) {
		padded := make([]string, len(snapshotHeader))
		copy(padded, row)
		row = padded
	}
	return &domain.Listing{
		Key:        row[0],
		Address:    row[1],
		Community:  row[2],
		County:     row[3],
		Model:      row[4],
		Price:      row[5],
		Bedrooms:   parseIntField(row[6]),
		Baths:      parseFloatField(row[7]),
		SquareFeet: parseIntField(row[8]),
		Garage:     row[9],
		Pool:       row[10],
		Latitude:   parseFloatField(row[11]),
		Longitude:  parseFloatField(row[12]),
		Status:     domain.Status(row[13]),
		SaleType:   domain.SaleType(row[14]),
		MediaID:    row[15],
		FeedNumber: row[16],
	}
}

func entryToRow(e *domain.LedgerEntry) []string {
	return []string{e.Key, e.FirstSeen.String(), e.Address, e.Community, e.Price, e.FeedNumber}
}

// rowToEntry parses one ledger row. An unparseable first_seen leaves the
// entry in the ledger with unknown age rather than dropping it.
func rowToEntry(row []string) *domain.LedgerEntry {
	if len(row) < len(ledgerHeader) {
		padded := make([]string, len(ledgerHeader))
		copy(padded, row)
		row = padded
	}
	e := &domain.LedgerEntry{
		Key:        row[0],
		Address:    row[2],
		Community:  row[3],
		Price:      row[4],
		FeedNumber: row[5],
	}
	if d, err := domain.ParseDate(row[1]); err == nil {
		e.FirstSeen = d
	}
	return e
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseIntField(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatField(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
