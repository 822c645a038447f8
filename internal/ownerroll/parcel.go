package ownerroll

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Parcel is one property record from a county NAL roll, reduced to the
// owner and situs address fields used for lookups.
type Parcel struct {
	CountyNo  string
	ParcelID  string
	OwnerName string
	OwnAddr1  string
	OwnAddr2  string
	OwnAddr3  string
	PhysAddr1 string
	PhysAddr2 string
	PhysCity  string
	PhysZip   string

	County       string // county name, added during import
	FullPhysAddr string // normalized situs address for matching
}

// NAL column names per the Florida DOR NAL user guide.
var keepColumns = []string{
	"CO_NO", "PARCEL_ID",
	"OWN_NAME",
	"OWN_ADDR1", "OWN_ADDR2", "OWN_ADDR3",
	"PHY_ADDR1", "PHY_ADDR2", "PHY_CITY", "PHY_ZIPCD",
}

// ParseNAL reads a county NAL CSV. DOR files sometimes use latin-1, so
// the stream is decoded from ISO 8859-1 before parsing. Rows that fail
// to parse are skipped; columns missing from the file stay blank.
func ParseNAL(r io.Reader, countyName string) ([]*Parcel, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read NAL header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var parcels []*Parcel
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// bad line, skip
			continue
		}
		p := &Parcel{
			CountyNo:  cell(row, "CO_NO"),
			ParcelID:  cell(row, "PARCEL_ID"),
			OwnerName: cell(row, "OWN_NAME"),
			OwnAddr1:  cell(row, "OWN_ADDR1"),
			OwnAddr2:  cell(row, "OWN_ADDR2"),
			OwnAddr3:  cell(row, "OWN_ADDR3"),
			PhysAddr1: cell(row, "PHY_ADDR1"),
			PhysAddr2: cell(row, "PHY_ADDR2"),
			PhysCity:  strings.ToUpper(cell(row, "PHY_CITY")),
			PhysZip:   cell(row, "PHY_ZIPCD"),
			County:    countyName,
		}
		p.FullPhysAddr = NormalizeAddress(p.PhysAddr1, p.PhysAddr2)
		parcels = append(parcels, p)
	}

	return parcels, nil
}

// NormalizeAddress joins address lines into the uppercase form used for
// matching listing addresses against the roll.
func NormalizeAddress(lines ...string) string {
	var parts []string
	for _, l := range lines {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.ToUpper(strings.Join(parts, " "))
}
