// Package ownerroll builds the property owner lookup table from the
// Florida Department of Revenue NAL (Name-Address-Legal) tax roll files.
// One zip per county, each containing a single large CSV.
package ownerroll

import (
	"fmt"
	"time"
)

// County identifies one Florida county by its DOR-assigned number.
type County struct {
	Name string
	Code string
}

// Counties covered by the tracked communities.
var Counties = []County{
	{Name: "Lake", Code: "35"},
	{Name: "Marion", Code: "42"},
	{Name: "Sumter", Code: "61"},
}

const baseURL = "https://floridarevenue.com/property/dataportal/Documents/" +
	"PTO%20Data%20Portal/Tax%20Roll%20Data%20Files/NAL/"

// RollYear returns the NAL roll year to fetch as of now. Final rolls are
// posted October through December, so before November the previous year's
// roll is the newest one reliably available.
func RollYear(now time.Time) int {
	if now.Month() < time.November {
		return now.Year() - 1
	}
	return now.Year()
}

// FileURL builds the download URL for a county's final NAL zip.
// Files are named "{County} {##} Final NAL {YEAR}.zip".
func FileURL(c County, year int) string {
	return fmt.Sprintf("%s%dF/%s%%20%s%%20Final%%20NAL%%20%d.zip",
		baseURL, year, c.Name, c.Code, year)
}
