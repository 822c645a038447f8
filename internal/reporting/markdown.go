package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the run report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Listing Report %s\n\n", r.RunDate))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("## Feed Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Records Received | %d |\n", r.TotalReceived))
	sb.WriteString(fmt.Sprintf("| Pre-Owned Active | %d |\n", r.TotalTracked))
	sb.WriteString(fmt.Sprintf("| Ledger Size | %d |\n", r.LedgerSize))
	sb.WriteString("\n")

	if r.FirstRun {
		sb.WriteString("First run: no prior snapshot, every listing recorded as a first sighting.\n\n")
	}

	sb.WriteString("## Changes\n\n")
	if len(r.NewKeys) == 0 && len(r.Removed) == 0 {
		sb.WriteString("No new or removed listings.\n\n")
	}
	if len(r.NewKeys) > 0 {
		sb.WriteString(fmt.Sprintf("### New Listings (%d)\n\n", len(r.NewKeys)))
		for _, k := range r.NewKeys {
			sb.WriteString(fmt.Sprintf("- %s\n", k))
		}
		sb.WriteString("\n")
	}
	if len(r.Removed) > 0 {
		sb.WriteString(fmt.Sprintf("### Removed Listings (%d)\n\n", len(r.Removed)))
		sb.WriteString("| Key | Address | Community | Price |\n")
		sb.WriteString("|-----|---------|-----------|-------|\n")
		for _, l := range r.Removed {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", l.Key, l.Address, l.Community, l.Price))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("## Aged Listings (%d)\n\n", len(r.Aged)))
	if len(r.Aged) == 0 {
		sb.WriteString("No listings at or past the age threshold.\n")
	} else {
		sb.WriteString("| Key | First Seen | Days on Market | Address | Price |\n")
		sb.WriteString("|-----|------------|----------------|---------|-------|\n")
		for _, a := range r.Aged {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n",
				a.Entry.Key, a.Entry.FirstSeen, a.DaysOnMarket, a.Entry.Address, a.Entry.Price))
		}
	}

	return sb.String()
}
