// Package pipeline wires the daily tracking run: fetch the feed, filter
// it, diff against the prior snapshot, verify removals, roll the
// first-seen ledger forward, select aged listings, and persist and
// report the results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"listing-tracker/internal/aging"
	"listing-tracker/internal/diff"
	"listing-tracker/internal/domain"
	"listing-tracker/internal/feed"
	"listing-tracker/internal/ledger"
	"listing-tracker/internal/mailer"
	"listing-tracker/internal/reporting"
	"listing-tracker/internal/storage"
	"listing-tracker/internal/verify"
)

// Runner executes one tracking run end to end.
type Runner struct {
	fetcher     feed.Fetcher
	snapshots   storage.SnapshotStore
	ledgerStore storage.LedgerStore
	prices      storage.PriceHistoryStore // optional
	sender      mailer.Sender             // optional
	mail        MailSettings

	outputDir     string
	saleType      domain.SaleType
	status        domain.Status
	thresholdDays int
	verbose       bool
	clock         func() time.Time
}

// MailSettings configures report delivery when a Sender is attached.
type MailSettings struct {
	From string
	To   []string
}

// Options for creating a Runner.
type Options struct {
	// Required
	Fetcher     feed.Fetcher
	Snapshots   storage.SnapshotStore
	LedgerStore storage.LedgerStore
	OutputDir   string

	// Optional
	Prices storage.PriceHistoryStore
	Sender mailer.Sender
	Mail   MailSettings

	// ThresholdDays defaults to aging.DefaultThresholdDays when zero.
	ThresholdDays int
	Verbose       bool
}

// New creates a Runner tracking pre-owned active listings.
func New(opts Options) *Runner {
	threshold := opts.ThresholdDays
	if threshold == 0 {
		threshold = aging.DefaultThresholdDays
	}
	return &Runner{
		fetcher:       opts.Fetcher,
		snapshots:     opts.Snapshots,
		ledgerStore:   opts.LedgerStore,
		prices:        opts.Prices,
		sender:        opts.Sender,
		mail:          opts.Mail,
		outputDir:     opts.OutputDir,
		saleType:      domain.SaleTypePreOwned,
		status:        domain.StatusActive,
		thresholdDays: threshold,
		verbose:       opts.Verbose,
		clock:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic runs.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// RunResult contains counters from one run.
type RunResult struct {
	Report *reporting.Report

	NewEntries    int // first sightings added to the ledger
	SnapshotSaved bool
}

// Run executes the full daily run as of the clock's current day.
// A feed fetch failure aborts the run before any state is written.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	now := r.clock()
	today := domain.DateOf(now)

	// Phase 1: fetch and filter
	r.log("Phase 1: Fetching feed...")
	raw, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	tracked := feed.Filter(raw, r.saleType, r.status)
	r.log("  %d records received, %d tracked", len(raw), len(tracked))

	snap := &domain.Snapshot{Date: today, Listings: tracked}

	// Phase 2: diff against the prior snapshot
	r.log("Phase 2: Diffing against prior snapshot...")
	var prior *domain.Snapshot
	firstRun := false
	prior, err = r.snapshots.FindLatestBefore(ctx, today)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load prior snapshot: %w", err)
		}
		firstRun = true
		prior = nil
	}
	changes := diff.Diff(prior, snap)
	r.log("  %d new, %d removal candidates", len(changes.NewKeys), len(changes.RemovedCandidateKeys))

	// Phase 3: verify removal candidates against the unfiltered feed.
	// A listing that merely changed status or sale type is still present
	// in the raw payload and is not reported as removed.
	r.log("Phase 3: Verifying removals...")
	removedKeys := verify.TrulyRemoved(changes.RemovedCandidateKeys, verify.KeyIndex(raw))
	var removed []*domain.Listing
	if prior != nil {
		priorIndex := prior.Index()
		for _, k := range removedKeys {
			if l, ok := priorIndex[k]; ok {
				removed = append(removed, l)
			}
		}
	}
	r.log("  %d verified removals", len(removed))

	// Phase 4: roll the ledger forward
	r.log("Phase 4: Updating ledger...")
	persisted, err := r.ledgerStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	book := ledger.NewBook(persisted)
	added := book.UpsertNewSightings(snap, today)
	r.log("  %d first sightings added, ledger size %d", added, book.Len())

	// Phase 5: aged listing selection
	aged := aging.Select(book.Entries(), snap.Keys(), r.thresholdDays, today)
	r.log("Phase 5: %d aged listings at threshold %d days", len(aged), r.thresholdDays)

	// Phase 6: persist. A duplicate snapshot means today already ran;
	// the ledger update is idempotent so the rerun is tolerated.
	r.log("Phase 6: Persisting...")
	snapshotSaved := true
	if err := r.snapshots.Save(ctx, snap); err != nil {
		if !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		snapshotSaved = false
		r.log("  snapshot for %s already exists, skipping", today)
	}
	if err := r.ledgerStore.Replace(ctx, book.Entries()); err != nil {
		return nil, fmt.Errorf("replace ledger: %w", err)
	}
	if r.prices != nil && snapshotSaved {
		if err := r.recordPrices(ctx, tracked, today); err != nil {
			return nil, err
		}
	}

	report := &reporting.Report{
		RunDate:       today,
		GeneratedAt:   now,
		FirstRun:      firstRun,
		TotalReceived: len(raw),
		TotalTracked:  len(tracked),
		NewKeys:       changes.NewKeys,
		Removed:       removed,
		LedgerSize:    book.Len(),
		Aged:          aged,
	}

	// Phase 7: report outputs
	r.log("Phase 7: Writing reports...")
	if err := r.writeReports(report); err != nil {
		return nil, err
	}
	if r.sender != nil {
		if err := r.sendReport(ctx, report); err != nil {
			return nil, fmt.Errorf("send report: %w", err)
		}
	}

	return &RunResult{Report: report, NewEntries: added, SnapshotSaved: snapshotSaved}, nil
}

// recordPrices stores one price point per tracked listing with a parseable
// price. A duplicate day means the points were already recorded.
func (r *Runner) recordPrices(ctx context.Context, tracked []*domain.Listing, today domain.Date) error {
	var points []*domain.PricePoint
	for _, l := range tracked {
		v, ok := feed.PriceValue(l.Price)
		if !ok {
			continue
		}
		points = append(points, &domain.PricePoint{Key: l.Key, Day: today, Price: v})
	}
	if len(points) == 0 {
		return nil
	}
	if err := r.prices.InsertBulk(ctx, points); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			r.log("  price points for %s already recorded, skipping", today)
			return nil
		}
		return fmt.Errorf("record prices: %w", err)
	}
	r.log("  %d price points recorded", len(points))
	return nil
}

func (r *Runner) writeReports(report *reporting.Report) error {
	if r.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	day := report.RunDate.String()
	files := map[string]string{
		"report_" + day + ".md": reporting.RenderMarkdown(report),
	}
	if len(report.Removed) > 0 {
		files["removed_"+day+".csv"] = reporting.RenderRemovedCSV(report.Removed)
	}
	if len(report.Aged) > 0 {
		files["aged_"+day+".csv"] = reporting.RenderAgedCSV(report.Aged)
	}

	for name, content := range files {
		path := filepath.Join(r.outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}

func (r *Runner) sendReport(ctx context.Context, report *reporting.Report) error {
	day := report.RunDate.String()
	msg := &mailer.Message{
		From:    r.mail.From,
		To:      r.mail.To,
		Subject: fmt.Sprintf("Listing Report %s: %d new, %d removed, %d aged", day, len(report.NewKeys), len(report.Removed), len(report.Aged)),
		Body:    reporting.RenderMarkdown(report),
	}
	if len(report.Removed) > 0 {
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename: "removed_" + day + ".csv",
			MIMEType: "text/csv",
			Data:     []byte(reporting.RenderRemovedCSV(report.Removed)),
		})
	}
	if len(report.Aged) > 0 {
		msg.Attachments = append(msg.Attachments, mailer.Attachment{
			Filename: "aged_" + day + ".csv",
			MIMEType: "text/csv",
			Data:     []byte(reporting.RenderAgedCSV(report.Aged)),
		})
	}
	return r.sender.Send(ctx, msg)
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		log.Printf("[pipeline] "+format, args...)
	}
}
