// Package main runs one daily listing tracking pass: fetch, diff,
// verify removals, roll the ledger, and write reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"listing-tracker/internal/app"
	"listing-tracker/internal/config"
)

func main() {
	feedURL := flag.String("feed-url", "", "Listing feed URL (overrides FEED_URL)")
	outputDir := flag.String("output-dir", "", "Output directory for reports (overrides OUTPUT_DIR)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling run...\n", sig)
		cancel()
	}()

	cfg := config.Load()
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.FeedURL == "" {
		fmt.Fprintln(os.Stderr, "feed URL not configured (set FEED_URL or -feed-url)")
		os.Exit(1)
	}

	runner, cleanup, err := app.BuildRunner(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Setup error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	result, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run error: %v\n", err)
		os.Exit(1)
	}

	rep := result.Report
	fmt.Printf("Run completed for %s:\n", rep.RunDate)
	fmt.Printf("  Received: %d\n", rep.TotalReceived)
	fmt.Printf("  Tracked: %d\n", rep.TotalTracked)
	fmt.Printf("  New: %d\n", len(rep.NewKeys))
	fmt.Printf("  Removed: %d\n", len(rep.Removed))
	fmt.Printf("  Aged: %d\n", len(rep.Aged))
	fmt.Printf("  Ledger size: %d\n", rep.LedgerSize)
	if !result.SnapshotSaved {
		fmt.Println("  Snapshot for today already existed, rerun detected")
	}
}
