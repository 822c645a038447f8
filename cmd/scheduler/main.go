// Package main runs the tracker as a daemon: the daily tracking pass and
// the weekly owner roll import on cron schedules.
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
	"listing-tracker/internal/ownerroll"
	"listing-tracker/internal/scheduler"
)

func main() {
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.FeedURL == "" {
		fmt.Fprintln(os.Stderr, "feed URL not configured (set FEED_URL)")
		os.Exit(1)
	}

	runner, cleanup, err := app.BuildRunner(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Setup error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	importer := ownerroll.NewImporter(ownerroll.Options{
		OutputPath: cfg.OwnerLookupPath,
		Verbose:    cfg.Verbose,
	})

	sched := scheduler.New(runner, importer, cfg.RunSchedule, cfg.RollSchedule)
	if err := sched.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Scheduler error: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
	sched.Stop()
	cancel()
}
