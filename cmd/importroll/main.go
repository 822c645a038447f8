// Package main downloads the county NAL property rolls and rebuilds the
// owner lookup CSV. Intended to run weekly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"listing-tracker/internal/config"
	"listing-tracker/internal/ownerroll"
)

func main() {
	output := flag.String("output", "", "Lookup CSV path (overrides OWNER_LOOKUP_PATH)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling import...\n", sig)
		cancel()
	}()

	cfg := config.Load()
	if *output != "" {
		cfg.OwnerLookupPath = *output
	}
	if *verbose {
		cfg.Verbose = true
	}

	importer := ownerroll.NewImporter(ownerroll.Options{
		OutputPath: cfg.OwnerLookupPath,
		Verbose:    cfg.Verbose,
	})

	result, err := importer.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import completed for NAL year %d:\n", result.Year)
	fmt.Printf("  Counties loaded: %d\n", result.CountiesLoaded)
	if len(result.CountiesSkipped) > 0 {
		fmt.Printf("  Counties skipped: %s\n", strings.Join(result.CountiesSkipped, ", "))
	}
	fmt.Printf("  Parcels: %d\n", result.Parcels)
}
