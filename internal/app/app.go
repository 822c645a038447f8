// Package app wires configured storage backends and collaborators into a
// ready pipeline runner. Shared by the one-shot and the scheduled binaries.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"listing-tracker/internal/config"
	"listing-tracker/internal/feed"
	"listing-tracker/internal/mailer"
	"listing-tracker/internal/pipeline"
	"listing-tracker/internal/storage"
	"listing-tracker/internal/storage/clickhouse"
	"listing-tracker/internal/storage/file"
	"listing-tracker/internal/storage/migrations"
	"listing-tracker/internal/storage/postgres"
)

// BuildRunner constructs a pipeline.Runner from config. The returned
// cleanup closes any database connections and must be called when the
// runner is no longer needed.
func BuildRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, func(), error) {
	var (
		snapshots storage.SnapshotStore
		ledgers   storage.LedgerStore
		cleanups  []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	switch cfg.StorageBackend {
	case "file":
		snapStore, err := file.NewSnapshotStore(filepath.Join(cfg.DataDir, "snapshots"))
		if err != nil {
			return nil, nil, err
		}
		ledgerStore, err := file.NewLedgerStore(filepath.Join(cfg.DataDir, "ledger.csv"))
		if err != nil {
			return nil, nil, err
		}
		snapshots, ledgers = snapStore, ledgerStore
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, err
		}
		snapshots, ledgers = postgres.NewSnapshotStore(pool), postgres.NewLedgerStore(pool)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	var prices storage.PriceHistoryStore
	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { conn.Close() })
		prices = clickhouse.NewPriceHistoryStore(conn)
	}

	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		})
	}

	runner := pipeline.New(pipeline.Options{
		Fetcher:       feed.NewClient(cfg.FeedURL, time.Duration(cfg.FeedTimeoutSeconds)*time.Second),
		Snapshots:     snapshots,
		LedgerStore:   ledgers,
		Prices:        prices,
		Sender:        sender,
		Mail:          pipeline.MailSettings{From: cfg.MailFrom, To: cfg.MailTo},
		OutputDir:     cfg.OutputDir,
		ThresholdDays: cfg.ThresholdDays,
		Verbose:       cfg.Verbose,
	})

	return runner, cleanup, nil
}
