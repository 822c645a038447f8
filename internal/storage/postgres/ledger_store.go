package postgres

import (
	"context"
	"fmt"
	"time"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// LedgerStore implements storage.LedgerStore using PostgreSQL.
type LedgerStore struct {
	pool *Pool
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(pool *Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerStore = (*LedgerStore)(nil)

// Load reads all ledger entries ordered by listing key. An empty table is
// not an error.
func (s *LedgerStore) Load(ctx context.Context) ([]*domain.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT listing_key, first_seen, address, community, price, feed_number
		FROM ledger_entries
		ORDER BY listing_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var (
			e         domain.LedgerEntry
			firstSeen *time.Time
		)
		err := rows.Scan(&e.Key, &firstSeen, &e.Address, &e.Community, &e.Price, &e.FeedNumber)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		if firstSeen != nil {
			e.FirstSeen = domain.DateOf(*firstSeen)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}

	return entries, nil
}

// Replace swaps the entire ledger in one transaction, so readers never see
// a partially written ledger.
func (s *LedgerStore) Replace(ctx context.Context, entries []*domain.LedgerEntry) error {
	for _, e := range entries {
		if e == nil || e.Key == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	query := `
		INSERT INTO ledger_entries (listing_key, first_seen, address, community, price, feed_number)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, e := range entries {
		var firstSeen *time.Time
		if !e.FirstSeen.IsZero() {
			t := e.FirstSeen.Time()
			firstSeen = &t
		}
		_, err := tx.Exec(ctx, query, e.Key, firstSeen, e.Address, e.Community, e.Price, e.FeedNumber)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert ledger entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
