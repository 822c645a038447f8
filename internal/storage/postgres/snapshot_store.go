package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
// Each capture day owns one row in snapshot_days and its listings in
// snapshot_listings; the day row's primary key enforces the one
// snapshot per day rule.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Save persists a snapshot atomically. Returns ErrDuplicateKey if the day
// already has one.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil || !snap.Date.Valid() {
		return storage.ErrInvalidInput
	}

	// First occurrence of a key wins within a day.
	seen := make(map[string]struct{}, len(snap.Listings))
	listings := make([]*domain.Listing, 0, len(snap.Listings))
	for _, l := range snap.Listings {
		if _, ok := seen[l.Key]; ok {
			continue
		}
		seen[l.Key] = struct{}{}
		listings = append(listings, l)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO snapshot_days (capture_date, listing_count) VALUES ($1, $2)`,
		snap.Date.Time(), len(listings),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot day: %w", err)
	}

	query := `
		INSERT INTO snapshot_listings (
			capture_date, listing_key, address, community, county, model, price,
			bedrooms, baths, square_feet, garage, pool, latitude, longitude,
			status, sale_type, media_id, feed_number, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	for i, l := range listings {
		_, err := tx.Exec(ctx, query,
			snap.Date.Time(), l.Key, l.Address, l.Community, l.County, l.Model, l.Price,
			l.Bedrooms, l.Baths, l.SquareFeet, l.Garage, l.Pool, l.Latitude, l.Longitude,
			string(l.Status), string(l.SaleType), l.MediaID, l.FeedNumber, i,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot listing: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Get retrieves the snapshot for an exact day. Returns ErrNotFound if none exists.
func (s *SnapshotStore) Get(ctx context.Context, d domain.Date) (*domain.Snapshot, error) {
	if !d.Valid() {
		return nil, storage.ErrInvalidInput
	}

	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT listing_count FROM snapshot_days WHERE capture_date = $1`, d.Time(),
	).Scan(&count)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot day: %w", err)
	}

	return s.readSnapshot(ctx, d)
}

// FindLatestBefore retrieves the newest snapshot captured strictly before d.
func (s *SnapshotStore) FindLatestBefore(ctx context.Context, d domain.Date) (*domain.Snapshot, error) {
	if !d.Valid() {
		return nil, storage.ErrInvalidInput
	}

	var prior time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT capture_date FROM snapshot_days
		WHERE capture_date < $1
		ORDER BY capture_date DESC
		LIMIT 1
	`, d.Time()).Scan(&prior)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find latest snapshot day: %w", err)
	}

	return s.readSnapshot(ctx, domain.DateOf(prior))
}

// Dates returns all persisted snapshot dates in ascending order.
func (s *SnapshotStore) Dates(ctx context.Context) ([]domain.Date, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT capture_date FROM snapshot_days ORDER BY capture_date ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("get snapshot dates: %w", err)
	}
	defer rows.Close()

	var dates []domain.Date
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan snapshot date: %w", err)
		}
		dates = append(dates, domain.DateOf(t))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot dates: %w", err)
	}

	return dates, nil
}

func (s *SnapshotStore) readSnapshot(ctx context.Context, d domain.Date) (*domain.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT listing_key, address, community, county, model, price,
		       bedrooms, baths, square_feet, garage, pool, latitude, longitude,
		       status, sale_type, media_id, feed_number
		FROM snapshot_listings
		WHERE capture_date = $1
		ORDER BY position ASC
	`, d.Time())
	if err != nil {
		return nil, fmt.Errorf("get snapshot listings: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{Date: d, Listings: listings}, nil
}

// scanListings scans multiple rows into a slice of Listing.
func scanListings(rows pgx.Rows) ([]*domain.Listing, error) {
	var listings []*domain.Listing

	for rows.Next() {
		var (
			l               domain.Listing
			status, saleTyp string
		)
		err := rows.Scan(
			&l.Key, &l.Address, &l.Community, &l.County, &l.Model, &l.Price,
			&l.Bedrooms, &l.Baths, &l.SquareFeet, &l.Garage, &l.Pool, &l.Latitude, &l.Longitude,
			&status, &saleTyp, &l.MediaID, &l.FeedNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		l.Status = domain.Status(status)
		l.SaleType = domain.SaleType(saleTyp)

		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, nil
}
