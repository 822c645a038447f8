package clickhouse

import (
	"context"
	"fmt"
	"time"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk adds price points. Fails the entire batch on a duplicate
// (listing_key, day). MergeTree does not enforce uniqueness, so duplicates
// are detected with explicit checks before the insert.
func (s *PriceHistoryStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		listingKey string
		day        domain.Date
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.Key == "" || !p.Day.Valid() {
			return storage.ErrInvalidInput
		}
		k := key{p.Key, p.Day}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.Key, p.Day)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (listing_key, day, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Key, p.Day.Time(), p.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByKey retrieves all points for a listing, ordered by day ASC.
func (s *PriceHistoryStore) GetByKey(ctx context.Context, listingKey string) ([]*domain.PricePoint, error) {
	query := `
		SELECT listing_key, day, price
		FROM price_history
		WHERE listing_key = ?
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, listingKey)
	if err != nil {
		return nil, fmt.Errorf("get price history by key: %w", err)
	}
	defer rows.Close()

	var points []*domain.PricePoint
	for rows.Next() {
		var (
			p   domain.PricePoint
			day time.Time
		)
		if err := rows.Scan(&p.Key, &day, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		p.Day = domain.DateOf(day)
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}

	return points, nil
}

func (s *PriceHistoryStore) exists(ctx context.Context, listingKey string, day domain.Date) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM price_history WHERE listing_key = ? AND day = ?
	`, listingKey, day.Time()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
