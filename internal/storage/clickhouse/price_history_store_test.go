package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-tracker/internal/domain"
	"listing-tracker/internal/storage"
)

func TestPriceHistoryStore_InsertBulkAndGetByKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	points := []*domain.PricePoint{
		{Key: "K1", Day: testDate(t, "2025-06-02"), Price: 392000},
		{Key: "K1", Day: testDate(t, "2025-06-01"), Price: 389000},
		{Key: "K2", Day: testDate(t, "2025-06-01"), Price: 455000},
	}
	require.NoError(t, store.InsertBulk(ctx, points))

	got, err := store.GetByKey(ctx, "K1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by day ascending regardless of insert order.
	assert.Equal(t, "2025-06-01", got[0].Day.String())
	assert.Equal(t, 389000.0, got[0].Price)
	assert.Equal(t, "2025-06-02", got[1].Day.String())
	assert.Equal(t, 392000.0, got[1].Price)
}

func TestPriceHistoryStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)

	err := store.InsertBulk(context.Background(), []*domain.PricePoint{
		{Key: "K1", Day: testDate(t, "2025-06-01"), Price: 100},
		{Key: "K1", Day: testDate(t, "2025-06-01"), Price: 200},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPriceHistoryStore_DuplicateAgainstStored(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.PricePoint{
		{Key: "K1", Day: testDate(t, "2025-06-01"), Price: 100},
	}))

	err := store.InsertBulk(ctx, []*domain.PricePoint{
		{Key: "K1", Day: testDate(t, "2025-06-01"), Price: 200},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same key on a new day is fine.
	require.NoError(t, store.InsertBulk(ctx, []*domain.PricePoint{
		{Key: "K1", Day: testDate(t, "2025-06-02"), Price: 200},
	}))
}

func TestPriceHistoryStore_EmptyBatchAndUnknownKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, nil))

	got, err := store.GetByKey(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPriceHistoryStore_InvalidPoint(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.PricePoint{{Key: "", Day: testDate(t, "2025-06-01")}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.InsertBulk(ctx, []*domain.PricePoint{{Key: "K1"}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
