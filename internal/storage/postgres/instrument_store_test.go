package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlab/internal/domain"
	"trendlab/internal/storage"
)

func createTestInstrument(name string, pointValue float64) *domain.Instrument {
	return &domain.Instrument{
		Name:       name,
		Ticker:     name + "=F",
		Sector:     "Metals",
		PointValue: pointValue,
		Currency:   "USD",
		Type:       domain.InstrumentTypeFutures,
	}
}

func TestInstrumentStore_InsertAndGetByName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInstrumentStore(pool)

	inst := createTestInstrument("Gold", 100)

	err := store.Insert(ctx, inst)
	require.NoError(t, err)

	retrieved, err := store.GetByName(ctx, "Gold")
	require.NoError(t, err)

	assert.Equal(t, inst.Name, retrieved.Name)
	assert.Equal(t, inst.Ticker, retrieved.Ticker)
	assert.Equal(t, inst.Sector, retrieved.Sector)
	assert.InDelta(t, inst.PointValue, retrieved.PointValue, 0.0001)
	assert.Equal(t, inst.Currency, retrieved.Currency)
	assert.Equal(t, inst.Type, retrieved.Type)
}

func TestInstrumentStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInstrumentStore(pool)

	err := store.Insert(ctx, createTestInstrument("Gold", 100))
	require.NoError(t, err)

	err = store.Insert(ctx, createTestInstrument("Gold", 50))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestInstrumentStore_GetByNameNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInstrumentStore(pool)

	_, err := store.GetByName(ctx, "Unobtainium")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInstrumentStore_InsertInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInstrumentStore(pool)

	err := store.Insert(ctx, &domain.Instrument{Name: "NoPointValue"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestInstrumentStore_ListOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInstrumentStore(pool)

	for _, name := range []string{"Wheat", "Copper", "Gold"} {
		err := store.Insert(ctx, createTestInstrument(name, 50))
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, "Copper", list[0].Name)
	assert.Equal(t, "Gold", list[1].Name)
	assert.Equal(t, "Wheat", list[2].Name)
}

func TestInstrumentStore_ListEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewInstrumentStore(pool)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
