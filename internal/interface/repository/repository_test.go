package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightlo-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAirportRepository_Seed(t *testing.T) {
	repo, err := NewStaticAirportRepository()
	require.NoError(t, err)

	airports, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, airports, 35)

	seen := make(map[string]bool)
	for _, a := range airports {
		assert.True(t, entity.ValidAirportCode(a.Code), a.Code)
		assert.False(t, seen[a.Code], "duplicate %s", a.Code)
		seen[a.Code] = true
		require.NotNil(t, a.Coordinates, a.Code)
		assert.NotEmpty(t, a.Timezone, a.Code)
	}

	lhr, err := repo.GetByCode(context.Background(), "lhr")
	require.NoError(t, err)
	assert.Equal(t, "London Heathrow Airport", lhr.Name)
	assert.Equal(t, "EGLL", lhr.ICAO)

	_, err = repo.GetByCode(context.Background(), "ZZZ")
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestStaticAirlineRepository_Seed(t *testing.T) {
	repo, err := NewStaticAirlineRepository()
	require.NoError(t, err)

	airlines, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(airlines), 20)
	for _, a := range airlines {
		assert.True(t, entity.ValidAirlineCode(a.Code), a.Code)
		assert.Len(t, a.ICAO, 3, a.Code)
	}

	ba, err := repo.GetByCode(context.Background(), "BA")
	require.NoError(t, err)
	assert.Equal(t, "BAW", ba.ICAO)

	_, err = repo.GetByCode(context.Background(), "ZZ")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestStaticRepository_ListReturnsCopy(t *testing.T) {
	repo, err := NewStaticAirportRepository(entity.Airport{Code: "AAA", Name: "Alpha"})
	require.NoError(t, err)

	first, _ := repo.List(context.Background())
	first[0].Name = "mutated"

	second, _ := repo.List(context.Background())
	assert.Equal(t, "Alpha", second[0].Name)
}

func TestMemoryFeedCache(t *testing.T) {
	cache := NewMemoryFeedCache()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte("body"), time.Minute))

	body, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("body"), body)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are misses")
}
