package services

import (
	"context"
	"testing"
	"time"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs/tables"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheServiceWithClient(testLogger(), testConfig(), client), mr
}

func TestGetMenuPageActiveItemsInOrder(t *testing.T) {
	f := newServiceFixture(t)

	items, err := f.catalog.GetMenuPage(context.Background(), tables.MenuPageMain)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "sourdough", items[0].Id)
	assert.Equal(t, []string{"$12.00", "$20.00"}, items[0].Prices)
	assert.Equal(t, "croissant", items[1].Id)
}

func TestGetMenuPageUnknownPage(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.catalog.GetMenuPage(context.Background(), tables.MenuPage("brunch"))
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestGetMenuPageServedFromCache(t *testing.T) {
	f := newServiceFixture(t)
	cache, mr := newTestCache(t)
	catalog := NewCatalogService(testLogger(), f.db, cache)
	ctx := context.Background()

	first, err := catalog.GetMenuPage(ctx, tables.MenuPageSeasonal)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists("menu:page:seasonal_menu"))
	assert.Equal(t, time.Minute, mr.TTL("menu:page:seasonal_menu"))

	_, err = f.db.NewDelete().Model((*tables.MenuItem)(nil)).Where("id = ?", "pie").Exec(ctx)
	require.NoError(t, err)

	cached, err := catalog.GetMenuPage(ctx, tables.MenuPageSeasonal)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	require.NoError(t, cache.InvalidateMenuCaches())
	fresh, err := catalog.GetMenuPage(ctx, tables.MenuPageSeasonal)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestGetMenuPageSurvivesCacheOutage(t *testing.T) {
	f := newServiceFixture(t)
	cache, mr := newTestCache(t)
	catalog := NewCatalogService(testLogger(), f.db, cache)
	mr.Close()

	items, err := catalog.GetMenuPage(context.Background(), tables.MenuPageMain)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUpcomingSlotsSkipsPastFullAndBlackout(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.catalog.now = func() time.Time { return time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC) }
	slots, err := f.catalog.UpcomingSlots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, openDate, slots[0].PickupDate)
	assert.Equal(t, 2, slots[0].Remaining())

	f.catalog.now = func() time.Time { return time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC) }
	slots, err = f.catalog.UpcomingSlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRateLimitCounter(t *testing.T) {
	cache, mr := newTestCache(t)

	for want := 1; want <= 3; want++ {
		n, err := cache.IncrementRateLimit("10.0.0.1", "checkout", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:10.0.0.1:checkout"))
}
