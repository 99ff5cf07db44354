package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"amiasbakery_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*tables.MenuItem)(nil), (*tables.PickupSlot)(nil)} {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}
	return Wrap(db)
}

func seedSlots(t *testing.T, db *DB, n int) {
	t.Helper()
	for i := range n {
		slot := &tables.PickupSlot{
			Id:           uuid.New(),
			PickupDate:   fmt.Sprintf("2026-05-%02d", i+1),
			PickupWindow: "9-11am",
			Capacity:     5,
			Reserved:     i,
			CreatedAt:    time.Now().UTC(),
		}
		_, err := Query[tables.PickupSlot](db).Insert(context.Background(), slot)
		require.NoError(t, err)
	}
}

func TestQueryBuilderFilterOrderLimit(t *testing.T) {
	db := setupTestDB(t)
	seedSlots(t, db, 4)
	ctx := context.Background()

	slots, err := Query[tables.PickupSlot](db).
		WhereOp("reserved", ">=", 1).
		OrderBy("pickup_date", DESC).
		Limit(2).
		All(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "2026-05-04", slots[0].PickupDate)
	assert.Equal(t, "2026-05-03", slots[1].PickupDate)

	count, err := Query[tables.PickupSlot](db).WhereIn("pickup_date", []string{"2026-05-01", "2026-05-02"}).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestQueryBuilderFirstMissingIsNil(t *testing.T) {
	db := setupTestDB(t)

	slot, err := Query[tables.PickupSlot](db).Where("pickup_date", "1999-01-01").First(context.Background())
	require.NoError(t, err)
	assert.Nil(t, slot)
}

func TestQueryBuilderUpdate(t *testing.T) {
	db := setupTestDB(t)
	seedSlots(t, db, 2)
	ctx := context.Background()

	n, err := Query[tables.PickupSlot](db).Where("pickup_date", "2026-05-01").Update(ctx, map[string]any{"blackout": true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	slot, err := Query[tables.PickupSlot](db).Where("pickup_date", "2026-05-01").First(ctx)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.True(t, slot.Blackout)
}

func TestPaginate(t *testing.T) {
	db := setupTestDB(t)
	seedSlots(t, db, 5)

	page, err := Paginate(context.Background(), Query[tables.PickupSlot](db).OrderBy("pickup_date", ASC), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Pagination.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "2026-05-03", page.Data[0].PickupDate)
}

func TestTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	err := Transaction(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		_, err := Query[tables.PickupSlot](tx).Insert(ctx, &tables.PickupSlot{
			Id: uuid.New(), PickupDate: "2026-06-01", PickupWindow: "noon", Capacity: 1, CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	count, err := Query[tables.PickupSlot](db).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(sql.ErrNoRows))
	assert.False(t, isRetryableError(context.Canceled))
	assert.True(t, isRetryableError(assertErr("dial tcp: connection refused")))
	assert.False(t, isRetryableError(assertErr("syntax error at or near")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
