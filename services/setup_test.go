package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"amiasbakery_server/database"
	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	openDate   = "2026-11-06"
	fullDate   = "2026-11-07"
	closedDate = "2026-11-08"
	window     = "9-11am"
)

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{SiteURL: "https://amiasbakery.test"},
		Cache:  &structs.CacheConfig{MenuTTL: time.Minute},
		Square: &structs.SquareConfig{
			AccessToken: "sq-test-token",
			LocationID:  "LOC123",
			Environment: "sandbox",
			APIVersion:  "2026-01-22",
			Currency:    "USD",
			HTTPTimeout: 5 * time.Second,
		},
		Webhook: &structs.WebhookConfig{
			SignatureKey:    "webhook-signature-key",
			NotificationURL: "https://api.amiasbakery.test/api/square/webhook",
		},
		Email:  &structs.EmailConfig{From: "orders@amiasbakery.test", OrdersTo: "inbox@amiasbakery.test"},
		Sweep:  &structs.SweepConfig{Enabled: true, Interval: time.Minute, PendingTTL: 2 * time.Hour},
		Events: &structs.EventsConfig{},
	}
}

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	models := []any{
		(*tables.MenuItem)(nil),
		(*tables.PickupSlot)(nil),
		(*tables.Order)(nil),
		(*tables.OrderLine)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	wrapped := database.Wrap(db)
	seedCatalog(t, wrapped)
	return wrapped
}

func seedCatalog(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	items := []tables.MenuItem{
		{Id: "croissant", Page: tables.MenuPageMain, Section: "Pastries", Name: "Butter Croissant", Prices: []string{"$3.50"}, SortOrder: 2, IsActive: true},
		{Id: "sourdough", Page: tables.MenuPageMain, Section: "Bread", Name: "Country Sourdough", Prices: []string{"$12.00", "$20.00"}, SortOrder: 1, IsActive: true},
		{Id: "pie", Page: tables.MenuPageSeasonal, Section: "Pies", Name: "Apple Pie", Prices: []string{"$19.99"}, SortOrder: 1, IsActive: true},
		{Id: "market-bread", Page: tables.MenuPageFarmersMarket, Section: "Bread", Name: "Market Loaf", Prices: []string{"market price"}, SortOrder: 1, IsActive: true},
		{Id: "retired", Page: tables.MenuPageMain, Section: "Pastries", Name: "Old Scone", Prices: []string{"$2.00"}, SortOrder: 3, IsActive: false},
	}
	_, err := database.Query[tables.MenuItem](db).InsertMany(ctx, items)
	require.NoError(t, err)

	now := time.Now().UTC()
	// One row per insert: a bulk insert on sqlite drops default-tagged columns
	// when the first row leaves them zero.
	for _, slot := range []*tables.PickupSlot{
		{Id: uuid.New(), PickupDate: openDate, PickupWindow: window, Capacity: 2, CreatedAt: now},
		{Id: uuid.New(), PickupDate: fullDate, PickupWindow: window, Capacity: 1, Reserved: 1, CreatedAt: now},
		{Id: uuid.New(), PickupDate: closedDate, PickupWindow: window, Capacity: 5, Blackout: true, CreatedAt: now},
	} {
		_, err = database.Query[tables.PickupSlot](db).Insert(ctx, slot)
		require.NoError(t, err)
	}
}

func validRequest() *structs.CheckoutRequest {
	return &structs.CheckoutRequest{
		Customer: structs.CheckoutCustomer{
			Name:  "  Jo Baker ",
			Email: "jo@example.com",
			Phone: "(555) 123-4567",
		},
		Items: []structs.CheckoutItem{
			{Id: "croissant", Qty: json.Number("2")},
			{Id: "sourdough", Qty: json.Number("1")},
		},
		PickupDate:   openDate,
		PickupWindow: window,
	}
}

func slotReserved(t *testing.T, db *database.DB, date string) int {
	t.Helper()
	slot, err := database.Query[tables.PickupSlot](db).Where("pickup_date", date).First(context.Background())
	require.NoError(t, err)
	require.NotNil(t, slot)
	return slot.Reserved
}

func countOrders(t *testing.T, db *database.DB) int {
	t.Helper()
	n, err := database.Query[tables.Order](db).Count(context.Background())
	require.NoError(t, err)
	return n
}

type serviceFixture struct {
	cfg       *structs.Config
	db        *database.DB
	catalog   *CatalogService
	validator *CheckoutValidator
	orders    *OrderService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger := testLogger()
	cfg := testConfig()
	db := setupTestDB(t)
	catalog := NewCatalogService(logger, db, nil)

	return &serviceFixture{
		cfg:       cfg,
		db:        db,
		catalog:   catalog,
		validator: NewCheckoutValidator(logger, catalog),
		orders:    NewOrderService(logger, cfg, db, nil),
	}
}

func (f *serviceFixture) createOrder(t *testing.T) *tables.Order {
	t.Helper()
	ctx := context.Background()
	draft, err := f.validator.Validate(ctx, validRequest())
	require.NoError(t, err)
	order, err := f.orders.CreatePendingOrder(ctx, draft)
	require.NoError(t, err)
	return order
}
