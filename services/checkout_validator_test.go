package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBuildsServerPricedDraft(t *testing.T) {
	f := newServiceFixture(t)

	draft, err := f.validator.Validate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jo Baker", draft.CustomerName)
	assert.Equal(t, "jo@example.com", draft.CustomerEmail)
	assert.Equal(t, openDate, draft.PickupDate)
	require.Len(t, draft.Lines, 2)
	assert.Equal(t, "croissant", draft.Lines[0].ItemId)
	assert.Equal(t, int64(350), draft.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(1200), draft.Lines[1].UnitPriceCents)
	assert.Equal(t, int64(2*350+1200), draft.SubtotalCents)
	assert.Equal(t, draft.SubtotalCents, draft.TotalCents)
}

func TestValidateIgnoresClientPrices(t *testing.T) {
	f := newServiceFixture(t)

	var req structs.CheckoutRequest
	body := `{"customer":{"name":"Jo","email":"jo@example.com","phone":"5551234567"},
		"items":[{"id":"pie","qty":1,"price":0.01,"name":"Free Pie"}],
		"pickup_date":"` + openDate + `","pickup_window":"` + window + `"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	draft, err := f.validator.Validate(context.Background(), &req)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), draft.TotalCents)
	assert.Equal(t, "Apple Pie", draft.Lines[0].Name)
}

func TestValidateRejectsFirstFailingField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *structs.CheckoutRequest)
		field   string
		message string
	}{
		{
			name:   "blank name",
			mutate: func(r *structs.CheckoutRequest) { r.Customer.Name = "   " },
			field:  "customer.name",
		},
		{
			name:   "bad email",
			mutate: func(r *structs.CheckoutRequest) { r.Customer.Email = "jo@example" },
			field:  "customer.email",
		},
		{
			name:   "email without at sign",
			mutate: func(r *structs.CheckoutRequest) { r.Customer.Email = "jo.example.com" },
			field:  "customer.email",
		},
		{
			name:   "short phone",
			mutate: func(r *structs.CheckoutRequest) { r.Customer.Phone = "555-1234" },
			field:  "customer.phone",
		},
		{
			name:   "no items",
			mutate: func(r *structs.CheckoutRequest) { r.Items = nil },
			field:  "items",
		},
		{
			name:   "blank item id",
			mutate: func(r *structs.CheckoutRequest) { r.Items[1].Id = " " },
			field:  "items[1].id",
		},
		{
			name:   "fractional quantity",
			mutate: func(r *structs.CheckoutRequest) { r.Items[0].Qty = json.Number("1.5") },
			field:  "items[0].qty",
		},
		{
			name:   "zero quantity",
			mutate: func(r *structs.CheckoutRequest) { r.Items[0].Qty = json.Number("0") },
			field:  "items[0].qty",
		},
		{
			name:   "negative quantity",
			mutate: func(r *structs.CheckoutRequest) { r.Items[1].Qty = json.Number("-2") },
			field:  "items[1].qty",
		},
		{
			name:   "quantity above limit",
			mutate: func(r *structs.CheckoutRequest) { r.Items[0].Qty = json.Number("101") },
			field:  "items[0].qty",
		},
		{
			name: "merged quantity above limit",
			mutate: func(r *structs.CheckoutRequest) {
				r.Items = []structs.CheckoutItem{{Id: "pie", Qty: "60"}, {Id: "pie", Qty: "41"}}
			},
			field: "items[1].qty",
		},
		{
			name: "unknown and inactive ids",
			mutate: func(r *structs.CheckoutRequest) {
				r.Items = append(r.Items, structs.CheckoutItem{Id: "nope", Qty: "1"}, structs.CheckoutItem{Id: "retired", Qty: "1"})
			},
			field:   "items",
			message: "unknown item ids: nope, retired",
		},
		{
			name:   "malformed date",
			mutate: func(r *structs.CheckoutRequest) { r.PickupDate = "11/06/2026" },
			field:  "pickup_date",
		},
		{
			name:   "blank window",
			mutate: func(r *structs.CheckoutRequest) { r.PickupWindow = "  " },
			field:  "pickup_window",
		},
		{
			name: "email checked before date",
			mutate: func(r *structs.CheckoutRequest) {
				r.Customer.Email = "nope"
				r.PickupDate = "tomorrow"
			},
			field: "customer.email",
		},
	}

	f := newServiceFixture(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			draft, err := f.validator.Validate(context.Background(), req)
			assert.Nil(t, draft)

			var verr *lib.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, verr.Errors[0].Message)
			}
		})
	}
}

func TestValidateRejectsQuotedQuantity(t *testing.T) {
	f := newServiceFixture(t)

	var req structs.CheckoutRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"customer":{"name":"Jo","email":"jo@example.com","phone":"5551234567"},
		"items":[{"id":"pie","qty":1},{"id":"croissant","qty":"3"}],
		"pickup_date":"2026-11-06","pickup_window":"9-11am"}`), &req))
	assert.Equal(t, json.Number("1"), req.Items[0].Qty)

	_, err := f.validator.Validate(context.Background(), &req)

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[1].qty", verr.Errors[0].Field)
	assert.Equal(t, "must be an integer", verr.Errors[0].Message)
}

func TestValidateMergesDuplicateItems(t *testing.T) {
	f := newServiceFixture(t)
	req := validRequest()
	req.Items = []structs.CheckoutItem{
		{Id: "sourdough", Qty: "1"},
		{Id: "croissant", Qty: "2.0"},
		{Id: "sourdough", Qty: "3"},
	}

	draft, err := f.validator.Validate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, draft.Lines, 2)
	assert.Equal(t, "sourdough", draft.Lines[0].ItemId)
	assert.Equal(t, 4, draft.Lines[0].Quantity)
	assert.Equal(t, 2, draft.Lines[1].Quantity)
	assert.Equal(t, int64(4*1200+2*350), draft.TotalCents)
}

func TestValidateUnparseableCatalogPriceIsIntegrityError(t *testing.T) {
	f := newServiceFixture(t)
	req := validRequest()
	req.Items = []structs.CheckoutItem{{Id: "market-bread", Qty: "1"}}

	_, err := f.validator.Validate(context.Background(), req)

	var integrityErr *lib.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	var verr *lib.ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestDraftRequestRevalidatesToSameDraft(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	draft, err := f.validator.Validate(ctx, validRequest())
	require.NoError(t, err)

	again, err := f.validator.Validate(ctx, draft.Request())
	require.NoError(t, err)
	assert.Equal(t, draft, again)
}
