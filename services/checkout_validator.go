package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

const (
	minItemQty = 1
	maxItemQty = 100
)

// ItemCatalog resolves trusted catalog items by id.
type ItemCatalog interface {
	GetItemsByIds(ctx context.Context, ids []string) (map[string]*tables.MenuItem, error)
}

// CheckoutValidator turns a raw checkout request into a server-priced draft.
// Checks run in a fixed order and stop at the first failure.
type CheckoutValidator struct {
	logger  *gecho.Logger
	catalog ItemCatalog
}

func NewCheckoutValidator(logger *gecho.Logger, catalog ItemCatalog) *CheckoutValidator {
	return &CheckoutValidator{
		logger:  logger,
		catalog: catalog,
	}
}

type requestedItem struct {
	id  string
	qty int
}

func (v *CheckoutValidator) Validate(ctx context.Context, req *structs.CheckoutRequest) (*structs.OrderDraft, error) {
	customer := structs.CheckoutCustomer{
		Name:  strings.TrimSpace(req.Customer.Name),
		Email: strings.TrimSpace(req.Customer.Email),
		Phone: strings.TrimSpace(req.Customer.Phone),
	}
	if verr := lib.ValidateStruct(customer, "customer"); verr != nil {
		return nil, verr
	}

	requested, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(requested))
	for _, it := range requested {
		ids = append(ids, it.id)
	}
	catalog, err := v.catalog.GetItemsByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, lib.NewValidationError("items", "unknown item ids: "+strings.Join(missing, ", "))
	}

	pickupDate := strings.TrimSpace(req.PickupDate)
	if verr := lib.ValidateVar("pickup_date", pickupDate, "required,iso_date"); verr != nil {
		return nil, verr
	}

	pickupWindow := strings.TrimSpace(req.PickupWindow)
	if verr := lib.ValidateVar("pickup_window", pickupWindow, "required"); verr != nil {
		return nil, verr
	}

	draft := &structs.OrderDraft{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		PickupDate:    pickupDate,
		PickupWindow:  pickupWindow,
		Lines:         make([]structs.DraftLine, 0, len(requested)),
	}

	for _, it := range requested {
		item := catalog[it.id]
		cents, err := lib.ParsePriceToCents(item.UnitPriceText())
		if err != nil {
			v.logger.Error("Catalog price is not parseable",
				gecho.Field("item_id", item.Id),
				gecho.Field("prices", item.Prices),
				gecho.Field("error", err))
			return nil, &lib.IntegrityError{Message: fmt.Sprintf("menu item %s has an invalid price", item.Id), Err: err}
		}

		line := structs.DraftLine{
			ItemId:         item.Id,
			Name:           item.Name,
			Quantity:       it.qty,
			UnitPriceCents: cents,
		}
		draft.Lines = append(draft.Lines, line)
		draft.SubtotalCents += line.LineTotalCents()
	}
	draft.TotalCents = draft.SubtotalCents

	return draft, nil
}

// normalizeItems checks ids and quantities and merges repeated ids, keeping
// the order of first appearance.
func normalizeItems(items []structs.CheckoutItem) ([]*requestedItem, error) {
	if len(items) == 0 {
		return nil, lib.NewValidationError("items", "must contain at least one item")
	}

	merged := make([]*requestedItem, 0, len(items))
	byId := make(map[string]*requestedItem, len(items))

	for i, item := range items {
		id := strings.TrimSpace(item.Id)
		if id == "" {
			return nil, lib.NewValidationError(fmt.Sprintf("items[%d].id", i), "is required")
		}

		field := fmt.Sprintf("items[%d].qty", i)
		qty, ok := integerQty(item.Qty.String())
		if !ok {
			return nil, lib.NewValidationError(field, "must be an integer")
		}
		if verr := lib.ValidateVar(field, qty, fmt.Sprintf("gte=%d,lte=%d", minItemQty, maxItemQty)); verr != nil {
			return nil, verr
		}

		if existing, ok := byId[id]; ok {
			existing.qty += qty
			if existing.qty > maxItemQty {
				return nil, lib.NewValidationError(field, fmt.Sprintf("total quantity for %s must be at most %d", id, maxItemQty))
			}
			continue
		}

		it := &requestedItem{id: id, qty: qty}
		byId[id] = it
		merged = append(merged, it)
	}

	return merged, nil
}

// integerQty accepts any JSON number with no fractional part, so 2 and 2.0
// are both a quantity of two.
func integerQty(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1e9 {
		return 0, false
	}
	return int(f), true
}
