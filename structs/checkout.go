package structs

import (
	"encoding/json"
	"strconv"
)

// CheckoutRequest is the raw order-creation payload posted by the storefront.
// Quantities stay json.Number so that non-integer input can be rejected
// instead of being truncated by the decoder.
type CheckoutRequest struct {
	Customer     CheckoutCustomer `json:"customer"`
	Items        []CheckoutItem   `json:"items"`
	PickupDate   string           `json:"pickup_date"`
	PickupWindow string           `json:"pickup_window"`
}

type CheckoutCustomer struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,bakery_email"`
	Phone string `json:"phone" validate:"required,phone_digits"`
}

type CheckoutItem struct {
	Id  string      `json:"id"`
	Qty json.Number `json:"qty"`
}

// UnmarshalJSON keeps the raw qty token. encoding/json would otherwise turn
// the string "3" into the number 3; here it stays quoted and fails the
// integer check.
func (i *CheckoutItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Id  string          `json:"id"`
		Qty json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.Id = raw.Id
	i.Qty = ""
	if len(raw.Qty) > 0 && string(raw.Qty) != "null" {
		i.Qty = json.Number(raw.Qty)
	}
	return nil
}

// OrderDraft is a validated, server-priced order ready to be persisted.
type OrderDraft struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Lines         []DraftLine
	SubtotalCents int64
	TotalCents    int64
	PickupDate    string
	PickupWindow  string
}

type DraftLine struct {
	ItemId         string
	Name           string
	Quantity       int
	UnitPriceCents int64
}

func (l DraftLine) LineTotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

// Request turns the draft back into a checkout payload. Validating the
// result again yields an identical draft.
func (d *OrderDraft) Request() *CheckoutRequest {
	items := make([]CheckoutItem, 0, len(d.Lines))
	for _, l := range d.Lines {
		items = append(items, CheckoutItem{Id: l.ItemId, Qty: json.Number(strconv.Itoa(l.Quantity))})
	}
	return &CheckoutRequest{
		Customer: CheckoutCustomer{
			Name:  d.CustomerName,
			Email: d.CustomerEmail,
			Phone: d.CustomerPhone,
		},
		Items:        items,
		PickupDate:   d.PickupDate,
		PickupWindow: d.PickupWindow,
	}
}

// CheckoutResult is returned to the storefront after a payment link exists.
type CheckoutResult struct {
	URL     string `json:"url"`
	OrderId string `json:"orderId"`
}
