package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Order struct {
	// Table Name and identifiers
	bun.BaseModel `bun:"table:orders,alias:o"`
	Id            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OrderNumber   string    `bun:"order_number,notnull,unique" json:"order_number"`

	// Customer Data
	CustomerName  string `bun:"customer_name,notnull" json:"customer_name"`
	CustomerEmail string `bun:"customer_email,notnull" json:"customer_email"`
	CustomerPhone string `bun:"customer_phone,notnull" json:"customer_phone"`

	// Money, in integer cents
	SubtotalCents int64 `bun:"subtotal_cents,notnull" json:"subtotal_cents"`
	TotalCents    int64 `bun:"total_cents,notnull" json:"total_cents"`

	// Pickup Data (Reference to PickupSlot table)
	PickupDate   string    `bun:"pickup_date,notnull" json:"pickup_date"`
	PickupWindow string    `bun:"pickup_window,notnull" json:"pickup_window"`
	SlotId       uuid.UUID `bun:"slot_id,notnull,type:uuid" json:"slot_id"`

	// Payment Data, filled in after the payment link is created and after the webhook
	PaymentLinkId   string `bun:"payment_link_id,nullzero" json:"payment_link_id,omitempty"`
	PaymentLinkURL  string `bun:"payment_link_url,nullzero" json:"payment_link_url,omitempty"`
	SquarePaymentId string `bun:"square_payment_id,nullzero,unique" json:"square_payment_id,omitempty"`

	// Order Data
	Status    OrderStatus `bun:"status,notnull,default:'pending'" json:"status"`
	PaidAt    *time.Time  `bun:"paid_at,nullzero" json:"paid_at,omitempty"`
	CreatedAt time.Time   `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time   `bun:"updated_at,notnull" json:"updated_at"`

	Lines []*OrderLine `bun:"rel:has-many,join:id=order_id" json:"lines,omitempty"`
}

type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines,alias:ol"`
	Id            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OrderId       uuid.UUID `bun:"order_id,notnull,type:uuid" json:"order_id"`
	MenuItemId    string    `bun:"menu_item_id,notnull" json:"menu_item_id"`
	Position      int       `bun:"position,notnull" json:"position"`
	Quantity      int       `bun:"quantity,notnull" json:"quantity"`

	// Snapshot of pricing at time of order
	ItemName       string `bun:"item_name,notnull" json:"item_name"`               // Name when ordered
	UnitPriceCents int64  `bun:"unit_price_cents,notnull" json:"unit_price_cents"` // Price when ordered
	LineTotalCents int64  `bun:"line_total_cents,notnull" json:"line_total_cents"` // quantity * unit_price_cents
}

type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusPaymentLinkCreated OrderStatus = "payment_link_created"
	OrderStatusPaid               OrderStatus = "paid"
	OrderStatusFailed             OrderStatus = "failed"
	OrderStatusCancelled          OrderStatus = "cancelled"
)

// IsOpen reports whether the order still holds a slot reservation and is awaiting payment.
func (s OrderStatus) IsOpen() bool {
	return s == OrderStatusPending || s == OrderStatusPaymentLinkCreated
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaymentLinkCreated, OrderStatusPaid, OrderStatusFailed, OrderStatusCancelled:
		return true
	}
	return false
}
