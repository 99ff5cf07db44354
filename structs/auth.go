package structs

import "time"

// AdminClaims are the verified claims of an admin bearer token.
type AdminClaims struct {
	Sub  string    `json:"sub"`
	Role string    `json:"role"`
	Iat  time.Time `json:"iat"`
	Exp  time.Time `json:"exp"`
}

// OrderEvent is published on the order topic whenever an order changes state.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderId    string    `json:"order_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}
