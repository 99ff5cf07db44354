package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PickupSlot is a capacity-limited (date, window) unit a customer claims at checkout.
type PickupSlot struct {
	bun.BaseModel `bun:"table:pickup_slots,alias:ps"`
	Id            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	PickupDate    string    `bun:"pickup_date,notnull,unique:pickup_slot_key" json:"pickup_date"` // YYYY-MM-DD
	PickupWindow  string    `bun:"pickup_window,notnull,unique:pickup_slot_key" json:"pickup_window"`
	Capacity      int       `bun:"capacity,notnull" json:"capacity"`
	Reserved      int       `bun:"reserved,notnull,default:0" json:"reserved"`
	Blackout      bool      `bun:"blackout,notnull,default:false" json:"blackout"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
}

func (s *PickupSlot) Remaining() int {
	return max(0, s.Capacity-s.Reserved)
}
