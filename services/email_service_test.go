package services

import (
	"testing"
	"time"

	"amiasbakery_server/structs/tables"

	"github.com/stretchr/testify/assert"
)

func TestFormatPaidOrderEmail(t *testing.T) {
	order := &tables.Order{
		OrderNumber:   "AB-7K2Q",
		CustomerName:  "Jo Baker",
		CustomerEmail: "jo@example.com",
		PickupDate:    "2026-11-06",
		PickupWindow:  "9-11am",
		SubtotalCents: 1999,
		TotalCents:    1999,
		CreatedAt:     time.Now(),
		Lines: []*tables.OrderLine{
			{Quantity: 1, ItemName: "Apple Pie", UnitPriceCents: 1999, LineTotalCents: 1999},
		},
	}

	subject, body := FormatPaidOrderEmail(order, "PAY-1")

	assert.Equal(t, "New PAID Order - Jo Baker", subject)
	assert.Equal(t, "NEW PAID ORDER\n\n"+
		"Order: AB-7K2Q\n"+
		"Name: Jo Baker\n"+
		"Email: jo@example.com\n"+
		"Phone: -\n"+
		"Pickup: 2026-11-06 (9-11am)\n\n"+
		"Items:\n"+
		"- 1 x Apple Pie\n"+
		"\nTotal: $19.99\n"+
		"Payment: CARD\n"+
		"Square Payment ID: PAY-1\n", body)
}

func TestFormatPaidOrderEmailWithoutLines(t *testing.T) {
	_, body := FormatPaidOrderEmail(&tables.Order{CustomerName: "Jo"}, "PAY-2")
	assert.Contains(t, body, "- (no line items)")
	assert.Contains(t, body, "Total: $0.00")
}
