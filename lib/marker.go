package lib

import (
	"regexp"

	"github.com/google/uuid"
)

// The payment note is the only field that survives the round trip through
// Square, so the order id travels there.
const orderMarkerPrefix = "amias_order:"

var orderMarkerPattern = regexp.MustCompile(`amias_order:([0-9a-f-]+)`)

func OrderMarker(orderId uuid.UUID) string {
	return orderMarkerPrefix + orderId.String()
}

// ParseOrderMarker extracts the order id from a payment note.
func ParseOrderMarker(note string) (uuid.UUID, bool) {
	match := orderMarkerPattern.FindStringSubmatch(note)
	if len(match) < 2 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(match[1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
