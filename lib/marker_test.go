package lib

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderMarkerRoundTrip(t *testing.T) {
	id := uuid.New()
	note := "Pickup Saturday " + OrderMarker(id)

	got, ok := ParseOrderMarker(note)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestParseOrderMarkerMissing(t *testing.T) {
	for _, note := range []string{"", "no marker here", "amias_order:", "amias_order:zzzz", "amias_order:1234-abcd"} {
		_, ok := ParseOrderMarker(note)
		assert.False(t, ok, note)
	}
}
