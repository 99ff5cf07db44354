package lib

import (
	"fmt"
	"math/rand/v2"
)

// GenerateOrderNumber generates an order number in the format: AB-XXXX
// where XXXX is a random 4-character alphanumeric string
func GenerateOrderNumber() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 4

	randomPart := make([]byte, length)
	for i := range randomPart {
		randomPart[i] = chars[rand.IntN(len(chars))]
	}

	return fmt.Sprintf("AB-%s", string(randomPart))
}
