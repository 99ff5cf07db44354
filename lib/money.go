package lib

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

var hundred = decimal.NewFromInt(100)

// ParsePriceToCents turns catalog price text such as "$12.50" into integer
// cents. Everything except digits and dots is stripped before parsing.
func ParsePriceToCents(text string) (int64, error) {
	cleaned := nonPriceChars.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, fmt.Errorf("price %q contains no digits", text)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", text, err)
	}

	return d.Mul(hundred).Round(0).IntPart(), nil
}

// FormatCents renders cents as dollars, e.g. 1999 -> "$19.99".
func FormatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}
