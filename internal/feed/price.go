package feed

import (
	"strconv"
	"strings"
)

// NormalizePrice strips the currency symbol and thousands separators from
// a feed price, returning a plain numeric string. Anything that does not
// survive as a number normalizes to "" (unknown), never to zero.
func NormalizePrice(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return ""
	}
	return s
}

// PriceValue parses a normalized price into a float. ok is false for an
// unknown price.
func PriceValue(normalized string) (float64, bool) {
	if normalized == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
