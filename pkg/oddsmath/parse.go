package oddsmath

import (
	"math"
	"strconv"
	"strings"
)

// maxAmericanInt bounds integer prices so float→int conversion stays defined
const maxAmericanInt = 1e9

// ParseNumber parses user-entered numeric text.
// Surrounding whitespace and thousands separators are ignored and a leading
// "+" is accepted. Empty or whitespace-only text is absent, not zero.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if s == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(n) {
		return 0, false
	}

	return n, true
}

// ParseAmerican parses American odds text. Zero is not a price.
func ParseAmerican(text string) (float64, bool) {
	n, ok := ParseNumber(text)
	if !ok || n == 0 {
		return 0, false
	}

	return n, true
}

// ParseAmericanInt parses American odds text truncated toward zero,
// the way a single total parlay price is read.
func ParseAmericanInt(text string) (int, bool) {
	n, ok := ParseAmerican(text)
	if !ok || math.Abs(n) >= maxAmericanInt {
		return 0, false
	}

	truncated := int(n)
	if truncated == 0 {
		return 0, false
	}

	return truncated, true
}
