package oddsmath

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered for any undefined value
const Placeholder = "—"

// FormatAmerican renders +150 / -110
func FormatAmerican(american OptionalInt) string {
	if !american.Valid {
		return Placeholder
	}
	if american.Value > 0 {
		return fmt.Sprintf("+%d", american.Value)
	}
	return fmt.Sprintf("%d", american.Value)
}

// FormatPercent renders a fraction as a percentage with two decimals
// 0.51163 → "51.16%"
func FormatPercent(p Optional) string {
	if !p.Valid || !isFinite(p.Value) {
		return Placeholder
	}
	return decimal.NewFromFloat(p.Value*100).StringFixed(2) + "%"
}

// FormatMoney renders currency with two decimals and a leading sign when negative
// 3.3403 → "$3.34", -1.2 → "-$1.20"
func FormatMoney(x Optional) string {
	if !x.Valid || !isFinite(x.Value) {
		return Placeholder
	}

	amount := decimal.NewFromFloat(math.Abs(x.Value)).StringFixed(2)
	if x.Value < 0 && amount != "0.00" {
		return "-$" + amount
	}
	return "$" + amount
}
