package oddsmath

import "math"

const (
	// Epsilon keeps derived probabilities strictly inside (0, 1)
	Epsilon = 1e-6

	minProbability = Epsilon
	maxProbability = 1 - Epsilon
)

// AmericanToProbability converts American odds to implied probability
// American +150 → 0.40
// American -150 → 0.60
func AmericanToProbability(american float64) (float64, bool) {
	if !validAmerican(american) {
		return 0, false
	}

	if american > 0 {
		return 100.0 / (american + 100.0), true
	}

	a := math.Abs(american)
	return a / (a + 100.0), true
}

// ProbabilityToAmerican converts probability to American odds
// 0.60 → -150
// 0.40 → +150
// Exactly 0.50 resolves to the favorite branch (-100).
func ProbabilityToAmerican(probability float64) (int, bool) {
	if !validProbability(probability) {
		return 0, false
	}

	if probability >= 0.5 {
		return roundAmerican(-(probability * 100.0) / (1.0 - probability))
	}

	return roundAmerican(((1.0 - probability) * 100.0) / probability)
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american float64) (float64, bool) {
	if !validAmerican(american) {
		return 0, false
	}

	if american > 0 {
		return 1.0 + american/100.0, true
	}

	return 1.0 + 100.0/math.Abs(american), true
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(decimal float64) (int, bool) {
	if !validDecimal(decimal) {
		return 0, false
	}

	profit := decimal - 1.0
	if profit >= 1.0 {
		return roundAmerican(profit * 100.0)
	}

	return roundAmerican(-100.0 / profit)
}

// roundAmerican rounds a price to the nearest integer. Magnitudes at or above
// maxAmericanInt are absent so the conversion to int never overflows.
func roundAmerican(american float64) (int, bool) {
	rounded := math.Round(american)
	if !isFinite(rounded) || math.Abs(rounded) >= maxAmericanInt {
		return 0, false
	}

	return int(rounded), true
}

// DecimalToProbability converts decimal odds to implied probability
// Decimal 2.00 → 0.50
func DecimalToProbability(decimal float64) (float64, bool) {
	if !validDecimal(decimal) {
		return 0, false
	}

	return 1.0 / decimal, true
}

// ProbabilityToDecimal converts probability to decimal odds
// 0.50 → Decimal 2.00
func ProbabilityToDecimal(probability float64) (float64, bool) {
	if !validProbability(probability) {
		return 0, false
	}

	return 1.0 / probability, true
}

// ClampProbability pulls p into [Epsilon, 1-Epsilon]
func ClampProbability(p float64) float64 {
	return Clamp(p, minProbability, maxProbability)
}

// Clamp bounds n to [min, max]
func Clamp(n, min, max float64) float64 {
	return math.Min(max, math.Max(min, n))
}

func validAmerican(american float64) bool {
	return isFinite(american) && american != 0
}

func validDecimal(decimal float64) bool {
	return isFinite(decimal) && decimal > 1.0
}

func validProbability(p float64) bool {
	return isFinite(p) && p > 0 && p < 1
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
