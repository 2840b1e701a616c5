package oddsmath

// ParlayProbability multiplies independent leg probabilities.
// The parlay is undefined unless every leg has a probability; an empty
// parlay is undefined too.
func ParlayProbability(legs []Optional) (float64, bool) {
	if len(legs) == 0 {
		return 0, false
	}

	product := 1.0
	for _, leg := range legs {
		if !leg.Valid || !validProbability(leg.Value) {
			return 0, false
		}
		product *= leg.Value
	}

	return ClampProbability(product), true
}

// ParlayDecimal multiplies leg decimal prices into one parlay price
// 2.10 × 2.10 → 4.41
func ParlayDecimal(decimals []Optional) (float64, bool) {
	if len(decimals) == 0 {
		return 0, false
	}

	product := 1.0
	for _, d := range decimals {
		if !d.Valid || !validDecimal(d.Value) {
			return 0, false
		}
		product *= d.Value
	}

	return product, true
}

// ParlayAmerican combines per-leg American prices into a parlay American price
// +110 / +110 → +341
func ParlayAmerican(prices []Optional) (int, bool) {
	decimals := make([]Optional, len(prices))
	for i, price := range prices {
		if price.Valid {
			decimals[i] = FromOK(AmericanToDecimal(price.Value))
		}
	}

	parlayDecimal, ok := ParlayDecimal(decimals)
	if !ok {
		return 0, false
	}

	return DecimalToAmerican(parlayDecimal)
}
