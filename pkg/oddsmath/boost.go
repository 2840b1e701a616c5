package oddsmath

// MaxBoost caps the boost fraction (1000%) against fat-fingered input
const MaxBoost = 10.0

// BoostDecimal applies a profit boost to a decimal price. Only the profit
// portion grows: 1 + (decimal - 1) × (1 + boost).
func BoostDecimal(decimal, boost float64) (float64, bool) {
	if !validDecimal(decimal) {
		return 0, false
	}

	b := boost
	if !isFinite(b) {
		b = 0
	}
	b = Clamp(b, 0, MaxBoost)

	return 1.0 + (decimal-1.0)*(1.0+b), true
}

// ApplyBoost boosts an American price and returns the boosted American price
// +300 with a 20% boost → +360
// A zero boost returns the price untouched.
func ApplyBoost(american OptionalInt, boost float64) (int, bool) {
	if !american.Valid || american.Value == 0 {
		return 0, false
	}
	if !(boost > 0) {
		return american.Value, true
	}

	decimal, ok := AmericanToDecimal(float64(american.Value))
	if !ok {
		return 0, false
	}

	boosted, ok := BoostDecimal(decimal, boost)
	if !ok {
		return 0, false
	}

	return DecimalToAmerican(boosted)
}
