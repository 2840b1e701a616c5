package oddsmath

// Status classifies an evaluation
type Status string

const (
	StatusPositive     Status = "+EV"
	StatusNegative     Status = "-EV"
	StatusNeutral      Status = "Neutral"
	StatusInsufficient Status = "insufficient input"
)

// EVResult contains the expected value of a bet at an offered price
type EVResult struct {
	BreakEvenProbability Optional // 1 / decimal of the offered price
	EVDollars            Optional // Expected profit per bet in currency
	EVPercent            Optional // EVDollars / stake, as a fraction
	Status               Status
}

// EvaluateEV computes break-even probability, EV and status for a bet of
// stake at offeredAmerican when the true win probability is trueProbability.
//
// EV$ = (P(win) × WinAmount) - (P(lose) × Stake)
//
//	= stake × (P(win) × decimal - 1)
func EvaluateEV(trueProbability Optional, offeredAmerican OptionalInt, stake float64) EVResult {
	result := EVResult{Status: StatusInsufficient}

	if !offeredAmerican.Valid {
		return result
	}
	decimal, ok := AmericanToDecimal(float64(offeredAmerican.Value))
	if !ok {
		return result
	}

	result.BreakEvenProbability = Some(Clamp(1.0/decimal, 0, 1))

	if !trueProbability.Valid || !validProbability(trueProbability.Value) {
		return result
	}

	ev, ok := CalculateEVDollar(stake, decimal, trueProbability.Value)
	if !ok {
		return result
	}
	result.EVDollars = Some(ev)

	if stake > 0 {
		result.EVPercent = Some(ev / stake)
	}
	result.Status = ClassifyEV(result.EVPercent)

	return result
}

// CalculateEVDollar calculates expected value in currency
func CalculateEVDollar(stake, decimal, fairProbability float64) (float64, bool) {
	if !validDecimal(decimal) || !isFinite(stake) || stake < 0 {
		return 0, false
	}

	winAmount := stake * (decimal - 1.0)
	loseProb := 1.0 - fairProbability

	return (fairProbability * winAmount) - (loseProb * stake), true
}

// CalculateEdge calculates the percentage edge of offered odds vs fair probability
// Edge = (Fair Probability / Implied Probability) - 1
//
// Example:
// Fair Probability: 50% (0.50)
// Offered Odds: +110 (47.6% implied)
// Edge: (0.50 / 0.476) - 1 = 0.05 = 5% edge
//
// The edge equals EV per unit staked.
func CalculateEdge(fairProbability, impliedProbability float64) (float64, bool) {
	if !validProbability(fairProbability) || !validProbability(impliedProbability) {
		return 0, false
	}

	return (fairProbability / impliedProbability) - 1.0, true
}

// ClassifyEV maps an EV percentage to a status
func ClassifyEV(evPercent Optional) Status {
	switch {
	case !evPercent.Valid:
		return StatusInsufficient
	case evPercent.Value > 0:
		return StatusPositive
	case evPercent.Value < 0:
		return StatusNegative
	default:
		return StatusNeutral
	}
}
