package oddsmath

import (
	"fmt"
	"strings"
)

// MaxAssumedVig caps the vig assumed for one-sided markets (25%)
const MaxAssumedVig = 0.25

// VigPolicy selects how a one-sided price is devigged when the opposing side
// is unknown.
type VigPolicy string

const (
	// VigPolicyDivide scales implied probability by 1/(1+vig)
	VigPolicyDivide VigPolicy = "DIVIDE"
	// VigPolicyMultiply scales implied probability by (1-vig)
	VigPolicyMultiply VigPolicy = "MULTIPLY"
)

// ParseVigPolicy maps user text onto a policy, falling back to VigPolicyDivide
func ParseVigPolicy(s string) VigPolicy {
	switch VigPolicy(strings.ToUpper(strings.TrimSpace(s))) {
	case VigPolicyMultiply:
		return VigPolicyMultiply
	default:
		return VigPolicyDivide
	}
}

// DevigMethod tags how a fair probability was obtained. Display only.
type DevigMethod string

const (
	MethodNone     DevigMethod = ""
	MethodTwoSided DevigMethod = "two-sided"
	MethodManual   DevigMethod = "manual fair odds"
)

// AssumedVigMethod builds the tag for a one-sided devig
func AssumedVigMethod(vig float64) DevigMethod {
	return DevigMethod(fmt.Sprintf("assumed vig %.1f%%", vig*100.0))
}

// DevigResult is the outcome of removing margin from one market
type DevigResult struct {
	Probability  float64
	Valid        bool
	Method       DevigMethod
	MarketVigPct float64 // Overround of a two-sided market, 0 otherwise
}

// Devig estimates the true probability of side A.
//
// Both sides priced: the two implied probabilities are normalized so they
// sum to 1 (multiplicative devig).
// Only side A priced: the assumed vig is removed using policy.
// Side A missing: no result.
//
// Example:
// Side A: -110 (52.38% implied) | Side B: +100 (50.00% implied)
// Fair A: 0.5238 / 1.0238 = 51.16%
func Devig(sideA, sideB Optional, assumedVig float64, policy VigPolicy) DevigResult {
	vig := Clamp(assumedVig, 0, MaxAssumedVig)

	var pA, pB float64
	okA, okB := false, false
	if sideA.Valid {
		pA, okA = AmericanToProbability(sideA.Value)
	}
	if sideB.Valid {
		pB, okB = AmericanToProbability(sideB.Value)
	}

	if okA && okB {
		fair, _, ok := RemoveVigMultiplicative(pA, pB)
		if !ok {
			return DevigResult{}
		}

		vigPct, _ := CalculateVigPercentage([]float64{pA, pB})
		return DevigResult{
			Probability:  ClampProbability(fair),
			Valid:        true,
			Method:       MethodTwoSided,
			MarketVigPct: vigPct,
		}
	}

	if okA {
		return DevigResult{
			Probability: ClampProbability(RemoveVigOneSided(pA, vig, policy)),
			Valid:       true,
			Method:      AssumedVigMethod(vig),
		}
	}

	return DevigResult{}
}

// RemoveVigMultiplicative normalizes a two-way market so both sides sum to 1.0
//
// Formula:
// 1. totalProb = prob1 + prob2 (typically > 1.0)
// 2. fairProb1 = prob1 / totalProb, fairProb2 = prob2 / totalProb
//
// Example:
// Side A: -110 (52.38% implied) | Side B: -110 (52.38% implied)
// Overround: 104.76% (4.76% vig)
// Fair: 50% / 50%
func RemoveVigMultiplicative(prob1, prob2 float64) (fair1, fair2 float64, ok bool) {
	if !isFinite(prob1) || !isFinite(prob2) {
		return 0, 0, false
	}

	totalProb := prob1 + prob2
	if totalProb <= 0 {
		return 0, 0, false
	}

	return prob1 / totalProb, prob2 / totalProb, true
}

// RemoveVigOneSided strips an assumed vig from a single implied probability
func RemoveVigOneSided(implied, vig float64, policy VigPolicy) float64 {
	if policy == VigPolicyMultiply {
		return implied * (1.0 - vig)
	}
	return implied / (1.0 + vig)
}

// CalculateVigPercentage calculates the vig (overround) percentage in a market
// Vig% = (TotalProb - 1.0) * 100
//
// Example:
// Outcome A: 52.38% | Outcome B: 52.38%
// Total: 104.76%
// Vig: 4.76%
func CalculateVigPercentage(probabilities []float64) (float64, bool) {
	if len(probabilities) == 0 {
		return 0, false
	}

	totalProb := 0.0
	for _, prob := range probabilities {
		if !validProbability(prob) {
			return 0, false
		}
		totalProb += prob
	}

	if totalProb <= 1.0 {
		return 0, true
	}

	return (totalProb - 1.0) * 100.0, true
}
