package calculator

import (
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
)

// Calculator evaluates parlay snapshots. It holds no per-request state and
// is safe for concurrent use.
type Calculator struct {
	defaultPolicy oddsmath.VigPolicy
}

// NewCalculator creates a calculator that devigs one-sided legs with
// defaultPolicy unless a request names its own policy
func NewCalculator(defaultPolicy oddsmath.VigPolicy) *Calculator {
	return &Calculator{
		defaultPolicy: oddsmath.ParseVigPolicy(string(defaultPolicy)),
	}
}

// Evaluate computes the full report for one snapshot of the form.
// Malformed fields never fail the evaluation; they leave the values that
// depend on them absent.
func (c *Calculator) Evaluate(req models.EvaluateRequest) models.EvaluateResponse {
	s := c.resolveSettings(req)

	// Per-leg fair values
	perLeg := make([]models.LegResult, len(req.Legs))
	fairProbs := make([]oddsmath.Optional, len(req.Legs))
	offeredPrices := make([]oddsmath.Optional, len(req.Legs))

	for i, leg := range req.Legs {
		fair := c.legFairValue(leg, s)
		fairProbs[i] = oddsmath.FromOK(fair.Probability, fair.Valid)
		offeredPrices[i] = leg.YourOdds.American()

		perLeg[i] = legResult(leg, fair, offeredPrices[i], s)
	}

	// Parlay true probability
	var trueProb oddsmath.Optional
	if s.manualTotal() {
		trueProb = manualProbability(req.TotalFair)
	} else {
		trueProb = oddsmath.FromOK(oddsmath.ParlayProbability(fairProbs))
	}

	var fairParlay oddsmath.OptionalInt
	if trueProb.Valid {
		fairParlay = oddsmath.FromOKInt(oddsmath.ProbabilityToAmerican(trueProb.Value))
	}

	// Offered parlay price
	var offered oddsmath.OptionalInt
	if s.mode == models.OddsModeTotal {
		offered = req.TotalOffered.AmericanInt()
	} else {
		offered = oddsmath.FromOKInt(oddsmath.ParlayAmerican(offeredPrices))
	}

	boosted := oddsmath.FromOKInt(oddsmath.ApplyBoost(offered, s.boost))

	evPrice := offered
	if s.boost > 0 && boosted.Valid {
		evPrice = boosted
	}

	ev := oddsmath.EvaluateEV(trueProb, evPrice, s.stake)

	return models.EvaluateResponse{
		Settings:           s.applied(),
		PerLeg:             perLeg,
		TrueParlayProb:     trueProb.Ptr(),
		FairParlayAmerican: fairParlay.Ptr(),
		OfferedAmerican:    offered.Ptr(),
		BoostedAmerican:    boosted.Ptr(),
		BreakEvenProb:      ev.BreakEvenProbability.Ptr(),
		EVDollars:          ev.EVDollars.Ptr(),
		EVPct:              ev.EVPercent.Ptr(),
		Status:             ev.Status,
	}
}

// legFairValue derives a leg's fair probability along the one path the
// settings select
func (c *Calculator) legFairValue(leg models.LegInput, s settings) oddsmath.DevigResult {
	switch {
	case s.manualTotal():
		return oddsmath.DevigResult{}

	case s.source == models.FairSourceManual:
		p := manualProbability(leg.Fair)
		if !p.Valid {
			return oddsmath.DevigResult{}
		}
		return oddsmath.DevigResult{
			Probability: p.Value,
			Valid:       true,
			Method:      oddsmath.MethodManual,
		}

	default:
		return oddsmath.Devig(leg.SharpA.American(), leg.SharpB.American(), s.assumedVig, s.policy)
	}
}

// manualProbability reads a user-supplied fair price as a probability
func manualProbability(raw models.RawText) oddsmath.Optional {
	price := raw.American()
	if !price.Valid {
		return oddsmath.Optional{}
	}

	p, ok := oddsmath.AmericanToProbability(price.Value)
	if !ok {
		return oddsmath.Optional{}
	}
	return oddsmath.Some(oddsmath.ClampProbability(p))
}

func legResult(leg models.LegInput, fair oddsmath.DevigResult, offered oddsmath.Optional, s settings) models.LegResult {
	res := models.LegResult{
		ID:     leg.ID,
		Label:  leg.Label,
		Method: string(fair.Method),
	}

	if !fair.Valid {
		return res
	}

	res.TrueProb = oddsmath.Some(fair.Probability).Ptr()
	res.FairAmerican = oddsmath.FromOKInt(oddsmath.ProbabilityToAmerican(fair.Probability)).Ptr()

	if fair.Method == oddsmath.MethodTwoSided {
		res.MarketVigPct = oddsmath.Some(fair.MarketVigPct).Ptr()
	}

	if s.mode == models.OddsModePerLeg && offered.Valid {
		if implied, ok := oddsmath.AmericanToProbability(offered.Value); ok {
			if edge, ok := oddsmath.CalculateEdge(fair.Probability, implied); ok {
				res.EdgePct = oddsmath.Some(edge * 100.0).Ptr()
			}
		}
	}

	return res
}
