package calculator

import (
	"math"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
)

// MaxStake caps the stake against fat-fingered input
const MaxStake = 1_000_000.0

// settings are the parlay-level inputs after clamping
type settings struct {
	mode       models.OddsMode
	source     models.FairSource
	assumedVig float64 // fraction, 0..0.25
	boost      float64 // fraction, 0..10
	stake      float64 // 0..MaxStake
	policy     oddsmath.VigPolicy

	// As entered, after clamping
	assumedVigPct float64
	boostPct      float64
}

// resolveSettings clamps every setting into its valid range
func (c *Calculator) resolveSettings(req models.EvaluateRequest) settings {
	policy := c.defaultPolicy
	if req.VigPolicy != "" {
		policy = oddsmath.ParseVigPolicy(req.VigPolicy)
	}

	vigPct := oddsmath.Clamp(finiteOr(req.AssumedVigPct.Float(), models.DefaultAssumedVigPct), 0, oddsmath.MaxAssumedVig*100.0)
	boostPct := oddsmath.Clamp(finiteOr(req.BoostPct.Float(), 0), 0, oddsmath.MaxBoost*100.0)

	return settings{
		mode:          req.OddsMode.Normalize(),
		source:        req.FairSource.Normalize(),
		assumedVig:    vigPct / 100.0,
		boost:         boostPct / 100.0,
		stake:         oddsmath.Clamp(finiteOr(req.Stake.Float(), models.DefaultStake), 0, MaxStake),
		policy:        policy,
		assumedVigPct: vigPct,
		boostPct:      boostPct,
	}
}

// manualTotal reports whether one total fair price replaces every leg
func (s settings) manualTotal() bool {
	return s.source == models.FairSourceManual && s.mode == models.OddsModeTotal
}

// applied reports the settings in the units the request uses
func (s settings) applied() models.AppliedSettings {
	return models.AppliedSettings{
		OddsMode:      s.mode,
		FairSource:    s.source,
		AssumedVigPct: s.assumedVigPct,
		BoostPct:      s.boostPct,
		Stake:         s.stake,
		VigPolicy:     string(s.policy),
	}
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
