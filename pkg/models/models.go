package models

import "github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"

// Defaults applied to settings the user has not filled in
const (
	DefaultAssumedVigPct = 7.0
	DefaultStake         = 10.0
	DefaultBoostPct      = 0.0
)

// OddsMode selects where the offered parlay price comes from
type OddsMode string

const (
	OddsModePerLeg OddsMode = "PER_LEG" // product of each leg's offered price
	OddsModeTotal  OddsMode = "TOTAL"   // one total price for the whole parlay
)

// FairSource selects where each leg's fair probability comes from
type FairSource string

const (
	FairSourceSharp  FairSource = "SHARP"  // devig sharp book prices
	FairSourceManual FairSource = "MANUAL" // user-supplied fair odds
)

// Normalize maps unknown values onto PER_LEG
func (m OddsMode) Normalize() OddsMode {
	if m == OddsModeTotal {
		return OddsModeTotal
	}
	return OddsModePerLeg
}

// Normalize maps unknown values onto SHARP
func (s FairSource) Normalize() FairSource {
	if s == FairSourceManual {
		return FairSourceManual
	}
	return FairSourceSharp
}

// LegInput is one leg of the parlay as entered in the form
type LegInput struct {
	ID       string  `json:"id,omitempty"`
	Label    string  `json:"label,omitempty"` // Display only
	SharpA   RawText `json:"sharpA"`
	SharpB   RawText `json:"sharpB"`   // Opposing side of the same market, optional
	YourOdds RawText `json:"yourOdds"` // Used in PER_LEG mode only
	Fair     RawText `json:"fair"`     // Used with MANUAL fair source only
}

// EvaluateRequest is an immutable snapshot of the form
type EvaluateRequest struct {
	Legs          []LegInput `json:"legs"`
	OddsMode      OddsMode   `json:"oddsMode"`
	FairSource    FairSource `json:"fairSource"`
	TotalOffered  RawText    `json:"totalOffered"`
	TotalFair     RawText    `json:"totalFair"`
	AssumedVigPct Number     `json:"assumedVigPct"`
	BoostPct      Number     `json:"boostPct"`
	Stake         Number     `json:"stake"`
	VigPolicy     string     `json:"vigPolicy,omitempty"` // DIVIDE or MULTIPLY
}

// NewEvaluateRequest returns the form's initial state: two empty legs,
// per-leg odds, sharp devig and default settings.
func NewEvaluateRequest() EvaluateRequest {
	return EvaluateRequest{
		Legs:          []LegInput{{}, {}},
		OddsMode:      OddsModePerLeg,
		FairSource:    FairSourceSharp,
		AssumedVigPct: DefaultAssumedVigPct,
		BoostPct:      DefaultBoostPct,
		Stake:         DefaultStake,
	}
}

// LegResult is the evaluation of one leg
type LegResult struct {
	ID           string   `json:"id,omitempty"`
	Label        string   `json:"label,omitempty"`
	TrueProb     *float64 `json:"trueProb"`
	FairAmerican *int     `json:"fairAmerican"`
	Method       string   `json:"method"`
	MarketVigPct *float64 `json:"marketVigPct,omitempty"` // Two-sided devig only
	EdgePct      *float64 `json:"edgePct,omitempty"`      // Leg fair prob vs leg offered price, PER_LEG only
}

// AppliedSettings echoes the parlay settings after clamping, so callers
// render exactly what was evaluated
type AppliedSettings struct {
	OddsMode      OddsMode   `json:"oddsMode"`
	FairSource    FairSource `json:"fairSource"`
	AssumedVigPct float64    `json:"assumedVigPct"`
	BoostPct      float64    `json:"boostPct"`
	Stake         float64    `json:"stake"`
	VigPolicy     string     `json:"vigPolicy"`
}

// EvaluateResponse is the full report for one snapshot
type EvaluateResponse struct {
	Settings           AppliedSettings `json:"settings"`
	PerLeg             []LegResult     `json:"perLeg"`
	TrueParlayProb     *float64        `json:"trueParlayProb"`
	FairParlayAmerican *int            `json:"fairParlayAmerican"`
	OfferedAmerican    *int            `json:"offeredAmerican"`
	BoostedAmerican    *int            `json:"boostedAmerican"`
	BreakEvenProb      *float64        `json:"breakEvenProb"`
	EVDollars          *float64        `json:"evDollars"`
	EVPct              *float64        `json:"evPct"`
	Status             oddsmath.Status `json:"status"`
}

// FieldHint is a validation message for one form field.
// Leg is the zero-based leg index, nil for parlay-level fields.
type FieldHint struct {
	Field   string `json:"field"`
	Leg     *int   `json:"leg,omitempty"`
	Message string `json:"message"`
}

// Validation messages
const (
	HintRequired    = "required"
	HintInvalidOdds = "enter valid odds"
)
