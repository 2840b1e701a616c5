package calculator

import (
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
)

// Validate returns field-level hints for the UI. It re-runs the parse
// predicates Evaluate uses, so a field without a hint is one Evaluate reads.
func (c *Calculator) Validate(req models.EvaluateRequest) []models.FieldHint {
	s := c.resolveSettings(req)
	hints := []models.FieldHint{}

	for i, leg := range req.Legs {
		idx := i

		switch {
		case s.manualTotal():
			// Legs play no part in the fair value
		case s.source == models.FairSourceManual:
			hints = appendOddsHint(hints, "fair", &idx, leg.Fair, true)
		default:
			hints = appendOddsHint(hints, "sharpA", &idx, leg.SharpA, true)
			hints = appendOddsHint(hints, "sharpB", &idx, leg.SharpB, false)
		}

		if s.mode == models.OddsModePerLeg {
			hints = appendOddsHint(hints, "yourOdds", &idx, leg.YourOdds, true)
		}
	}

	if s.mode == models.OddsModeTotal {
		if req.TotalOffered.IsBlank() {
			hints = append(hints, models.FieldHint{Field: "totalOffered", Message: models.HintRequired})
		} else if !req.TotalOffered.AmericanInt().Valid {
			hints = append(hints, models.FieldHint{Field: "totalOffered", Message: models.HintInvalidOdds})
		}
	}

	if s.manualTotal() {
		hints = appendOddsHint(hints, "totalFair", nil, req.TotalFair, true)
	}

	return hints
}

func appendOddsHint(hints []models.FieldHint, field string, leg *int, raw models.RawText, required bool) []models.FieldHint {
	if raw.IsBlank() {
		if required {
			hints = append(hints, models.FieldHint{Field: field, Leg: leg, Message: models.HintRequired})
		}
		return hints
	}

	if !raw.American().Valid {
		hints = append(hints, models.FieldHint{Field: field, Leg: leg, Message: models.HintInvalidOdds})
	}
	return hints
}
