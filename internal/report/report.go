// Package report renders an evaluation as the plain-text results block
// users paste into chats and notes.
package report

import (
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
	"github.com/shopspring/decimal"
)

// Title is the first line of every report
const Title = "EV Parlay Builder Results"

// Build renders the results text for one evaluation
func Build(resp models.EvaluateResponse) string {
	s := resp.Settings
	lines := []string{
		Title,
		"Mode: " + modeLabel(s.OddsMode),
		"Fair odds: " + sourceLabel(s.FairSource),
		"Stake: " + oddsmath.FormatMoney(oddsmath.Some(s.Stake)),
		"Assumed vig when Sharp B missing: " + fixed2(s.AssumedVigPct) + "%",
	}
	if s.BoostPct > 0 {
		lines = append(lines, "Boost: "+fixed2(s.BoostPct)+"% (profit portion)")
	}

	lines = append(lines,
		"",
		"True Parlay Probability: "+oddsmath.FormatPercent(optional(resp.TrueParlayProb)),
		"Fair Parlay Odds: "+oddsmath.FormatAmerican(optionalInt(resp.FairParlayAmerican)),
		"Your Parlay Odds: "+oddsmath.FormatAmerican(optionalInt(resp.OfferedAmerican)),
		"Boosted Parlay Odds: "+oddsmath.FormatAmerican(optionalInt(resp.BoostedAmerican)),
		"Break-even Probability: "+oddsmath.FormatPercent(optional(resp.BreakEvenProb)),
		"EV $: "+oddsmath.FormatMoney(optional(resp.EVDollars)),
		"EV %: "+oddsmath.FormatPercent(optional(resp.EVPct)),
		"Status: "+string(resp.Status),
	)

	return strings.Join(lines, "\n")
}

// Legs renders one line per leg: label, fair probability, fair price and method
func Legs(resp models.EvaluateResponse) string {
	lines := make([]string, 0, len(resp.PerLeg))
	for i, leg := range resp.PerLeg {
		label := leg.Label
		if label == "" {
			label = "Leg " + strconv.Itoa(i+1)
		}

		line := label + ": " +
			oddsmath.FormatPercent(optional(leg.TrueProb)) + " " +
			oddsmath.FormatAmerican(optionalInt(leg.FairAmerican))
		if leg.Method != "" {
			line += " (" + leg.Method + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func modeLabel(mode models.OddsMode) string {
	if mode == models.OddsModeTotal {
		return "Total parlay odds"
	}
	return "Per-leg your odds"
}

func sourceLabel(source models.FairSource) string {
	if source == models.FairSourceManual {
		return "Manual fair odds"
	}
	return "Sharp devig"
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func optional(p *float64) oddsmath.Optional {
	if p == nil {
		return oddsmath.Optional{}
	}
	return oddsmath.Some(*p)
}

func optionalInt(p *int) oddsmath.OptionalInt {
	if p == nil {
		return oddsmath.OptionalInt{}
	}
	return oddsmath.SomeInt(*p)
}
