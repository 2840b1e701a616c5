package oddsmath_test

import (
	"math"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
)

func TestApplyBoost(t *testing.T) {
	tests := []struct {
		name    string
		offered int
		boost   float64
		want    int
	}{
		{"No boost keeps price", 300, 0, 300},
		{"No boost keeps odd price", 50, 0, 50},
		{"20% on +300", 300, 0.20, 360},
		{"50% on +100", 100, 0.50, 150},
		{"25% on -200", -200, 0.25, -160},
		{"Boost capped at 10x", 100, 50, 1100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := oddsmath.ApplyBoost(oddsmath.SomeInt(tt.offered), tt.boost)
			if !ok {
				t.Fatal("expected a boosted price")
			}

			if got != tt.want {
				t.Errorf("ApplyBoost(%d, %v) = %d, want %d", tt.offered, tt.boost, got, tt.want)
			}
		})
	}

	t.Run("absent price stays absent", func(t *testing.T) {
		if _, ok := oddsmath.ApplyBoost(oddsmath.OptionalInt{}, 0.2); ok {
			t.Error("expected absent")
		}
	})

	t.Run("boost past integer prices is absent", func(t *testing.T) {
		if got, ok := oddsmath.ApplyBoost(oddsmath.SomeInt(999_999_999), 10); ok {
			t.Errorf("ApplyBoost = %d, expected absent", got)
		}
	})
}

func TestProperty_BoostIncreasesDecimal(t *testing.T) {
	property := func(price uint16, boostBasisPoints uint16) bool {
		decimal := 1.01 + float64(price)/1000.0
		boost := float64(boostBasisPoints%10000+1) / 10000.0

		boosted, ok := oddsmath.BoostDecimal(decimal, boost)
		return ok && boosted > decimal
	}

	cfg := &quick.Config{MaxCount: 1000, Rand: rand.New(rand.NewSource(3))}
	if err := quick.Check(property, cfg); err != nil {
		t.Error(err)
	}

	unchanged, _ := oddsmath.BoostDecimal(3.5, 0)
	if unchanged != 3.5 {
		t.Errorf("zero boost changed decimal to %v", unchanged)
	}
}

func TestEvaluateEV(t *testing.T) {
	t.Run("two-leg parlay at +341", func(t *testing.T) {
		res := oddsmath.EvaluateEV(oddsmath.Some(0.3025), oddsmath.SomeInt(341), 10)

		if res.Status != oddsmath.StatusPositive {
			t.Errorf("status = %s, want +EV", res.Status)
		}
		if math.Abs(res.EVPercent.Value-0.334025) > 1e-9 {
			t.Errorf("EV%% = %v, want 0.334025", res.EVPercent.Value)
		}
		if math.Abs(res.EVDollars.Value-3.34025) > 1e-9 {
			t.Errorf("EV$ = %v, want 3.34025", res.EVDollars.Value)
		}
		if math.Abs(res.BreakEvenProbability.Value-1/4.41) > 1e-12 {
			t.Errorf("break-even = %v, want %v", res.BreakEvenProbability.Value, 1/4.41)
		}
	})

	t.Run("even money at a fair coin is neutral", func(t *testing.T) {
		res := oddsmath.EvaluateEV(oddsmath.Some(0.5), oddsmath.SomeInt(100), 10)
		if res.Status != oddsmath.StatusNeutral {
			t.Errorf("status = %s, want Neutral", res.Status)
		}
		if res.EVDollars.Value != 0 {
			t.Errorf("EV$ = %v, want 0", res.EVDollars.Value)
		}
	})

	t.Run("+300 at 25% is neutral", func(t *testing.T) {
		res := oddsmath.EvaluateEV(oddsmath.Some(0.25), oddsmath.SomeInt(300), 10)
		if res.Status != oddsmath.StatusNeutral {
			t.Errorf("status = %s, want Neutral", res.Status)
		}
	})

	t.Run("zero stake leaves EV% undefined", func(t *testing.T) {
		res := oddsmath.EvaluateEV(oddsmath.Some(0.6), oddsmath.SomeInt(100), 0)
		if !res.EVDollars.Valid || res.EVDollars.Value != 0 {
			t.Errorf("EV$ = %+v, want 0", res.EVDollars)
		}
		if res.EVPercent.Valid {
			t.Error("expected EV% to be absent")
		}
		if res.Status != oddsmath.StatusInsufficient {
			t.Errorf("status = %s, want insufficient input", res.Status)
		}
	})

	t.Run("missing true probability keeps break-even", func(t *testing.T) {
		res := oddsmath.EvaluateEV(oddsmath.Optional{}, oddsmath.SomeInt(-110), 10)
		if !res.BreakEvenProbability.Valid {
			t.Error("expected break-even probability")
		}
		if res.EVDollars.Valid || res.EVPercent.Valid {
			t.Error("expected EV to be absent")
		}
		if res.Status != oddsmath.StatusInsufficient {
			t.Errorf("status = %s", res.Status)
		}
	})

	t.Run("missing price", func(t *testing.T) {
		res := oddsmath.EvaluateEV(oddsmath.Some(0.5), oddsmath.OptionalInt{}, 10)
		if res.BreakEvenProbability.Valid || res.EVDollars.Valid {
			t.Error("expected every value to be absent")
		}
	})
}

// EV sign follows true probability against break-even probability.
func TestProperty_EVSign(t *testing.T) {
	property := func(priceSeed uint16, probSeed uint32) bool {
		american := 100 + int(priceSeed%4900)
		if priceSeed%2 == 0 {
			american = -american
		}
		p := 0.0001 + 0.9998*float64(probSeed)/float64(math.MaxUint32)

		res := oddsmath.EvaluateEV(oddsmath.Some(p), oddsmath.SomeInt(american), 25)
		breakEven := res.BreakEvenProbability.Value

		switch {
		case p > breakEven+1e-12:
			return res.Status == oddsmath.StatusPositive
		case p < breakEven-1e-12:
			return res.Status == oddsmath.StatusNegative
		default:
			return true
		}
	}

	cfg := &quick.Config{MaxCount: 2000, Rand: rand.New(rand.NewSource(5))}
	if err := quick.Check(property, cfg); err != nil {
		t.Error(err)
	}
}

func TestCalculateEdge(t *testing.T) {
	implied, _ := oddsmath.AmericanToProbability(110)
	edge, ok := oddsmath.CalculateEdge(0.50, implied)
	if !ok {
		t.Fatal("expected an edge")
	}
	if math.Abs(edge-0.05) > 1e-12 {
		t.Errorf("edge = %v, want 0.05", edge)
	}

	res := oddsmath.EvaluateEV(oddsmath.Some(0.50), oddsmath.SomeInt(110), 1)
	if math.Abs(res.EVPercent.Value-edge) > 1e-12 {
		t.Errorf("EV%% %v should equal edge %v", res.EVPercent.Value, edge)
	}
}

func TestClassifyEV(t *testing.T) {
	tests := []struct {
		in   oddsmath.Optional
		want oddsmath.Status
	}{
		{oddsmath.Some(0.01), oddsmath.StatusPositive},
		{oddsmath.Some(-0.01), oddsmath.StatusNegative},
		{oddsmath.Some(0), oddsmath.StatusNeutral},
		{oddsmath.Optional{}, oddsmath.StatusInsufficient},
	}

	for _, tt := range tests {
		if got := oddsmath.ClassifyEV(tt.in); got != tt.want {
			t.Errorf("ClassifyEV(%+v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
