package oddsmath_test

import (
	"math"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"Positive odds +100", 100, 2.0},
		{"Positive odds +150", 150, 2.5},
		{"Positive odds +200", 200, 3.0},
		{"Negative odds -110", -110, 1.909090909},
		{"Negative odds -150", -150, 1.666666667},
		{"Negative odds -200", -200, 1.5},
		{"Negative odds -100", -100, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := oddsmath.AmericanToDecimal(tt.american)
			if !ok {
				t.Fatalf("AmericanToDecimal(%v) returned absent", tt.american)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%v) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    int
	}{
		{"Even odds 2.0", 2.0, 100},
		{"Underdog 2.5", 2.5, 150},
		{"Underdog 3.0", 3.0, 200},
		{"Parlay 4.41", 4.41, 341},
		{"Favorite 1.5", 1.5, -200},
		{"Favorite 1.909", 1.909, -110},
		{"Favorite 1.667", 1.667, -150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := oddsmath.DecimalToAmerican(tt.decimal)
			if !ok {
				t.Fatalf("DecimalToAmerican(%f) returned absent", tt.decimal)
			}

			if got != tt.want {
				t.Errorf("DecimalToAmerican(%f) = %d, want %d", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestAmericanToProbability(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"Even odds +100", 100, 0.50},
		{"Favorite -110", -110, 0.5238},
		{"Heavy favorite -200", -200, 0.6667},
		{"Favorite -150", -150, 0.60},
		{"Underdog +150", 150, 0.40},
		{"Heavy underdog +300", 300, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := oddsmath.AmericanToProbability(tt.american)
			if !ok {
				t.Fatalf("AmericanToProbability(%v) returned absent", tt.american)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToProbability(%v) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestProbabilityToAmerican(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		want        int
	}{
		{"Coin flip resolves to favorite", 0.50, -100},
		{"Just under half", 0.4999999, 100},
		{"52.38% (-110)", 110.0 / 210.0, -110},
		{"60% (-150)", 0.60, -150},
		{"40% (+150)", 0.40, 150},
		{"25% (+300)", 0.25, 300},
		{"Two-sided fair -110/+100", 0.5116279, -105},
		{"Assumed vig -150 at 7%", 0.6 / 1.07, -128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := oddsmath.ProbabilityToAmerican(tt.probability)
			if !ok {
				t.Fatalf("ProbabilityToAmerican(%f) returned absent", tt.probability)
			}

			if got != tt.want {
				t.Errorf("ProbabilityToAmerican(%f) = %d, want %d", tt.probability, got, tt.want)
			}
		})
	}
}

func TestInvalidInputs(t *testing.T) {
	t.Run("AmericanToDecimal zero", func(t *testing.T) {
		if _, ok := oddsmath.AmericanToDecimal(0); ok {
			t.Error("expected absent for zero American odds")
		}
	})

	t.Run("AmericanToProbability non-finite", func(t *testing.T) {
		if _, ok := oddsmath.AmericanToProbability(math.NaN()); ok {
			t.Error("expected absent for NaN")
		}
		if _, ok := oddsmath.AmericanToProbability(math.Inf(1)); ok {
			t.Error("expected absent for +Inf")
		}
	})

	t.Run("DecimalToAmerican at or below 1", func(t *testing.T) {
		for _, d := range []float64{1.0, 0.5, 0, -2, math.Inf(1)} {
			if _, ok := oddsmath.DecimalToAmerican(d); ok {
				t.Errorf("expected absent for decimal %v", d)
			}
		}
	})

	t.Run("DecimalToAmerican beyond integer prices", func(t *testing.T) {
		for _, d := range []float64{1e21, 1e7 + 1, 1 + 1e-9, math.MaxFloat64} {
			if got, ok := oddsmath.DecimalToAmerican(d); ok {
				t.Errorf("DecimalToAmerican(%v) = %d, expected absent", d, got)
			}
		}
	})

	t.Run("ProbabilityToAmerican beyond integer prices", func(t *testing.T) {
		for _, p := range []float64{1e-12, 1 - 1e-12} {
			if got, ok := oddsmath.ProbabilityToAmerican(p); ok {
				t.Errorf("ProbabilityToAmerican(%v) = %d, expected absent", p, got)
			}
		}
	})

	t.Run("ProbabilityToAmerican out of range", func(t *testing.T) {
		for _, p := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
			if _, ok := oddsmath.ProbabilityToAmerican(p); ok {
				t.Errorf("expected absent for probability %v", p)
			}
		}
	})
}

// Every canonical American price survives American → decimal → American.
func TestRoundTrip_AmericanDecimal(t *testing.T) {
	for a := 100; a <= 5000; a++ {
		for _, american := range []int{a, -a} {
			decimal, ok := oddsmath.AmericanToDecimal(float64(american))
			if !ok {
				t.Fatalf("AmericanToDecimal(%d) returned absent", american)
			}

			got, ok := oddsmath.DecimalToAmerican(decimal)
			if !ok {
				t.Fatalf("DecimalToAmerican(%f) returned absent", decimal)
			}

			// -100 and +100 are both decimal 2.0; decimal conversion reads even money as +100.
			if american == -100 {
				american = 100
			}

			if got != american {
				t.Fatalf("round trip: %d -> %f -> %d", american, decimal, got)
			}
		}
	}
}

// American → probability → American may drift by one at conversion
// boundaries; it must never drift further.
func TestRoundTrip_AmericanProbability(t *testing.T) {
	drifted := 0
	for a := 100; a <= 5000; a++ {
		for _, american := range []int{a, -a} {
			p, ok := oddsmath.AmericanToProbability(float64(american))
			if !ok {
				t.Fatalf("AmericanToProbability(%d) returned absent", american)
			}

			got, ok := oddsmath.ProbabilityToAmerican(p)
			if !ok {
				t.Fatalf("ProbabilityToAmerican(%f) returned absent", p)
			}

			// +100 and -100 are the same price; the favorite branch wins the tie.
			if american == 100 {
				american = -100
			}

			diff := got - american
			if diff < -1 || diff > 1 {
				t.Fatalf("round trip: %d -> %f -> %d", american, p, got)
			}
			if diff != 0 {
				drifted++
			}
		}
	}
	t.Logf("%d prices drifted by one", drifted)
}

func TestProperty_ProbabilityRoundTrip(t *testing.T) {
	property := func(seed uint32) bool {
		p := 0.001 + 0.998*float64(seed)/float64(math.MaxUint32)

		american, ok := oddsmath.ProbabilityToAmerican(p)
		if !ok {
			return false
		}

		back, ok := oddsmath.AmericanToProbability(float64(american))
		if !ok {
			return false
		}

		// Rounding to the nearest integer price moves the price by at most 0.5.
		lo, _ := oddsmath.AmericanToProbability(float64(american) - 0.5)
		hi, _ := oddsmath.AmericanToProbability(float64(american) + 0.5)
		tolerance := math.Abs(hi-lo) + 1e-9

		return math.Abs(back-p) <= tolerance
	}

	cfg := &quick.Config{MaxCount: 2000, Rand: rand.New(rand.NewSource(7))}
	if err := quick.Check(property, cfg); err != nil {
		t.Error(err)
	}
}

func TestClampProbability(t *testing.T) {
	if got := oddsmath.ClampProbability(0); got != oddsmath.Epsilon {
		t.Errorf("ClampProbability(0) = %v, want %v", got, oddsmath.Epsilon)
	}
	if got := oddsmath.ClampProbability(1); got != 1-oddsmath.Epsilon {
		t.Errorf("ClampProbability(1) = %v, want %v", got, 1-oddsmath.Epsilon)
	}
	if got := oddsmath.ClampProbability(0.42); got != 0.42 {
		t.Errorf("ClampProbability(0.42) = %v, want 0.42", got)
	}
}
