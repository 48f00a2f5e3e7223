package recipe

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// teaspoonStepError is the factor lost each time a conversion crosses the
// Teaspoon/Tablespoon step (3 * 0.33).
const teaspoonStepError = 0.99

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func crossesTeaspoonStep(a, b Unit) bool {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo <= Teaspoon && hi >= Tablespoon
}

func TestConvertTo(t *testing.T) {
	tests := []struct {
		name   string
		in     Measure
		target Unit
		want   Measure
	}{
		{"SameUnit", Measure{2, Cup}, Cup, Measure{2, Cup}},
		{"OunceToCup", Measure{4, Ounce}, Cup, Measure{0.5, Cup}},
		{"CupToOunce", Measure{1, Cup}, Ounce, Measure{8, Ounce}},
		{"PinchToTeaspoon", Measure{4, Pinch}, Teaspoon, Measure{1, Teaspoon}},
		{"TeaspoonToTablespoon", Measure{3, Teaspoon}, Tablespoon, Measure{0.99, Tablespoon}},
		{"TablespoonToTeaspoon", Measure{1, Tablespoon}, Teaspoon, Measure{3, Teaspoon}},
		{"CupToPinch", Measure{1, Cup}, Pinch, Measure{192, Pinch}},
		{"PinchToCup", Measure{192, Pinch}, Cup, Measure{192 * 0.25 * 0.33 * 0.5 * 0.125, Cup}},
		{"TablespoonToCup", Measure{16, Tablespoon}, Cup, Measure{1, Cup}},
		{"NegativeQuantity", Measure{-2, Tablespoon}, Ounce, Measure{-1, Ounce}},
		{"ZeroQuantity", Measure{0, Cup}, Teaspoon, Measure{0, Teaspoon}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ConvertTo(tt.target)
			if got.Unit != tt.want.Unit {
				t.Fatalf("Expected unit %s, got %s", tt.want.Unit, got.Unit)
			}
			if !approxEqual(got.Quantity, tt.want.Quantity) {
				t.Errorf("Expected quantity %v, got %v", tt.want.Quantity, got.Quantity)
			}
		})
	}
}

func TestConvertToWholeIsInvariant(t *testing.T) {
	for _, target := range Units() {
		t.Run("WholeTo"+target.String(), func(t *testing.T) {
			in := Measure{Quantity: 3, Unit: Whole}
			if got := in.ConvertTo(target); got != in {
				t.Errorf("Expected %v to be unchanged, got %v", in, got)
			}
		})
		t.Run(target.String()+"ToWhole", func(t *testing.T) {
			in := Measure{Quantity: 3, Unit: target}
			if got := in.ConvertTo(Whole); got != in {
				t.Errorf("Expected %v to be unchanged, got %v", in, got)
			}
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	lattice := []Unit{Pinch, Teaspoon, Tablespoon, Ounce, Cup}
	const qty = 7.5

	for _, from := range lattice {
		for _, to := range lattice {
			from, to := from, to
			t.Run(from.String()+"Via"+to.String(), func(t *testing.T) {
				back := Measure{Quantity: qty, Unit: from}.ConvertTo(to).ConvertTo(from)
				if back.Unit != from {
					t.Fatalf("Expected unit %s after round trip, got %s", from, back.Unit)
				}

				want := qty
				if crossesTeaspoonStep(from, to) {
					want = qty * teaspoonStepError
				}
				if !approxEqual(back.Quantity, want) {
					t.Errorf("Expected %v after round trip, got %v", want, back.Quantity)
				}
				if math.Abs(back.Quantity-qty) > qty*(1-teaspoonStepError)+tolerance {
					t.Errorf("Round trip error %v exceeds the teaspoon rounding bound", math.Abs(back.Quantity-qty))
				}
			})
		}
	}
}

func TestAdd(t *testing.T) {
	t.Run("LeftUnitWins", func(t *testing.T) {
		got := Measure{1, Cup}.Add(Measure{4, Ounce})
		if got.Unit != Cup || !approxEqual(got.Quantity, 1.5) {
			t.Errorf("Expected {1.5 Cups}, got %v", got)
		}
	})

	t.Run("SwappedOperandsChangeResult", func(t *testing.T) {
		got := Measure{4, Ounce}.Add(Measure{1, Cup})
		if got.Unit != Ounce || !approxEqual(got.Quantity, 12) {
			t.Errorf("Expected {12 Ounces}, got %v", got)
		}
	})

	t.Run("SameUnit", func(t *testing.T) {
		got := Measure{1, Teaspoon}.Add(Measure{2, Teaspoon})
		if got != (Measure{3, Teaspoon}) {
			t.Errorf("Expected {3 Teaspoons}, got %v", got)
		}
	})

	t.Run("WholeOnLeftSumsDirectly", func(t *testing.T) {
		got := Measure{1, Whole}.Add(Measure{2, Cup})
		if got != (Measure{3, Whole}) {
			t.Errorf("Expected {3 Whole}, got %v", got)
		}
	})

	t.Run("WholeOnRightSumsDirectly", func(t *testing.T) {
		got := Measure{2, Cup}.Add(Measure{1, Whole})
		if got != (Measure{3, Cup}) {
			t.Errorf("Expected {3 Cups}, got %v", got)
		}
	})

	t.Run("NegativePassesThrough", func(t *testing.T) {
		got := Measure{1, Ounce}.Add(Measure{-2, Tablespoon})
		if got.Unit != Ounce || !approxEqual(got.Quantity, 0) {
			t.Errorf("Expected {0 Ounces}, got %v", got)
		}
	})
}
