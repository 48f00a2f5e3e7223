package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a unit of measure used by recipe ingredients.
//
// Pinch through Cup form a strict total order by physical scale. Whole counts
// indivisible items (a lime, two potatoes) and sits outside that order: it
// never converts to or from any other unit.
type Unit int

const (
	// Pinch is used for "and a pinch of salt" ingredients, not enough for a teaspoon.
	Pinch Unit = iota
	Teaspoon
	Tablespoon
	Ounce
	Cup
	// Whole is a count of items rather than a measured amount.
	Whole
)

// ErrUnknownUnit is returned when a unit name cannot be parsed.
var ErrUnknownUnit = errors.New("unknown unit")

// step is a single move along the conversion lattice.
type step struct {
	multiplier float64
	next       Unit
}

// nextBiggest converts one unit up to the next larger one.
// 3 teaspoons make a tablespoon, but 0.33 is kept on purpose rather than 1/3.
var nextBiggest = [...]step{
	Pinch:      {0.25, Teaspoon},
	Teaspoon:   {0.33, Tablespoon},
	Tablespoon: {0.5, Ounce},
	Ounce:      {0.125, Cup},
	Cup:        {1, Cup},
	Whole:      {1, Whole},
}

// nextSmallest converts one unit down to the next smaller one.
var nextSmallest = [...]step{
	Cup:        {8, Ounce},
	Ounce:      {2, Tablespoon},
	Tablespoon: {3, Teaspoon},
	Teaspoon:   {4, Pinch},
	Pinch:      {1, Pinch},
	Whole:      {1, Whole},
}

var unitNames = [...]string{
	Pinch:      "Pinch",
	Teaspoon:   "Teaspoons",
	Tablespoon: "Tablespoons",
	Ounce:      "Ounces",
	Cup:        "Cups",
	Whole:      "Whole",
}

var unitAliases = map[string]Unit{
	"pinch":       Pinch,
	"pinches":     Pinch,
	"teaspoon":    Teaspoon,
	"teaspoons":   Teaspoon,
	"tsp":         Teaspoon,
	"tsps":        Teaspoon,
	"tablespoon":  Tablespoon,
	"tablespoons": Tablespoon,
	"tbsp":        Tablespoon,
	"tbsps":       Tablespoon,
	"tbs":         Tablespoon,
	"ounce":       Ounce,
	"ounces":      Ounce,
	"oz":          Ounce,
	"cup":         Cup,
	"cups":        Cup,
	"whole":       Whole,
}

// Units returns every unit, smallest lattice unit first and Whole last.
func Units() []Unit {
	return []Unit{Pinch, Teaspoon, Tablespoon, Ounce, Cup, Whole}
}

// Valid reports whether u is one of the declared units.
func (u Unit) Valid() bool {
	return u >= Pinch && u <= Whole
}

func (u Unit) String() string {
	if !u.Valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// Compare orders two units by physical scale. It returns -1, 0 or 1 and
// true when both units are comparable. Whole is only comparable to itself.
func (u Unit) Compare(other Unit) (int, bool) {
	if u == other {
		return 0, true
	}
	if u == Whole || other == Whole {
		return 0, false
	}
	if u < other {
		return -1, true
	}
	return 1, true
}

// ParseUnit resolves a unit from its canonical name or a common abbreviation.
// Matching is case-insensitive and ignores a trailing period ("tbsp.").
func ParseUnit(s string) (Unit, error) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if u, ok := unitAliases[key]; ok {
		return u, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// MarshalText encodes the unit using the recipe file names ("Cups", "Pinch").
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownUnit, int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText accepts anything ParseUnit does.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
