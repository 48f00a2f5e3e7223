package recipe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNoQuantity is returned when an ingredient line does not start with an amount.
var ErrNoQuantity = errors.New("ingredient line has no quantity")

var vulgarFractions = map[rune]float64{
	'¼': 0.25,
	'½': 0.5,
	'¾': 0.75,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'⅛': 0.125,
}

// ParseIngredientLine reads a free-text line such as "1 1/2 cups of flour",
// "2 tbsp Mayonnaise" or "a pinch of salt". A line whose second word is not a
// known unit is counted in Whole items ("3 limes").
func ParseIngredientLine(line string) (Ingredient, error) {
	fields := strings.Fields(line)
	qty, n := parseQuantity(fields)
	if n == 0 {
		return Ingredient{}, fmt.Errorf("%w: %q", ErrNoQuantity, line)
	}
	fields = fields[n:]

	unit := Whole
	if len(fields) > 1 {
		if u, err := ParseUnit(fields[0]); err == nil {
			unit = u
			fields = fields[1:]
		}
	}
	if len(fields) > 1 && strings.EqualFold(fields[0], "of") {
		fields = fields[1:]
	}

	name := strings.Join(fields, " ")
	if name == "" {
		return Ingredient{}, fmt.Errorf("ingredient line %q has no name", line)
	}
	return Ingredient{Name: name, Measure: Measure{Quantity: qty, Unit: unit}}, nil
}

// parseQuantity returns the leading amount and how many fields it used.
func parseQuantity(fields []string) (float64, int) {
	if len(fields) == 0 {
		return 0, 0
	}
	first := strings.ToLower(fields[0])
	if first == "a" || first == "an" {
		return 1, 1
	}

	whole, ok := parseNumber(fields[0])
	if !ok {
		return 0, 0
	}
	if len(fields) > 1 && isFraction(fields[1]) && !isFraction(fields[0]) {
		if frac, ok := parseNumber(fields[1]); ok && !math.IsInf(whole+frac, 0) {
			return whole + frac, 2
		}
	}
	return whole, 1
}

func isFraction(s string) bool {
	if strings.Contains(s, "/") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	_, ok := vulgarFractions[r]
	return ok && utf8.RuneCountInString(s) == 1
}

// parseNumber reads "2", "1.5", "1/2", "½" or "1½". Only finite amounts
// are accepted.
func parseNumber(s string) (float64, bool) {
	n, ok := parseAmount(s)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	last, size := utf8.DecodeLastRuneInString(s)
	if frac, ok := vulgarFractions[last]; ok {
		head := s[:len(s)-size]
		if head == "" {
			return frac, true
		}
		n, ok := parseFinite(head)
		if !ok {
			return 0, false
		}
		return n + frac, true
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		a, ok := parseFinite(num)
		if !ok {
			return 0, false
		}
		b, ok := parseFinite(den)
		if !ok || b == 0 {
			return 0, false
		}
		return a / b, true
	}

	return parseFinite(s)
}

func parseFinite(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
