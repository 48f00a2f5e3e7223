package recipe

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Recipe is a named list of ingredients, as written by the recipe editor.
type Recipe struct {
	Name        string       `json:"name" toml:"name"`
	Ingredients []Ingredient `json:"ingredients" toml:"ingredients"`
	Tags        []Tag        `json:"tags,omitempty" toml:"tags,omitempty"`
}

// Ingredient is a single line of a recipe. Names are compared exactly, so
// "Lime" and "lime" are different ingredients.
type Ingredient struct {
	Name    string  `json:"name" toml:"name"`
	Measure Measure `json:"measure" toml:"measure"`
}

// ErrInvalidRecipe is wrapped by Validate failures.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Validate checks the fields a recipe needs to be stored and selected.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidRecipe)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("%w: ingredient %d of %q has no name", ErrInvalidRecipe, i+1, r.Name)
		}
		if !ing.Measure.Unit.Valid() {
			return fmt.Errorf("%w: ingredient %q of %q has an invalid unit", ErrInvalidRecipe, ing.Name, r.Name)
		}
		if q := ing.Measure.Quantity; math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("%w: ingredient %q of %q has quantity %v", ErrInvalidRecipe, ing.Name, r.Name, q)
		}
	}
	return nil
}

// HasTag reports whether the recipe carries the given tag.
func (r Recipe) HasTag(tag Tag) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
