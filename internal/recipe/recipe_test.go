package recipe

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestRecipeJSON(t *testing.T) {
	// Shape produced by the recipe editor.
	data := `{
		"name": "Sante Fe Pork Tacos",
		"ingredients": [
			{"name": "Lime", "measure": {"quantity": 1, "unit": "Whole"}},
			{"name": "Cilantro", "measure": {"quantity": 0.25, "unit": "Ounces"}}
		],
		"tags": ["Meat:Pork", "MealType:dinner"]
	}`

	var r Recipe
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatalf("Failed to unmarshal recipe: %v", err)
	}
	if r.Name != "Sante Fe Pork Tacos" {
		t.Errorf("Expected name 'Sante Fe Pork Tacos', got '%s'", r.Name)
	}
	if len(r.Ingredients) != 2 {
		t.Fatalf("Expected 2 ingredients, got %d", len(r.Ingredients))
	}
	if r.Ingredients[1].Measure != (Measure{0.25, Ounce}) {
		t.Errorf("Expected {0.25 Ounces}, got %v", r.Ingredients[1].Measure)
	}
	if !r.HasTag(Tag{Kind: TagMealType, Value: Dinner}) {
		t.Errorf("Expected MealType:Dinner tag, got %v", r.Tags)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Expected valid recipe, got %v", err)
	}
}

func TestRecipeValidate(t *testing.T) {
	t.Run("EmptyName", func(t *testing.T) {
		err := Recipe{Name: " "}.Validate()
		if !errors.Is(err, ErrInvalidRecipe) {
			t.Errorf("Expected ErrInvalidRecipe, got %v", err)
		}
	})

	t.Run("IngredientWithoutName", func(t *testing.T) {
		r := Recipe{Name: "Soup", Ingredients: []Ingredient{{Measure: Measure{1, Cup}}}}
		if err := r.Validate(); !errors.Is(err, ErrInvalidRecipe) {
			t.Errorf("Expected ErrInvalidRecipe, got %v", err)
		}
	})

	t.Run("InvalidUnit", func(t *testing.T) {
		r := Recipe{Name: "Soup", Ingredients: []Ingredient{{Name: "Water", Measure: Measure{1, Unit(42)}}}}
		if err := r.Validate(); !errors.Is(err, ErrInvalidRecipe) {
			t.Errorf("Expected ErrInvalidRecipe, got %v", err)
		}
	})

	t.Run("NonFiniteQuantity", func(t *testing.T) {
		for _, q := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			r := Recipe{Name: "Bread", Ingredients: []Ingredient{{Name: "Flour", Measure: Measure{q, Cup}}}}
			if err := r.Validate(); !errors.Is(err, ErrInvalidRecipe) {
				t.Errorf("Expected ErrInvalidRecipe for quantity %v, got %v", q, err)
			}
		}
	})

	t.Run("NegativeQuantityAllowed", func(t *testing.T) {
		r := Recipe{Name: "Bread", Ingredients: []Ingredient{{Name: "Flour", Measure: Measure{-1, Cup}}}}
		if err := r.Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestParseTag(t *testing.T) {
	tests := map[string]Tag{
		"Meat:Pork":         {TagMeat, "Pork"},
		"culture: Mexican":  {TagCulture, "Mexican"},
		"MealType:lunch":    {TagMealType, Lunch},
		"preptype:STOVETOP": {TagPrepType, Stovetop},
		"Other:Weeknight":   {TagOther, "Weeknight"},
	}
	for in, want := range tests {
		got, err := ParseTag(in)
		if err != nil {
			t.Errorf("ParseTag(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTag(%q): expected %v, got %v", in, want, got)
		}
	}

	for _, bad := range []string{"Pork", "Meat:", "MealType:Brunch", "Spice:Hot"} {
		if _, err := ParseTag(bad); !errors.Is(err, ErrInvalidTag) {
			t.Errorf("ParseTag(%q): expected ErrInvalidTag, got %v", bad, err)
		}
	}
}
