package app

import (
	"errors"
	"fmt"

	"shopping-list/internal/recipe"
)

// SampleRecipeName is the recipe written by SeedSample.
const SampleRecipeName = "Sante Fe Pork Tacos"

// SampleRecipe returns a complete recipe for a new recipe directory.
func SampleRecipe() recipe.Recipe {
	ing := func(name string, qty float64, unit recipe.Unit) recipe.Ingredient {
		return recipe.Ingredient{Name: name, Measure: recipe.Measure{Quantity: qty, Unit: unit}}
	}
	return recipe.Recipe{
		Name: SampleRecipeName,
		Ingredients: []recipe.Ingredient{
			ing("Yellow Onion", 1, recipe.Whole),
			ing("Cilantro", 0.25, recipe.Ounce),
			ing("Lime", 1, recipe.Whole),
			ing("Ground Pork", 10, recipe.Ounce),
			ing("Southwest Spice Blend", 1, recipe.Tablespoon),
			ing("Red Cabbage", 4, recipe.Ounce),
			ing("Mayonnaise", 2, recipe.Tablespoon),
			ing("Tex Mex Paste", 1, recipe.Whole),
			ing("Tortillas", 6, recipe.Whole),
			ing("Monterey Jack, Shredded", 0.25, recipe.Cup),
			ing("Sour Cream", 1.5, recipe.Tablespoon),
		},
		Tags: []recipe.Tag{
			{Kind: recipe.TagMeat, Value: "Pork"},
			{Kind: recipe.TagCulture, Value: "Mexican"},
			{Kind: recipe.TagMealType, Value: recipe.Lunch},
			{Kind: recipe.TagMealType, Value: recipe.Dinner},
			{Kind: recipe.TagPrepType, Value: recipe.Stovetop},
		},
	}
}

// SeedSample writes the sample recipe to the store unless a recipe of that
// name is already there, and adds it to the catalogue. It reports whether a
// file was written.
func (a *App) SeedSample() (bool, error) {
	err := a.SaveRecipe(SampleRecipe())
	if errors.Is(err, ErrDuplicateRecipe) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to save sample recipe: %w", err)
	}
	return true, nil
}
