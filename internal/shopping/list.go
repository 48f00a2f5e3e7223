package shopping

import (
	"sort"

	"shopping-list/internal/recipe"
)

// ShoppingList is the consolidated result of a set of recipes: one measure
// per distinct ingredient name, plus the recipes that asked for it.
//
// A ShoppingList is built once by Generate and never modified afterwards.
type ShoppingList struct {
	ingredients  map[string]recipe.Measure
	associations map[string]map[string]struct{}
}

// Item is one consolidated line of a shopping list.
type Item struct {
	Name    string         `json:"name"`
	Measure recipe.Measure `json:"measure"`
	Recipes []string       `json:"recipes"`
}

// Generate folds the recipes, in order, into a single shopping list.
//
// For each ingredient the running total is kept in the largest unit seen so
// far: a smaller incoming measure is converted down into the entry's unit,
// while a larger one promotes the entry up to the incoming unit. Whole
// quantities are summed as they are and never change the entry's unit.
func Generate(recipes []recipe.Recipe) *ShoppingList {
	l := &ShoppingList{
		ingredients:  make(map[string]recipe.Measure),
		associations: make(map[string]map[string]struct{}),
	}

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			current, ok := l.ingredients[ing.Name]
			if !ok {
				current = recipe.NewMeasure(ing.Measure.Unit)
			}
			l.ingredients[ing.Name] = merge(current, ing.Measure)

			set, ok := l.associations[ing.Name]
			if !ok {
				set = make(map[string]struct{})
				l.associations[ing.Name] = set
			}
			set[r.Name] = struct{}{}
		}
	}
	return l
}

// merge adds incoming to current, promoting current's unit if incoming is larger.
func merge(current, incoming recipe.Measure) recipe.Measure {
	order, ok := current.Unit.Compare(incoming.Unit)
	if !ok || order >= 0 {
		return current.Add(incoming)
	}
	promoted := current.ConvertTo(incoming.Unit)
	promoted.Quantity += incoming.Quantity
	return promoted
}

// Len returns the number of distinct ingredients.
func (l *ShoppingList) Len() int {
	return len(l.ingredients)
}

// IsEmpty reports whether the list has no ingredients.
func (l *ShoppingList) IsEmpty() bool {
	return len(l.ingredients) == 0
}

// Measure returns the consolidated measure for an ingredient.
func (l *ShoppingList) Measure(name string) (recipe.Measure, bool) {
	m, ok := l.ingredients[name]
	return m, ok
}

// Recipes returns the sorted names of the recipes that used an ingredient.
func (l *ShoppingList) Recipes(name string) []string {
	return sortedKeys(l.associations[name])
}

// RecipeNames returns every recipe that contributed at least one
// ingredient, deduplicated and sorted.
func (l *ShoppingList) RecipeNames() []string {
	all := make(map[string]struct{})
	for _, set := range l.associations {
		for name := range set {
			all[name] = struct{}{}
		}
	}
	return sortedKeys(all)
}

// Items returns the list's lines sorted by ingredient name.
func (l *ShoppingList) Items() []Item {
	items := make([]Item, 0, len(l.ingredients))
	for name, m := range l.ingredients {
		items = append(items, Item{Name: name, Measure: m, Recipes: l.Recipes(name)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// fromItems rebuilds a list from stored items.
func fromItems(items []Item) *ShoppingList {
	l := &ShoppingList{
		ingredients:  make(map[string]recipe.Measure, len(items)),
		associations: make(map[string]map[string]struct{}, len(items)),
	}
	for _, it := range items {
		l.ingredients[it.Name] = it.Measure
		set := make(map[string]struct{}, len(it.Recipes))
		for _, r := range it.Recipes {
			set[r] = struct{}{}
		}
		l.associations[it.Name] = set
	}
	return l
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
