package clipper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"shopping-list/internal/app"
	"shopping-list/internal/recipe"
	"shopping-list/internal/storage"
)

// --- Mocks ---
type MockRecipeStore struct {
	Saved       []recipe.Recipe
	Existing    map[string]bool
	ShouldError bool
}

func (m *MockRecipeStore) HasRecipe(name string) bool {
	return m.Existing[name]
}

func (m *MockRecipeStore) SaveRecipe(rec recipe.Recipe) error {
	if m.ShouldError {
		return fmt.Errorf("mock error")
	}
	m.Saved = append(m.Saved, rec)
	return nil
}

const microdataPage = `
<html>
	<head><title>Best Tacos | Food Site</title><script>alert('bad');</script></head>
	<body>
		<nav><h1>Food Site</h1></nav>
		<div itemscope itemtype="https://schema.org/Recipe">
			<h2 itemprop="name">Sante Fe Pork Tacos</h2>
			<span itemprop="recipeCuisine">Mexican</span>
			<ul>
				<li itemprop="recipeIngredient">10 oz Ground Pork</li>
				<li itemprop="recipeIngredient">1 tbsp
					Southwest Spice Blend</li>
				<li itemprop="recipeIngredient">¼ cup Monterey Jack, Shredded</li>
				<li itemprop="recipeIngredient">1 Lime</li>
				<li itemprop="recipeIngredient">Salt to taste</li>
			</ul>
		</div>
		<footer>Copyright 2026</footer>
	</body>
</html>`

// --- Tests ---

func TestParseHTML(t *testing.T) {
	t.Run("Microdata", func(t *testing.T) {
		res, err := ParseHTML(strings.NewReader(microdataPage))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if res.Recipe.Name != "Sante Fe Pork Tacos" {
			t.Errorf("Expected name 'Sante Fe Pork Tacos', got '%s'", res.Recipe.Name)
		}

		want := []recipe.Ingredient{
			{Name: "Ground Pork", Measure: recipe.Measure{Quantity: 10, Unit: recipe.Ounce}},
			{Name: "Southwest Spice Blend", Measure: recipe.Measure{Quantity: 1, Unit: recipe.Tablespoon}},
			{Name: "Monterey Jack, Shredded", Measure: recipe.Measure{Quantity: 0.25, Unit: recipe.Cup}},
			{Name: "Lime", Measure: recipe.Measure{Quantity: 1, Unit: recipe.Whole}},
		}
		if !reflect.DeepEqual(res.Recipe.Ingredients, want) {
			t.Errorf("Unexpected ingredients.\nExpected: %+v\nGot: %+v", want, res.Recipe.Ingredients)
		}
		if !reflect.DeepEqual(res.Skipped, []string{"Salt to taste"}) {
			t.Errorf("Expected [Salt to taste] to be skipped, got %v", res.Skipped)
		}
		if !res.Recipe.HasTag(recipe.Tag{Kind: recipe.TagCulture, Value: "Mexican"}) {
			t.Errorf("Expected Culture:Mexican tag, got %v", res.Recipe.Tags)
		}
	})

	t.Run("ClassFallback", func(t *testing.T) {
		page := `<html><body>
			<h1>Pancakes</h1>
			<div id="ingredients"><ul><li>1 1/2 cups flour</li><li>2 eggs</li></ul></div>
		</body></html>`

		res, err := ParseHTML(strings.NewReader(page))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if res.Recipe.Name != "Pancakes" {
			t.Errorf("Expected name 'Pancakes', got '%s'", res.Recipe.Name)
		}
		if len(res.Recipe.Ingredients) != 2 {
			t.Fatalf("Expected 2 ingredients, got %d", len(res.Recipe.Ingredients))
		}
		if m := res.Recipe.Ingredients[0].Measure; m.Quantity != 1.5 || m.Unit != recipe.Cup {
			t.Errorf("Expected 1.5 Cups of flour, got %+v", m)
		}
	})

	t.Run("NoIngredients", func(t *testing.T) {
		_, err := ParseHTML(strings.NewReader(`<html><body><h1>Blog post</h1><p>Nothing here.</p></body></html>`))
		if !errors.Is(err, ErrNoIngredients) {
			t.Errorf("Expected ErrNoIngredients, got %v", err)
		}
	})

	t.Run("NoTitle", func(t *testing.T) {
		_, err := ParseHTML(strings.NewReader(`<html><body><li class="ingredient">1 egg</li></body></html>`))
		if err == nil {
			t.Error("Expected an error for a page without a title, got nil")
		}
	})
}

func TestClipURL_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(microdataPage))
	}))
	defer ts.Close()

	store := &MockRecipeStore{}
	c := NewClipper(store)

	res, err := c.ClipURL(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}
	if res.Recipe.Name != "Sante Fe Pork Tacos" {
		t.Errorf("Expected name 'Sante Fe Pork Tacos', got '%s'", res.Recipe.Name)
	}
	if len(store.Saved) != 1 || store.Saved[0].Name != "Sante Fe Pork Tacos" {
		t.Errorf("Expected the recipe to be saved, got %+v", store.Saved)
	}
}

func TestClipURL_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(microdataPage))
	}))
	defer ts.Close()

	t.Run("HTTPStatus", func(t *testing.T) {
		store := &MockRecipeStore{}
		_, err := NewClipper(store).ClipURL(context.Background(), ts.URL+"/missing")
		if err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("Expected a status 404 error, got %v", err)
		}
		if len(store.Saved) != 0 {
			t.Error("Expected nothing to be saved")
		}
	})

	t.Run("AlreadyExists", func(t *testing.T) {
		store := &MockRecipeStore{Existing: map[string]bool{"Sante Fe Pork Tacos": true}}
		_, err := NewClipper(store).ClipURL(context.Background(), ts.URL)
		if !errors.Is(err, ErrRecipeExists) {
			t.Errorf("Expected ErrRecipeExists, got %v", err)
		}
	})

	t.Run("SaveFails", func(t *testing.T) {
		store := &MockRecipeStore{ShouldError: true}
		_, err := NewClipper(store).ClipURL(context.Background(), ts.URL)
		if err == nil || !strings.Contains(err.Error(), "failed to save recipe") {
			t.Errorf("Expected a save error, got %v", err)
		}
	})
}

func TestClipURL_ExistingTOMLRecipe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Guacamole</h1><ul><li class="ingredient">9 limes</li></ul></body></html>`))
	}))
	defer ts.Close()

	dir := t.TempDir()
	guac := `name = "Guacamole"

[[ingredients]]
name = "Avocado"

[ingredients.measure]
quantity = 2.0
unit = "Whole"
`
	if err := os.WriteFile(filepath.Join(dir, "guac.toml"), []byte(guac), 0644); err != nil {
		t.Fatal(err)
	}
	store, _, err := storage.NewRecipeStore(dir)
	if err != nil {
		t.Fatalf("Failed to create RecipeStore: %v", err)
	}
	a := app.NewApp(store, nil, nil, log.New(io.Discard))

	_, err = NewClipper(a).ClipURL(context.Background(), ts.URL)
	if !errors.Is(err, ErrRecipeExists) {
		t.Fatalf("Expected ErrRecipeExists, got %v", err)
	}

	recipes, _, err := store.LoadAll()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(recipes) != 1 || recipes[0].Ingredients[0].Name != "Avocado" {
		t.Errorf("Expected only the stored Guacamole, got %+v", recipes)
	}
}
