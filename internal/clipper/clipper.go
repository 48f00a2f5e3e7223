package clipper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"shopping-list/internal/recipe"
)

var (
	// ErrNoIngredients is returned when a page has no ingredient lines that parse.
	ErrNoIngredients = errors.New("no ingredients found on page")
	// ErrRecipeExists is returned when the clipped recipe is already stored.
	ErrRecipeExists = errors.New("recipe already exists")
)

// RecipeSaver is where clipped recipes go. HasRecipe must see every recipe
// known by name, whatever file it was loaded from.
type RecipeSaver interface {
	HasRecipe(name string) bool
	SaveRecipe(rec recipe.Recipe) error
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	httpClient *http.Client
	store      RecipeSaver
}

// Result is a clipped recipe plus the ingredient lines that were dropped
// because they did not parse.
type Result struct {
	Recipe  recipe.Recipe
	Skipped []string
}

// NewClipper creates a new Clipper instance.
func NewClipper(store RecipeSaver) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
	}
}

// ClipURL fetches the URL, extracts the recipe and saves it to the store.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*Result, error) {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	defer body.Close()

	res, err := ParseHTML(body)
	if err != nil {
		return nil, err
	}

	if c.store.HasRecipe(res.Recipe.Name) {
		return nil, fmt.Errorf("%w: %s", ErrRecipeExists, res.Recipe.Name)
	}
	if err := c.store.SaveRecipe(res.Recipe); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return res, nil
}

func (c *Clipper) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// ParseHTML extracts a recipe from a page. Schema.org microdata is tried
// first, then common class and id conventions.
func ParseHTML(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Remove noise before reading text
	doc.Find("script, style, nav, footer, iframe, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	name := firstText(doc, "[itemprop=name]", "h1", "title")
	if name == "" {
		return nil, fmt.Errorf("failed to find recipe title")
	}

	res := &Result{Recipe: recipe.Recipe{Name: name}}
	for _, line := range ingredientLines(doc) {
		ing, err := recipe.ParseIngredientLine(line)
		if err != nil {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		res.Recipe.Ingredients = append(res.Recipe.Ingredients, ing)
	}
	if len(res.Recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoIngredients, name)
	}

	doc.Find("[itemprop=recipeCuisine]").Each(func(i int, s *goquery.Selection) {
		if v := cleanText(s.Text()); v != "" {
			res.Recipe.Tags = append(res.Recipe.Tags, recipe.Tag{Kind: recipe.TagCulture, Value: v})
		}
	})
	return res, nil
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := cleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func ingredientLines(doc *goquery.Document) []string {
	for _, sel := range []string{"[itemprop=recipeIngredient]", ".ingredient", "#ingredients li"} {
		var lines []string
		doc.Find(sel).Each(func(i int, s *goquery.Selection) {
			if text := cleanText(s.Text()); text != "" {
				lines = append(lines, text)
			}
		})
		if len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// cleanText collapses runs of whitespace left by the page markup.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
