package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"shopping-list/internal/metrics"
	"shopping-list/internal/recipe"
	"shopping-list/internal/shopping"
	"shopping-list/internal/storage"
)

var (
	// ErrUnknownRecipe is returned when a selected name is not in the catalogue.
	ErrUnknownRecipe = errors.New("unknown recipe")
	// ErrNoFileName is returned when an export is requested without a file name.
	ErrNoFileName = errors.New("file name is required")
	// ErrListNotFound is returned when a history entry does not exist.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrDuplicateRecipe is returned when saving a recipe whose name is taken.
	ErrDuplicateRecipe = errors.New("a recipe with this name already exists")
)

// App holds the application's dependencies and the loaded recipe catalogue.
type App struct {
	recipeStore  *storage.RecipeStore
	lists        *shopping.Repository // optional
	metricsStore *metrics.Store       // optional
	logger       *log.Logger

	mu      sync.RWMutex
	recipes []recipe.Recipe
	byName  map[string]int

	// exportMu serializes report file writes.
	exportMu sync.Mutex
	// saveMu serializes recipe file writes.
	saveMu sync.Mutex
}

// NewApp creates and initializes a new App instance. lists and metricsStore
// may be nil, in which case generations are not kept in history or counted.
func NewApp(
	recipeStore *storage.RecipeStore,
	lists *shopping.Repository,
	metricsStore *metrics.Store,
	logger *log.Logger,
) *App {
	return &App{
		recipeStore:  recipeStore,
		lists:        lists,
		metricsStore: metricsStore,
		logger:       logger,
		byName:       make(map[string]int),
	}
}

// LoadRecipes reads every recipe file from the store into the catalogue and
// returns how many new recipes were added. Files that fail to load are
// logged and skipped.
func (a *App) LoadRecipes() (int, error) {
	recipes, failed, err := a.recipeStore.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to load recipes: %w", err)
	}
	for _, err := range failed {
		a.logger.Warn("skipping recipe file", "err", err)
	}

	added := 0
	for _, rec := range recipes {
		if a.AddRecipe(rec) {
			added++
		} else {
			a.logger.Debug("duplicate recipe name ignored", "recipe", rec.Name)
		}
	}
	a.logger.Info("loaded recipes", "count", added, "dir", a.recipeStore.Path())
	return added, nil
}

// AddRecipe adds a recipe to the catalogue. It reports false and leaves the
// catalogue unchanged when a recipe with the same name is already loaded.
func (a *App) AddRecipe(rec recipe.Recipe) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byName[rec.Name]; ok {
		return false
	}
	a.byName[rec.Name] = len(a.recipes)
	a.recipes = append(a.recipes, rec)
	return true
}

// HasRecipe reports whether a recipe with this name is loaded or stored.
func (a *App) HasRecipe(name string) bool {
	if _, ok := a.RecipeByName(name); ok {
		return true
	}
	return a.recipeStore.Exists(name)
}

// SaveRecipe writes a new recipe to the store and adds it to the catalogue.
// A name that is already loaded or stored yields ErrDuplicateRecipe and
// nothing is written.
func (a *App) SaveRecipe(rec recipe.Recipe) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	if a.HasRecipe(rec.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateRecipe, rec.Name)
	}
	if err := a.recipeStore.Save(rec); err != nil {
		return err
	}
	a.AddRecipe(rec)
	a.logger.Info("saved recipe", "recipe", rec.Name, "ingredients", len(rec.Ingredients))
	return nil
}

// RecipeByName looks up a loaded recipe.
func (a *App) RecipeByName(name string) (recipe.Recipe, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	i, ok := a.byName[name]
	if !ok {
		return recipe.Recipe{}, false
	}
	return a.recipes[i], true
}

// Recipes returns the catalogue in load order.
func (a *App) Recipes() []recipe.Recipe {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]recipe.Recipe, len(a.recipes))
	copy(out, a.recipes)
	return out
}

// RecipesWithTag returns the loaded recipes carrying tag, in load order.
func (a *App) RecipesWithTag(tag recipe.Tag) []recipe.Recipe {
	var out []recipe.Recipe
	for _, rec := range a.Recipes() {
		if rec.HasTag(tag) {
			out = append(out, rec)
		}
	}
	return out
}

// Resolve maps recipe names to loaded recipes, keeping the given order.
func (a *App) Resolve(names []string) ([]recipe.Recipe, error) {
	out := make([]recipe.Recipe, 0, len(names))
	for _, name := range names {
		rec, ok := a.RecipeByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRecipe, name)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Generate aggregates the named recipes into one shopping list.
func (a *App) Generate(names []string) (*shopping.ShoppingList, error) {
	recipes, err := a.Resolve(names)
	if err != nil {
		return nil, err
	}
	return shopping.Generate(recipes), nil
}

// ExportRequest describes a report file to write.
type ExportRequest struct {
	Recipes  []string
	Dir      string
	FileName string
	Format   shopping.Format
	Source   string
}

// Result is a generated shopping list and where it went.
type Result struct {
	ListID string // empty when history is not configured or saving failed
	Path   string // empty when no file was written
	Report string
	List   *shopping.ShoppingList
}

// Export generates the list for the selected recipes and writes the report
// to Dir/FileName, replacing any existing file.
func (a *App) Export(ctx context.Context, req ExportRequest) (*Result, error) {
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return nil, ErrNoFileName
	}

	start := time.Now()
	list, err := a.Generate(req.Recipes)
	if err != nil {
		return nil, err
	}

	a.exportMu.Lock()
	path, err := list.Export(req.Dir, fileName, req.Format)
	a.exportMu.Unlock()
	if err != nil {
		return nil, err
	}
	a.logger.Info("exported shopping list", "path", path, "ingredients", list.Len(), "format", req.Format)

	res := &Result{Path: path, Report: list.Render(req.Format), List: list}
	res.ListID = a.saveHistory(ctx, list, req.Format, path)
	a.recordMetric(ctx, req.Source, req.Format, list, time.Since(start))
	return res, nil
}

// Report generates the list for the selected recipes and renders it without
// writing a file.
func (a *App) Report(ctx context.Context, source string, names []string, format shopping.Format) (*Result, error) {
	start := time.Now()
	list, err := a.Generate(names)
	if err != nil {
		return nil, err
	}
	if list.IsEmpty() {
		return nil, shopping.ErrEmptyList
	}

	res := &Result{Report: list.Render(format), List: list}
	res.ListID = a.saveHistory(ctx, list, format, "")
	a.recordMetric(ctx, source, format, list, time.Since(start))
	return res, nil
}

// History returns the most recently generated lists, newest first.
func (a *App) History(ctx context.Context, limit int) ([]shopping.Record, error) {
	if a.lists == nil {
		return nil, fmt.Errorf("shopping list history is not configured")
	}
	return a.lists.ListRecent(ctx, limit)
}

// Show returns one list from history.
func (a *App) Show(ctx context.Context, id string) (*shopping.Record, error) {
	if a.lists == nil {
		return nil, fmt.Errorf("shopping list history is not configured")
	}
	rec, err := a.lists.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	return rec, nil
}

func (a *App) saveHistory(ctx context.Context, list *shopping.ShoppingList, format shopping.Format, path string) string {
	if a.lists == nil {
		return ""
	}
	id, err := a.lists.Save(ctx, list, format, path)
	if err != nil {
		a.logger.Warn("failed to save shopping list history", "err", err)
		return ""
	}
	return id
}

func (a *App) recordMetric(ctx context.Context, source string, format shopping.Format, list *shopping.ShoppingList, latency time.Duration) {
	if a.metricsStore == nil {
		return
	}
	m := metrics.NewGenerationMetric(source, format.String(), len(list.RecipeNames()), list.Len(), latency)
	if err := a.metricsStore.Record(ctx, m); err != nil {
		a.logger.Warn("failed to record metrics", "err", err)
	}
}
