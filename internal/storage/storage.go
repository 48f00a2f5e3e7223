package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"shopping-list/internal/recipe"
)

// ErrNotDirectory is returned when the recipe path exists but is a file.
var ErrNotDirectory = errors.New("recipe path exists and is not a directory")

// RecipeStore provides a file-based storage for recipes. Each recipe is one
// file in the base directory, either JSON (as exported by the recipe editor)
// or TOML.
type RecipeStore struct {
	basePath string
}

// LoadError describes a recipe file that could not be read.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load recipe %q: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewRecipeStore creates a new RecipeStore and ensures the base directory exists.
// created reports whether the directory had to be made.
func NewRecipeStore(basePath string) (store *RecipeStore, created bool, err error) {
	info, err := os.Stat(basePath)
	switch {
	case err == nil && !info.IsDir():
		return nil, false, fmt.Errorf("%w: %s", ErrNotDirectory, basePath)
	case err == nil:
		return &RecipeStore{basePath: basePath}, false, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, false, fmt.Errorf("failed to stat storage directory %s: %w", basePath, err)
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, false, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &RecipeStore{basePath: basePath}, true, nil
}

// Path returns the directory the store reads from.
func (s *RecipeStore) Path() string {
	return s.basePath
}

// sanitizeName makes a recipe name safe for filenames. Leading dots are
// dropped so the file is not hidden from LoadAll.
func sanitizeName(name string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(r.Replace(name)), "."))
	if s == "" {
		return "recipe"
	}
	return s
}

// getPath returns the JSON path for a given recipe name.
func (s *RecipeStore) getPath(name string) string {
	return filepath.Join(s.basePath, sanitizeName(name)+".json")
}

// Save stores a recipe as JSON, replacing any previous file for the same name.
func (s *RecipeStore) Save(rec recipe.Recipe) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := os.WriteFile(s.getPath(rec.Name), data, 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Load retrieves a recipe previously written by Save.
func (s *RecipeStore) Load(name string) (*recipe.Recipe, error) {
	return readRecipe(s.getPath(name))
}

// Exists reports whether a recipe with the given name is stored, either in
// the file Save would write or in any other readable file of the directory.
func (s *RecipeStore) Exists(name string) bool {
	if _, err := os.Stat(s.getPath(name)); err == nil {
		return true
	}

	recipes, _, err := s.LoadAll()
	if err != nil {
		return false
	}
	for _, rec := range recipes {
		if rec.Name == name {
			return true
		}
	}
	return false
}

// LoadAll reads every regular, non-hidden file in the directory, in
// file-name order.
// Files that fail to parse are reported in the second return value and do
// not stop the rest from loading.
func (s *RecipeStore) LoadAll() ([]recipe.Recipe, []error, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read recipe directory %s: %w", s.basePath, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var (
		recipes []recipe.Recipe
		failed  []error
	)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(s.basePath, entry.Name())
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}
		rec, err := readRecipe(path)
		if err != nil {
			failed = append(failed, &LoadError{File: entry.Name(), Err: err})
			continue
		}
		recipes = append(recipes, *rec)
	}
	return recipes, failed, nil
}

func readRecipe(path string) (*recipe.Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	var rec recipe.Recipe
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
		}
	} else if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}
