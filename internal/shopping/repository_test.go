package shopping

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"shopping-list/internal/database"
	"shopping-list/internal/recipe"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "shopping.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	clock := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	list := Generate([]recipe.Recipe{
		{Name: "Tacos", Ingredients: []recipe.Ingredient{ing("Lime", 1, recipe.Whole), ing("Cilantro", 0.25, recipe.Ounce)}},
		{Name: "Salad", Ingredients: []recipe.Ingredient{ing("Cilantro", 1, recipe.Tablespoon)}},
	})

	var firstID string

	t.Run("Save", func(t *testing.T) {
		id, err := repo.Save(ctx, list, FormatPrint, "/tmp/list.txt")
		if err != nil {
			t.Fatalf("Failed to save shopping list: %v", err)
		}
		if id == "" {
			t.Fatal("Expected a generated ID, got empty string")
		}
		firstID = id
	})

	t.Run("Get", func(t *testing.T) {
		rec, err := repo.Get(ctx, firstID)
		if err != nil {
			t.Fatalf("Failed to get shopping list: %v", err)
		}
		if rec == nil {
			t.Fatal("Expected a shopping list, got nil")
		}
		if rec.Format != FormatPrint {
			t.Errorf("Expected format print, got %s", rec.Format)
		}
		if rec.ReportPath != "/tmp/list.txt" {
			t.Errorf("Expected report path '/tmp/list.txt', got '%s'", rec.ReportPath)
		}
		if !reflect.DeepEqual(rec.Recipes, []string{"Salad", "Tacos"}) {
			t.Errorf("Expected recipes [Salad Tacos], got %v", rec.Recipes)
		}
		if !reflect.DeepEqual(rec.List.Items(), list.Items()) {
			t.Errorf("Stored items differ:\nExpected %+v\nGot %+v", list.Items(), rec.List.Items())
		}
		if rec.List.Render(FormatPrint) != list.Render(FormatPrint) {
			t.Error("Expected the stored list to render identically")
		}
	})

	t.Run("Get-NotFound", func(t *testing.T) {
		rec, err := repo.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec != nil {
			t.Errorf("Expected nil for a missing list, got %+v", rec)
		}
	})

	t.Run("ListRecent", func(t *testing.T) {
		secondID, err := repo.Save(ctx, list, FormatNotes, "")
		if err != nil {
			t.Fatalf("Failed to save shopping list: %v", err)
		}

		records, err := repo.ListRecent(ctx, 10)
		if err != nil {
			t.Fatalf("Failed to list shopping lists: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].ID != secondID || records[1].ID != firstID {
			t.Errorf("Expected newest first, got %s then %s", records[0].ID, records[1].ID)
		}

		limited, err := repo.ListRecent(ctx, 1)
		if err != nil {
			t.Fatalf("Failed to list shopping lists: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("Expected 1 record with limit 1, got %d", len(limited))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, firstID); err != nil {
			t.Fatalf("Failed to delete shopping list: %v", err)
		}
		rec, err := repo.Get(ctx, firstID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec != nil {
			t.Error("Expected deleted list to be gone")
		}
	})
}
