package database

import (
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "shopping.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	for _, table := range []string{"shopping_lists", "generation_metrics"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}

	t.Run("ReopenIsIdempotent", func(t *testing.T) {
		again, err := NewDB(dbPath)
		if err != nil {
			t.Fatalf("Expected reopening a migrated database to succeed, got %v", err)
		}
		again.Close()
	})
}
