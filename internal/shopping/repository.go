package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is a generated shopping list as kept in history.
type Record struct {
	ID         string
	Recipes    []string
	Format     Format
	ReportPath string
	CreatedAt  time.Time
	List       *ShoppingList
}

// Repository handles persistence of generated shopping lists.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		db:  d,
		now: time.Now,
	}
}

// Save stores a generated list and returns its ID. reportPath may be empty
// when the report was not written to disk.
func (r *Repository) Save(ctx context.Context, list *ShoppingList, format Format, reportPath string) (string, error) {
	recipesJSON, err := json.Marshal(list.RecipeNames())
	if err != nil {
		return "", fmt.Errorf("failed to marshal shopping list recipes: %w", err)
	}
	itemsJSON, err := json.Marshal(list.Items())
	if err != nil {
		return "", fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (id, recipes, items, format, report_path, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(recipesJSON), string(itemsJSON), format.String(), reportPath, r.now().UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return id, nil
}

// Get retrieves a shopping list by ID. It returns nil, nil when no list matches.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, recipes, items, format, report_path, created_at FROM shopping_lists WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent returns the most recent lists, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipes, items, format, report_path, created_at FROM shopping_lists ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read shopping list: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return records, nil
}

// Delete removes a shopping list by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete shopping list %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec         Record
		recipesJSON string
		itemsJSON   string
		format      string
		createdAt   int64
	)
	if err := s.Scan(&rec.ID, &recipesJSON, &itemsJSON, &format, &rec.ReportPath, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(recipesJSON), &rec.Recipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list recipes: %w", err)
	}
	var items []Item
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	rec.Format = f
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.List = fromItems(items)
	return &rec, nil
}
