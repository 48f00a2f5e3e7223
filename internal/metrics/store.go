package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GenerationMetric records metadata for a single shopping list generation.
type GenerationMetric struct {
	Source          string // "cli" or "telegram"
	Format          string
	RecipeCount     int
	IngredientCount int
	LatencyMS       int64
	Timestamp       time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_metrics (source, format, recipe_count, ingredient_count, latency_ms, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		m.Source, m.Format, m.RecipeCount, m.IngredientCount, m.LatencyMS, ts.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation metric: %w", err)
	}
	return nil
}

// DailyUsage represents generation totals for a single day.
type DailyUsage struct {
	Date             string
	Generations      int
	TotalRecipes     int
	TotalIngredients int
	AvgLatencyMS     float64
}

// GetDailyUsage retrieves usage for the last N days, newest day first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := s.now().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp / 1000, 'unixepoch') AS day,
		       COUNT(*),
		       SUM(recipe_count),
		       SUM(ingredient_count),
		       AVG(latency_ms)
		FROM generation_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			day         sql.NullString
			u           DailyUsage
			recipes     sql.NullInt64
			ingredients sql.NullInt64
			latency     sql.NullFloat64
		)
		if err := rows.Scan(&day, &u.Generations, &recipes, &ingredients, &latency); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}

		u.Date = "Unknown"
		if day.Valid {
			u.Date = day.String
		}
		if recipes.Valid {
			u.TotalRecipes = int(recipes.Int64)
		}
		if ingredients.Valid {
			u.TotalIngredients = int(ingredients.Int64)
		}
		if latency.Valid {
			u.AvgLatencyMS = latency.Float64
		}

		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().AddDate(0, 0, -olderThanDays).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM generation_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return res.RowsAffected()
}

// NewGenerationMetric builds a metric stamped with the current time.
func NewGenerationMetric(source, format string, recipes, ingredients int, latency time.Duration) GenerationMetric {
	return GenerationMetric{
		Source:          source,
		Format:          format,
		RecipeCount:     recipes,
		IngredientCount: ingredients,
		LatencyMS:       latency.Milliseconds(),
		Timestamp:       time.Now().UTC(),
	}
}
