// Package postgres provides a shelf.Advisor backed by a PostgreSQL guideline
// table, for deployments that curate storage and shelf-life reference data
// centrally instead of shipping it in the binary. The table holds one row
// per food name plus category-level default rows (empty name); name rows win.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Schema is the SQL DDL for the shelf_guidelines table. Execute it via
// [Advisor.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS shelf_guidelines (
    name          TEXT NOT NULL DEFAULT '',
    category      TEXT NOT NULL,
    storage       TEXT NOT NULL DEFAULT 'pantry',
    fridge_days   INT NOT NULL DEFAULT 0,
    freezer_days  INT NOT NULL DEFAULT 0,
    pantry_days   INT NOT NULL DEFAULT 0,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (name, category)
);
CREATE INDEX IF NOT EXISTS idx_shelf_guidelines_category ON shelf_guidelines(category);
`

// DB is the database interface used by [Advisor]. Both *pgxpool.Pool and
// *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Guideline is one shelf_guidelines row. A row with an empty Name is the
// default for its whole category.
type Guideline struct {
	Name        string
	Category    types.FoodCategory
	Storage     types.StorageLocation
	FridgeDays  int
	FreezerDays int
	PantryDays  int
}

// Advisor is a [shelf.Advisor] backed by PostgreSQL.
type Advisor struct {
	db DB
}

// Compile-time interface check.
var _ shelf.Advisor = (*Advisor)(nil)

// New creates an [Advisor] that uses the given database connection or pool.
// The caller is responsible for calling [Advisor.Migrate] to ensure the
// schema exists before issuing queries.
func New(db DB) *Advisor {
	return &Advisor{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// shelf_guidelines table and index if they do not already exist.
func (a *Advisor) Migrate(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("shelf postgres: migrate: %w", err)
	}
	return nil
}

// RecommendStorage implements shelf.Advisor. It prefers the food's own row
// and falls back to the category default row, then to pantry.
func (a *Advisor) RecommendStorage(ctx context.Context, name string, category types.FoodCategory) (types.StorageLocation, error) {
	g, err := a.lookup(ctx, name, category)
	if err != nil {
		return "", err
	}
	if g == nil || !g.Storage.IsValid() {
		return types.LocationPantry, nil
	}
	return g.Storage, nil
}

// ShelfLifeDays implements shelf.Advisor. A row without a figure for the
// requested location falls back to the figure for its recommended location.
func (a *Advisor) ShelfLifeDays(ctx context.Context, name string, category types.FoodCategory, location types.StorageLocation) (int, error) {
	g, err := a.lookup(ctx, name, category)
	if err != nil {
		return 0, err
	}
	if g == nil {
		return 7, nil
	}
	if d := g.daysAt(location); d > 0 {
		return d, nil
	}
	if d := g.daysAt(g.Storage); d > 0 {
		return d, nil
	}
	return 7, nil
}

func (g *Guideline) daysAt(location types.StorageLocation) int {
	switch location {
	case types.LocationFridge:
		return g.FridgeDays
	case types.LocationFreezer:
		return g.FreezerDays
	case types.LocationPantry:
		return g.PantryDays
	default:
		return 0
	}
}

// lookup fetches the best-matching guideline row: the exact name row first,
// then the category default. Returns (nil, nil) when neither exists.
func (a *Advisor) lookup(ctx context.Context, name string, category types.FoodCategory) (*Guideline, error) {
	const query = `
		SELECT name, category, storage, fridge_days, freezer_days, pantry_days
		FROM shelf_guidelines
		WHERE category = $2 AND name IN ($1, '')
		ORDER BY name DESC
		LIMIT 1`

	var g Guideline
	err := a.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(name)), string(category)).Scan(
		&g.Name, &g.Category, &g.Storage, &g.FridgeDays, &g.FreezerDays, &g.PantryDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("shelf postgres: lookup %q: %w", name, err)
	}
	return &g, nil
}

// Upsert creates or replaces a guideline row. This is useful for importing
// curated reference data from YAML or CSV during deployment.
func (a *Advisor) Upsert(ctx context.Context, g Guideline) error {
	if g.Category == "" || !g.Category.IsValid() {
		return fmt.Errorf("shelf postgres: upsert: invalid category %q", g.Category)
	}
	storage := g.Storage
	if storage == "" {
		storage = types.LocationPantry
	}
	if !storage.IsValid() {
		return fmt.Errorf("shelf postgres: upsert: invalid storage %q", g.Storage)
	}

	const query = `
		INSERT INTO shelf_guidelines (name, category, storage, fridge_days, freezer_days, pantry_days)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (name, category) DO UPDATE SET
			storage = EXCLUDED.storage,
			fridge_days = EXCLUDED.fridge_days,
			freezer_days = EXCLUDED.freezer_days,
			pantry_days = EXCLUDED.pantry_days,
			updated_at = now()`

	_, err := a.db.Exec(ctx, query,
		strings.ToLower(strings.TrimSpace(g.Name)), string(g.Category), string(storage),
		g.FridgeDays, g.FreezerDays, g.PantryDays,
	)
	if err != nil {
		return fmt.Errorf("shelf postgres: upsert %q/%q: %w", g.Name, g.Category, err)
	}
	return nil
}

// List returns every guideline row, optionally filtered by category. An
// empty category returns all rows.
func (a *Advisor) List(ctx context.Context, category types.FoodCategory) ([]Guideline, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category == "" {
		const query = `
			SELECT name, category, storage, fridge_days, freezer_days, pantry_days
			FROM shelf_guidelines
			ORDER BY category, name`
		rows, err = a.db.Query(ctx, query)
	} else {
		const query = `
			SELECT name, category, storage, fridge_days, freezer_days, pantry_days
			FROM shelf_guidelines
			WHERE category = $1
			ORDER BY name`
		rows, err = a.db.Query(ctx, query, string(category))
	}
	if err != nil {
		return nil, fmt.Errorf("shelf postgres: list: %w", err)
	}
	defer rows.Close()

	var out []Guideline
	for rows.Next() {
		var g Guideline
		if err := rows.Scan(&g.Name, &g.Category, &g.Storage, &g.FridgeDays, &g.FreezerDays, &g.PantryDays); err != nil {
			return nil, fmt.Errorf("shelf postgres: list scan: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("shelf postgres: list: %w", err)
	}
	return out, nil
}

// Delete removes a guideline row. Deleting a non-existent row is not an
// error.
func (a *Advisor) Delete(ctx context.Context, name string, category types.FoodCategory) error {
	const query = `DELETE FROM shelf_guidelines WHERE name = $1 AND category = $2`
	if _, err := a.db.Exec(ctx, query, strings.ToLower(strings.TrimSpace(name)), string(category)); err != nil {
		return fmt.Errorf("shelf postgres: delete %q/%q: %w", name, category, err)
	}
	return nil
}
