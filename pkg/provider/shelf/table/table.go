// Package table provides an offline shelf.Advisor backed by a static
// guideline matrix: per-category storage recommendations and per-location
// shelf lives, with optional per-food overrides loadable from YAML. It never
// performs I/O after construction and never fails, which makes it the
// natural fallback behind the Postgres-backed advisor.
package table

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// guideline is one row of the matrix: where the food goes and how long it
// keeps per location.
type guideline struct {
	storage types.StorageLocation
	days    map[types.StorageLocation]int
}

// Advisor implements shelf.Advisor from in-memory tables.
// It is read-only after construction and safe for concurrent use.
type Advisor struct {
	byFood     map[string]guideline
	byCategory map[types.FoodCategory]guideline
}

// Compile-time interface check.
var _ shelf.Advisor = (*Advisor)(nil)

// New creates a table advisor with the builtin category matrix and per-food
// overrides.
func New() *Advisor {
	return &Advisor{byFood: builtinFoods(), byCategory: builtinCategories()}
}

// RecommendStorage implements shelf.Advisor. Lookup order: per-food
// override, then category row, then pantry.
func (a *Advisor) RecommendStorage(ctx context.Context, name string, category types.FoodCategory) (types.StorageLocation, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g, ok := a.byFood[normalize(name)]; ok {
		return g.storage, nil
	}
	if g, ok := a.byCategory[category]; ok {
		return g.storage, nil
	}
	return types.LocationPantry, nil
}

// ShelfLifeDays implements shelf.Advisor. Lookup order matches
// RecommendStorage; a row without an entry for the requested location falls
// back to its recommended location's entry.
func (a *Advisor) ShelfLifeDays(ctx context.Context, name string, category types.FoodCategory, location types.StorageLocation) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if g, ok := a.byFood[normalize(name)]; ok {
		return g.lifeAt(location), nil
	}
	if g, ok := a.byCategory[category]; ok {
		return g.lifeAt(location), nil
	}
	return 7, nil
}

func (g guideline) lifeAt(location types.StorageLocation) int {
	if d, ok := g.days[location]; ok && d > 0 {
		return d
	}
	if d, ok := g.days[g.storage]; ok && d > 0 {
		return d
	}
	return 7
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// OverrideFile is the YAML shape for per-food guideline overrides.
//
// Example:
//
//	foods:
//	  - name: kimchi
//	    storage: fridge
//	    fridge_days: 90
//	    freezer_days: 365
type OverrideFile struct {
	Foods []OverrideEntry `yaml:"foods"`
}

// OverrideEntry is one per-food override row.
type OverrideEntry struct {
	Name        string `yaml:"name"`
	Storage     string `yaml:"storage"`
	FridgeDays  int    `yaml:"fridge_days"`
	FreezerDays int    `yaml:"freezer_days"`
	PantryDays  int    `yaml:"pantry_days"`
}

// LoadOverrides reads a YAML override file and applies it on top of the
// builtin per-food table.
func (a *Advisor) LoadOverrides(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("shelf table: open overrides %q: %w", path, err)
	}
	defer f.Close()

	if err := a.LoadOverridesFromReader(f); err != nil {
		return fmt.Errorf("shelf table: parse overrides %q: %w", path, err)
	}
	return nil
}

// LoadOverridesFromReader parses override YAML from r and applies it.
func (a *Advisor) LoadOverridesFromReader(r io.Reader) error {
	var of OverrideFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(&of); err != nil {
		return fmt.Errorf("shelf table: decode override yaml: %w", err)
	}

	for i, e := range of.Foods {
		if e.Name == "" {
			return fmt.Errorf("shelf table: foods[%d]: name is required", i)
		}
		storage := types.StorageLocation(e.Storage)
		if e.Storage == "" {
			storage = types.LocationPantry
		}
		if !storage.IsValid() {
			return fmt.Errorf("shelf table: foods[%d]: invalid storage %q", i, e.Storage)
		}
		days := map[types.StorageLocation]int{}
		if e.FridgeDays > 0 {
			days[types.LocationFridge] = e.FridgeDays
		}
		if e.FreezerDays > 0 {
			days[types.LocationFreezer] = e.FreezerDays
		}
		if e.PantryDays > 0 {
			days[types.LocationPantry] = e.PantryDays
		}
		a.byFood[normalize(e.Name)] = guideline{storage: storage, days: days}
	}
	return nil
}

// builtinCategories is the category-level guideline matrix. Figures follow
// common food-safety guidance; they are defaults, not promises.
func builtinCategories() map[types.FoodCategory]guideline {
	return map[types.FoodCategory]guideline{
		types.CategoryVegetable: {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 7, types.LocationFreezer: 240, types.LocationPantry: 3,
		}},
		types.CategoryFruit: {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 10, types.LocationFreezer: 240, types.LocationPantry: 5,
		}},
		types.CategoryMeat: {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 3, types.LocationFreezer: 180, types.LocationPantry: 1,
		}},
		types.CategorySeafood: {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 2, types.LocationFreezer: 120, types.LocationPantry: 1,
		}},
		types.CategoryDairy: {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 7, types.LocationFreezer: 90, types.LocationPantry: 1,
		}},
		types.CategoryEgg: {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 28, types.LocationPantry: 7,
		}},
		types.CategoryGrain: {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 180, types.LocationFridge: 180, types.LocationFreezer: 365,
		}},
		types.CategoryBeverage: {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 180, types.LocationFridge: 7,
		}},
		types.CategoryCondiment: {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 365, types.LocationFridge: 365,
		}},
		types.CategorySnack: {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 90,
		}},
		types.CategoryOther: {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 14,
		}},
	}
}

// builtinFoods holds per-food overrides where the category default is
// meaningfully wrong for a common item.
func builtinFoods() map[string]guideline {
	return map[string]guideline{
		// Fresh milk keeps a week; opened is shorter but that is not
		// knowable at purchase time.
		"milk": {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 7, types.LocationFreezer: 90,
		}},
		"牛奶": {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 7, types.LocationFreezer: 90,
		}},
		"yogurt": {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 14,
		}},
		"酸奶": {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 14,
		}},
		// Bananas, potatoes, and onions do badly in the fridge.
		"banana": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 5,
		}},
		"香蕉": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 5,
		}},
		"potato": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 30,
		}},
		"土豆": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 30,
		}},
		"onion": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 30,
		}},
		"洋葱": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 30,
		}},
		"bread": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 5, types.LocationFreezer: 90,
		}},
		"面包": {types.LocationPantry, map[types.StorageLocation]int{
			types.LocationPantry: 5, types.LocationFreezer: 90,
		}},
		"tofu": {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 5,
		}},
		"豆腐": {types.LocationFridge, map[types.StorageLocation]int{
			types.LocationFridge: 5,
		}},
	}
}
