// Package shelf defines the Advisor interface for the storage and
// shelf-life collaborator.
//
// The advisor answers two questions the parser cannot answer from the
// utterance alone: where a food should be kept, and how long it lasts there.
// Shelf-life answers are only consulted when the user stated no explicit
// expiration; an explicit statement always wins.
//
// Implementors must be safe for concurrent use.
package shelf

import (
	"context"

	"github.com/pantryvox/pantryvox/pkg/types"
)

// Advisor is the abstraction over any storage/shelf-life backend.
//
// Implementations must be safe for concurrent use from multiple goroutines
// and must propagate context cancellation promptly.
type Advisor interface {
	// RecommendStorage returns the storage location for a food, keyed on its
	// name and category. Implementations return [types.LocationPantry] when
	// they have no specific guidance.
	RecommendStorage(ctx context.Context, name string, category types.FoodCategory) (types.StorageLocation, error)

	// ShelfLifeDays returns how many days the food keeps at the given
	// storage location. The result is always positive; backends with no
	// entry for the food fall back to a category default.
	ShelfLifeDays(ctx context.Context, name string, category types.FoodCategory, location types.StorageLocation) (int, error)
}
