package resilience

import (
	"context"

	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// ShelfFallback implements [shelf.Advisor] with automatic failover across
// multiple advisor backends. Each backend has its own circuit breaker; when
// the primary (typically the Postgres advisor) fails or its breaker is open,
// the next healthy fallback (typically the builtin guideline table) is
// tried.
type ShelfFallback struct {
	group *FallbackGroup[shelf.Advisor]
}

// Compile-time interface assertion.
var _ shelf.Advisor = (*ShelfFallback)(nil)

// NewShelfFallback creates a [ShelfFallback] with primary as the preferred
// backend.
func NewShelfFallback(primary shelf.Advisor, primaryName string, cfg FallbackConfig) *ShelfFallback {
	return &ShelfFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional advisor as a fallback.
func (f *ShelfFallback) AddFallback(name string, advisor shelf.Advisor) {
	f.group.AddFallback(name, advisor)
}

// RecommendStorage asks the first healthy advisor for a storage location.
func (f *ShelfFallback) RecommendStorage(ctx context.Context, name string, category types.FoodCategory) (types.StorageLocation, error) {
	return ExecuteWithResult(f.group, func(a shelf.Advisor) (types.StorageLocation, error) {
		return a.RecommendStorage(ctx, name, category)
	})
}

// ShelfLifeDays asks the first healthy advisor for a shelf life.
func (f *ShelfFallback) ShelfLifeDays(ctx context.Context, name string, category types.FoodCategory, location types.StorageLocation) (int, error) {
	return ExecuteWithResult(f.group, func(a shelf.Advisor) (int, error) {
		return a.ShelfLifeDays(ctx, name, category, location)
	})
}
