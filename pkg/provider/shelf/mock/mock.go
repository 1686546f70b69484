// Package mock provides a test double for the shelf.Advisor interface.
//
// Use Advisor in unit tests to feed controlled storage recommendations and
// shelf lives without a live backend. All fields are safe to set before
// calling any method; mutating them during a concurrent call is the caller's
// responsibility.
package mock

import (
	"context"
	"sync"

	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// StorageCall records a single invocation of RecommendStorage.
type StorageCall struct {
	Name     string
	Category types.FoodCategory
}

// ShelfLifeCall records a single invocation of ShelfLifeDays.
type ShelfLifeCall struct {
	Name     string
	Category types.FoodCategory
	Location types.StorageLocation
}

// Advisor is a mock implementation of shelf.Advisor.
// Zero values cause methods to return ("", nil) and (0, nil). Set the Err
// fields to inject errors, or the Fn fields to compute responses per call.
type Advisor struct {
	mu sync.Mutex

	// Storage is returned by RecommendStorage when StorageFn is nil.
	Storage types.StorageLocation

	// StorageErr, if non-nil, is returned instead of Storage.
	StorageErr error

	// StorageFn, if non-nil, overrides Storage and StorageErr.
	StorageFn func(ctx context.Context, name string, category types.FoodCategory) (types.StorageLocation, error)

	// Days is returned by ShelfLifeDays when DaysFn is nil.
	Days int

	// DaysErr, if non-nil, is returned instead of Days.
	DaysErr error

	// DaysFn, if non-nil, overrides Days and DaysErr.
	DaysFn func(ctx context.Context, name string, category types.FoodCategory, location types.StorageLocation) (int, error)

	// StorageCalls records every RecommendStorage invocation in order.
	StorageCalls []StorageCall

	// ShelfLifeCalls records every ShelfLifeDays invocation in order.
	ShelfLifeCalls []ShelfLifeCall
}

// Compile-time interface check.
var _ shelf.Advisor = (*Advisor)(nil)

// RecommendStorage implements shelf.Advisor.
func (a *Advisor) RecommendStorage(ctx context.Context, name string, category types.FoodCategory) (types.StorageLocation, error) {
	a.mu.Lock()
	a.StorageCalls = append(a.StorageCalls, StorageCall{Name: name, Category: category})
	fn, loc, err := a.StorageFn, a.Storage, a.StorageErr
	a.mu.Unlock()

	if fn != nil {
		return fn(ctx, name, category)
	}
	return loc, err
}

// ShelfLifeDays implements shelf.Advisor.
func (a *Advisor) ShelfLifeDays(ctx context.Context, name string, category types.FoodCategory, location types.StorageLocation) (int, error) {
	a.mu.Lock()
	a.ShelfLifeCalls = append(a.ShelfLifeCalls, ShelfLifeCall{Name: name, Category: category, Location: location})
	fn, days, err := a.DaysFn, a.Days, a.DaysErr
	a.mu.Unlock()

	if fn != nil {
		return fn(ctx, name, category, location)
	}
	return days, err
}
