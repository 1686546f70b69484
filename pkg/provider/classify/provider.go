// Package classify defines the Provider interface for the food
// classification collaborator.
//
// A classification provider assigns each parsed food name a category and an
// optional display emoji. Classification is batched per utterance: one call
// covers every component, which matters for backends with per-request cost
// (an LLM call) as much as for cheap lexical lookup.
//
// Implementors must be safe for concurrent use.
package classify

import (
	"context"

	"github.com/pantryvox/pantryvox/pkg/types"
)

// Result is the classification of one food name.
type Result struct {
	// Category is the assigned food category. Providers that cannot decide
	// return [types.CategoryOther] rather than an error.
	Category types.FoodCategory

	// Emoji is a single display emoji for the food, or "" when the provider
	// has none.
	Emoji string
}

// Provider is the abstraction over any classification backend.
//
// Implementations must be safe for concurrent use from multiple goroutines
// and must propagate context cancellation promptly.
type Provider interface {
	// ClassifyBatch classifies every name in one call. The returned slice is
	// index-aligned with names: len(results) == len(names) and results[i]
	// always describes names[i], regardless of how the backend orders its
	// own output.
	ClassifyBatch(ctx context.Context, names []string) ([]Result, error)
}
