package resilience

import (
	"context"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
)

// ClassifyFallback implements [classify.Provider] with automatic failover
// across multiple classification backends. Each backend has its own circuit
// breaker; when the primary (typically an LLM classifier) fails or its
// breaker is open, the next healthy fallback (typically the offline lexical
// classifier) is tried.
type ClassifyFallback struct {
	group *FallbackGroup[classify.Provider]
}

// Compile-time interface assertion.
var _ classify.Provider = (*ClassifyFallback)(nil)

// NewClassifyFallback creates a [ClassifyFallback] with primary as the
// preferred backend.
func NewClassifyFallback(primary classify.Provider, primaryName string, cfg FallbackConfig) *ClassifyFallback {
	return &ClassifyFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional classification provider as a fallback.
func (f *ClassifyFallback) AddFallback(name string, provider classify.Provider) {
	f.group.AddFallback(name, provider)
}

// ClassifyBatch sends the batch to the first healthy provider and returns
// its index-aligned results. If the primary fails, subsequent fallbacks are
// tried with the same batch.
func (f *ClassifyFallback) ClassifyBatch(ctx context.Context, names []string) ([]classify.Result, error) {
	return ExecuteWithResult(f.group, func(p classify.Provider) ([]classify.Result, error) {
		return p.ClassifyBatch(ctx, names)
	})
}
