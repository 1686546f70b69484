// Package mock provides a test double for the classify.Provider interface.
//
// Use Provider in unit tests to verify which name batches the enrichment
// orchestrator sends and to feed controlled classifications without a live
// backend. All fields are safe to set before calling any method; mutating
// them during a concurrent call is the caller's responsibility.
//
// Example:
//
//	p := &mock.Provider{
//	    Results: []classify.Result{{Category: types.CategoryFruit, Emoji: "🍎"}},
//	}
//	res, err := p.ClassifyBatch(ctx, []string{"apple"})
package mock

import (
	"context"
	"sync"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
)

// Call records a single invocation of ClassifyBatch.
type Call struct {
	// Ctx is the context passed to ClassifyBatch.
	Ctx context.Context
	// Names is the name batch passed to ClassifyBatch.
	Names []string
}

// Provider is a mock implementation of classify.Provider.
// Zero values for response fields cause ClassifyBatch to return nil, nil.
// Set Err to inject errors.
type Provider struct {
	mu sync.Mutex

	// Results is returned by ClassifyBatch when Fn is nil.
	Results []classify.Result

	// Err, if non-nil, is returned instead of Results.
	Err error

	// Fn, if non-nil, computes the response per call and overrides Results
	// and Err.
	Fn func(ctx context.Context, names []string) ([]classify.Result, error)

	// Calls records every invocation in order.
	Calls []Call
}

// Compile-time interface check.
var _ classify.Provider = (*Provider)(nil)

// ClassifyBatch implements classify.Provider.
func (p *Provider) ClassifyBatch(ctx context.Context, names []string) ([]classify.Result, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, Call{Ctx: ctx, Names: append([]string(nil), names...)})
	fn, results, err := p.Fn, p.Results, p.Err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, names)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CallCount returns the number of recorded ClassifyBatch invocations.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}
