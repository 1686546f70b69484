package resilience

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllFailed is returned when every collaborator in a [FallbackGroup]
// failed or sat behind an open breaker.
var ErrAllFailed = errors.New("resilience: all collaborators failed")

// FallbackConfig configures the breaker stamped onto each collaborator added
// to a [FallbackGroup].
type FallbackConfig struct {
	CircuitBreaker CircuitBreakerConfig
}

// groupEntry pairs one collaborator with its own breaker.
type groupEntry[T any] struct {
	name    string
	value   T
	breaker *CircuitBreaker
}

// FallbackGroup chains implementations of one collaborator slot: the primary
// first, then fallbacks in registration order. A failing or open-breaker
// entry hands the call to the next one. Safe for concurrent use.
type FallbackGroup[T any] struct {
	entries []groupEntry[T]
	cfg     FallbackConfig
}

// NewFallbackGroup starts a group with primary as its first entry. Register
// fallbacks with [FallbackGroup.AddFallback].
func NewFallbackGroup[T any](primary T, primaryName string, cfg FallbackConfig) *FallbackGroup[T] {
	fg := &FallbackGroup[T]{cfg: cfg}
	fg.add(primaryName, primary)
	return fg
}

// AddFallback appends a collaborator tried after everything registered so far.
func (fg *FallbackGroup[T]) AddFallback(name string, fallback T) {
	fg.add(name, fallback)
}

func (fg *FallbackGroup[T]) add(name string, value T) {
	cbCfg := fg.cfg.CircuitBreaker
	cbCfg.Name = name
	fg.entries = append(fg.entries, groupEntry[T]{
		name:    name,
		value:   value,
		breaker: NewCircuitBreaker(cbCfg),
	})
}

// Execute runs fn against each collaborator in order until one succeeds.
// Entries with open breakers are skipped without a call. When everything
// fails the last error is wrapped in [ErrAllFailed].
func (fg *FallbackGroup[T]) Execute(fn func(T) error) error {
	var lastErr error
	for i := range fg.entries {
		entry := &fg.entries[i]
		err := entry.breaker.Execute(func() error {
			return fn(entry.value)
		})
		if err == nil {
			return nil
		}
		lastErr = err
		logGroupMiss(entry.name, err)
	}
	return fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}

// ExecuteWithResult is [FallbackGroup.Execute] for calls that produce a
// value. A package-level function because Go methods cannot introduce type
// parameters.
func ExecuteWithResult[T any, R any](fg *FallbackGroup[T], fn func(T) (R, error)) (R, error) {
	var (
		lastErr error
		zero    R
	)
	for i := range fg.entries {
		entry := &fg.entries[i]
		var result R
		err := entry.breaker.Execute(func() error {
			var innerErr error
			result, innerErr = fn(entry.value)
			return innerErr
		})
		if err == nil {
			return result, nil
		}
		lastErr = err
		logGroupMiss(entry.name, err)
	}
	return zero, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}

func logGroupMiss(name string, err error) {
	if errors.Is(err, ErrCircuitOpen) {
		slog.Debug("collaborator skipped, breaker open", "collaborator", name)
		return
	}
	slog.Warn("collaborator failed, trying next", "collaborator", name, "error", err)
}
