// Package enrich fans parsed items out to the enrichment collaborators:
// batch classification (category + emoji), storage recommendation, and the
// shelf-life fallback for items without an explicit expiration statement.
//
// Concurrency model: classification is one batched call for the whole
// utterance; the per-item advisor calls then run concurrently, one goroutine
// per item, joined with errgroup. Output order always matches input order —
// items surface in the order the user spoke them.
//
// Failure model: a collaborator failure is not a parse failure. Items fall
// back to [types.CategoryOther], [types.LocationPantry], and no expiration
// date. Cancellation is different: when ctx is cancelled the whole operation
// returns the context error and no items, never a partially enriched list.
package enrich

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Enricher orchestrates the collaborator calls for one utterance's items.
// It is read-only after construction and safe for concurrent use.
type Enricher struct {
	classifier classify.Provider
	advisor    shelf.Advisor
	logger     *slog.Logger
}

// Option is a functional option for [New].
type Option func(*Enricher)

// WithLogger sets the logger used for collaborator failure warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enricher) { e.logger = l }
}

// New creates an [Enricher] backed by the given collaborators.
func New(classifier classify.Provider, advisor shelf.Advisor, opts ...Option) *Enricher {
	e := &Enricher{
		classifier: classifier,
		advisor:    advisor,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Enrich fills the collaborator-sourced fields of items: Category, Emoji,
// RecommendedStorage, StorageLocation, and ExpirationDate.
//
// explicit, when non-nil, is the user-stated expiration date and applies to
// every item of the utterance; the shelf-life fallback is then never
// consulted. items is modified in place and returned in its original order.
func (e *Enricher) Enrich(ctx context.Context, items []types.FoodItem, explicit *time.Time) ([]types.FoodItem, error) {
	if len(items) == 0 {
		return items, nil
	}

	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}

	classifications, err := e.classifier.ClassifyBatch(ctx, names)
	if err != nil || len(classifications) != len(items) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			e.logger.Warn("classification collaborator failed, using defaults",
				"items", len(items), "error", err)
		} else {
			e.logger.Warn("classification result misaligned, using defaults",
				"items", len(items), "results", len(classifications))
		}
		classifications = make([]classify.Result, len(items))
		for i := range classifications {
			classifications[i].Category = types.CategoryOther
		}
	}
	for i := range items {
		items[i].Category = classifications[i].Category
		items[i].Emoji = classifications[i].Emoji
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		g.Go(func() error {
			return e.enrichOne(gctx, &items[i], explicit)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// Never hand back a partially enriched list after cancellation.
		return nil, err
	}
	return items, nil
}

// enrichOne resolves storage and expiration for a single item. Each item is
// owned exclusively by its goroutine, so no locking is needed.
func (e *Enricher) enrichOne(ctx context.Context, item *types.FoodItem, explicit *time.Time) error {
	storage, err := e.advisor.RecommendStorage(ctx, item.Name, item.Category)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		e.logger.Warn("storage collaborator failed, defaulting to pantry",
			"item", item.Name, "error", err)
		storage = types.LocationPantry
	}
	item.RecommendedStorage = storage
	item.StorageLocation = storage

	if explicit != nil {
		d := *explicit
		item.ExpirationDate = &d
		return nil
	}

	days, err := e.advisor.ShelfLifeDays(ctx, item.Name, item.Category, storage)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// No expiration is better than an invented one.
		e.logger.Warn("shelf-life collaborator failed, leaving expiration unset",
			"item", item.Name, "error", err)
		return nil
	}
	if days > 0 {
		d := item.PurchaseDate.AddDate(0, 0, days)
		item.ExpirationDate = &d
	}
	return nil
}
