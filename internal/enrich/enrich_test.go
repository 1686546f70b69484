package enrich_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pantryvox/pantryvox/internal/enrich"
	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	classifymock "github.com/pantryvox/pantryvox/pkg/provider/classify/mock"
	shelfmock "github.com/pantryvox/pantryvox/pkg/provider/shelf/mock"
	"github.com/pantryvox/pantryvox/pkg/types"
)

var purchase = time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

func skeleton(names ...string) []types.FoodItem {
	items := make([]types.FoodItem, len(names))
	for i, n := range names {
		items[i] = types.FoodItem{
			Name:         n,
			Quantity:     1,
			Unit:         types.UnitCount,
			PurchaseDate: purchase,
		}
	}
	return items
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrich_FillsCollaboratorFields(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{
			{Category: types.CategoryFruit, Emoji: "🍎"},
			{Category: types.CategoryDairy, Emoji: "🥛"},
		},
	}
	advisor := &shelfmock.Advisor{
		StorageFn: func(_ context.Context, name string, _ types.FoodCategory) (types.StorageLocation, error) {
			if name == "milk" {
				return types.LocationFridge, nil
			}
			return types.LocationPantry, nil
		},
		DaysFn: func(_ context.Context, name string, _ types.FoodCategory, _ types.StorageLocation) (int, error) {
			if name == "milk" {
				return 7, nil
			}
			return 14, nil
		},
	}

	e := enrich.New(classifier, advisor)
	items, err := e.Enrich(context.Background(), skeleton("apple", "milk"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	if items[0].Name != "apple" || items[1].Name != "milk" {
		t.Fatalf("order changed: %q, %q", items[0].Name, items[1].Name)
	}
	if items[0].Category != types.CategoryFruit || items[0].Emoji != "🍎" {
		t.Errorf("apple classification = %q %q", items[0].Category, items[0].Emoji)
	}
	if items[1].StorageLocation != types.LocationFridge {
		t.Errorf("milk storage = %q, want fridge", items[1].StorageLocation)
	}
	if items[1].RecommendedStorage != items[1].StorageLocation {
		t.Error("storage location should start at the recommendation")
	}

	wantMilk := purchase.AddDate(0, 0, 7)
	if items[1].ExpirationDate == nil || !items[1].ExpirationDate.Equal(wantMilk) {
		t.Errorf("milk expiration = %v, want %v", items[1].ExpirationDate, wantMilk)
	}
	wantApple := purchase.AddDate(0, 0, 14)
	if items[0].ExpirationDate == nil || !items[0].ExpirationDate.Equal(wantApple) {
		t.Errorf("apple expiration = %v, want %v", items[0].ExpirationDate, wantApple)
	}

	if classifier.CallCount() != 1 {
		t.Errorf("classifier called %d times, want one batched call", classifier.CallCount())
	}
	if got := classifier.Calls[0].Names; len(got) != 2 || got[0] != "apple" || got[1] != "milk" {
		t.Errorf("classifier batch = %v", got)
	}
}

func TestEnrich_ExplicitDateSkipsShelfLife(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryDairy}},
	}
	advisor := &shelfmock.Advisor{Storage: types.LocationFridge, Days: 7}

	explicit := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	e := enrich.New(classifier, advisor)
	items, err := e.Enrich(context.Background(), skeleton("yogurt"), &explicit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].ExpirationDate == nil || !items[0].ExpirationDate.Equal(explicit) {
		t.Errorf("expiration = %v, want the stated date %v", items[0].ExpirationDate, explicit)
	}
	if len(advisor.ShelfLifeCalls) != 0 {
		t.Errorf("shelf life consulted %d times despite explicit date", len(advisor.ShelfLifeCalls))
	}
}

func TestEnrich_ClassifierFailureDefaultsToOther(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{Err: errors.New("backend down")}
	advisor := &shelfmock.Advisor{Storage: types.LocationPantry, Days: 3}

	e := enrich.New(classifier, advisor, enrich.WithLogger(quietLogger()))
	items, err := e.Enrich(context.Background(), skeleton("apple"), nil)
	if err != nil {
		t.Fatalf("classifier failure should not fail the parse: %v", err)
	}
	if items[0].Category != types.CategoryOther {
		t.Errorf("category = %q, want other", items[0].Category)
	}
	if items[0].ExpirationDate == nil {
		t.Error("shelf-life fallback should still run after classifier failure")
	}
}

func TestEnrich_AdvisorFailureDefaults(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryFruit}},
	}
	advisor := &shelfmock.Advisor{
		StorageErr: errors.New("db down"),
		DaysErr:    errors.New("db down"),
	}

	e := enrich.New(classifier, advisor, enrich.WithLogger(quietLogger()))
	items, err := e.Enrich(context.Background(), skeleton("apple"), nil)
	if err != nil {
		t.Fatalf("advisor failure should not fail the parse: %v", err)
	}
	if items[0].StorageLocation != types.LocationPantry {
		t.Errorf("storage = %q, want pantry default", items[0].StorageLocation)
	}
	if items[0].ExpirationDate != nil {
		t.Errorf("expiration = %v, want none rather than an invented date", items[0].ExpirationDate)
	}
}

func TestEnrich_CancellationReturnsNoItems(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	classifier := &classifymock.Provider{
		Fn: func(ctx context.Context, names []string) ([]classify.Result, error) {
			cancel()
			return nil, ctx.Err()
		},
	}
	advisor := &shelfmock.Advisor{}

	e := enrich.New(classifier, advisor, enrich.WithLogger(quietLogger()))
	items, err := e.Enrich(ctx, skeleton("apple", "milk"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if items != nil {
		t.Fatalf("items = %v, want nil after cancellation", items)
	}
}

func TestEnrich_EmptyInput(t *testing.T) {
	t.Parallel()

	e := enrich.New(&classifymock.Provider{}, &shelfmock.Advisor{})
	items, err := e.Enrich(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty", items)
	}
}
