package resilience

import (
	"context"
	"errors"
	"testing"

	shelfmock "github.com/pantryvox/pantryvox/pkg/provider/shelf/mock"
	"github.com/pantryvox/pantryvox/pkg/types"
)

func TestShelfFallback_FailsOver(t *testing.T) {
	primary := &shelfmock.Advisor{
		StorageErr: errors.New("db down"),
		DaysErr:    errors.New("db down"),
	}
	secondary := &shelfmock.Advisor{
		Storage: types.LocationFridge,
		Days:    7,
	}

	f := NewShelfFallback(primary, "postgres", FallbackConfig{})
	f.AddFallback("table", secondary)

	loc, err := f.RecommendStorage(context.Background(), "milk", types.CategoryDairy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc != types.LocationFridge {
		t.Fatalf("loc = %q, want fridge from fallback", loc)
	}

	days, err := f.ShelfLifeDays(context.Background(), "milk", types.CategoryDairy, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 7 {
		t.Fatalf("days = %d, want 7 from fallback", days)
	}
}

func TestShelfFallback_AllFail(t *testing.T) {
	primary := &shelfmock.Advisor{StorageErr: errors.New("db down")}

	f := NewShelfFallback(primary, "postgres", FallbackConfig{})

	_, err := f.RecommendStorage(context.Background(), "milk", types.CategoryDairy)
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
