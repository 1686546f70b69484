package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	classifymock "github.com/pantryvox/pantryvox/pkg/provider/classify/mock"
	"github.com/pantryvox/pantryvox/pkg/types"
)

func TestClassifyFallback_PrimarySuccess(t *testing.T) {
	primary := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryFruit, Emoji: "🍎"}},
	}
	secondary := &classifymock.Provider{}

	f := NewClassifyFallback(primary, "primary", FallbackConfig{})
	f.AddFallback("secondary", secondary)

	res, err := f.ClassifyBatch(context.Background(), []string{"apple"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].Category != types.CategoryFruit {
		t.Fatalf("res = %+v, want one fruit result", res)
	}
	if secondary.CallCount() != 0 {
		t.Fatal("secondary should not be called when primary succeeds")
	}
}

func TestClassifyFallback_FailsOver(t *testing.T) {
	primary := &classifymock.Provider{Err: errors.New("backend down")}
	secondary := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryDairy}},
	}

	f := NewClassifyFallback(primary, "primary", FallbackConfig{})
	f.AddFallback("secondary", secondary)

	res, err := f.ClassifyBatch(context.Background(), []string{"milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].Category != types.CategoryDairy {
		t.Fatalf("res = %+v, want one dairy result from fallback", res)
	}
}

func TestClassifyFallback_AllFail(t *testing.T) {
	primary := &classifymock.Provider{Err: errors.New("down")}

	f := NewClassifyFallback(primary, "primary", FallbackConfig{})

	_, err := f.ClassifyBatch(context.Background(), []string{"milk"})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
}
