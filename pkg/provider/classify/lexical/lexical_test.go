package lexical_test

import (
	"context"
	"testing"

	"github.com/pantryvox/pantryvox/pkg/provider/classify/lexical"
	"github.com/pantryvox/pantryvox/pkg/types"
)

func TestClassifyBatch(t *testing.T) {
	t.Parallel()
	p := lexical.New()

	names := []string{"apple", "牛奶", "beef", "三文鱼", "soy sauce", "wrench", ""}
	want := []types.FoodCategory{
		types.CategoryFruit,
		types.CategoryDairy,
		types.CategoryMeat,
		types.CategorySeafood,
		types.CategoryCondiment,
		types.CategoryOther,
		types.CategoryOther,
	}

	results, err := p.ClassifyBatch(context.Background(), names)
	if err != nil {
		t.Fatalf("ClassifyBatch: %v", err)
	}
	if len(results) != len(names) {
		t.Fatalf("result count = %d, want %d", len(results), len(names))
	}
	for i, r := range results {
		if r.Category != want[i] {
			t.Errorf("results[%d] (%q) category = %q, want %q", i, names[i], r.Category, want[i])
		}
	}
	if results[0].Emoji == "" {
		t.Error("known fruit should carry an emoji")
	}
	if results[5].Emoji != "" {
		t.Error("unknown name should carry no emoji")
	}
}

func TestClassifyBatchCancelled(t *testing.T) {
	t.Parallel()
	p := lexical.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.ClassifyBatch(ctx, []string{"apple"}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
