package parser_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pantryvox/pantryvox/pkg/parser"
	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	classifymock "github.com/pantryvox/pantryvox/pkg/provider/classify/mock"
	shelfmock "github.com/pantryvox/pantryvox/pkg/provider/shelf/mock"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// now anchors every relative-date scenario. A Thursday, late August.
var now = time.Date(2026, time.August, 28, 10, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newParser(t *testing.T, locale types.Locale, classifier *classifymock.Provider, advisor *shelfmock.Advisor) *parser.Parser {
	t.Helper()
	p, err := parser.New(locale, classifier, advisor, parser.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestParse_EnglishGroceryRun(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Fn: func(_ context.Context, names []string) ([]classify.Result, error) {
			res := make([]classify.Result, len(names))
			for i, n := range names {
				switch n {
				case "apple":
					res[i] = classify.Result{Category: types.CategoryFruit, Emoji: "🍎"}
				case "milk":
					res[i] = classify.Result{Category: types.CategoryDairy, Emoji: "🥛"}
				default:
					res[i] = classify.Result{Category: types.CategoryOther}
				}
			}
			return res, nil
		},
	}
	advisor := &shelfmock.Advisor{Storage: types.LocationFridge, Days: 7}

	p := newParser(t, types.LocaleEN, classifier, advisor)
	items, err := p.Parse(context.Background(), "I bought three apples and a bottle of milk, expires in 3 days", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}

	apple := items[0]
	if apple.Name != "apple" || apple.Quantity != 3 || apple.Unit != types.UnitCount {
		t.Errorf("apple = %+v, want 3 count", apple)
	}
	if apple.Category != types.CategoryFruit {
		t.Errorf("apple category = %q", apple.Category)
	}

	milk := items[1]
	if milk.Name != "milk" || milk.Quantity != 1 || milk.Unit != types.UnitCount {
		t.Errorf("milk = %+v, want 1 count", milk)
	}
	if !milk.NeedsVolumeInput {
		t.Error("a bottle of milk should request explicit volume input")
	}
	if milk.DisplayUnit != "bottle" {
		t.Errorf("milk display unit = %q, want bottle", milk.DisplayUnit)
	}

	// The stated date applies to every item of the utterance.
	wantExp := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	for _, it := range items {
		if it.ExpirationDate == nil || !it.ExpirationDate.Equal(wantExp) {
			t.Errorf("%s expiration = %v, want %v", it.Name, it.ExpirationDate, wantExp)
		}
		if !it.PurchaseDate.Equal(time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("%s purchase date = %v, want day of now", it.Name, it.PurchaseDate)
		}
	}

	// The shelf-life table must not override a stated date.
	if len(advisor.ShelfLifeCalls) != 0 {
		t.Errorf("shelf life consulted %d times despite stated date", len(advisor.ShelfLifeCalls))
	}
}

func TestParse_ChineseCompositeWeight(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryMeat, Emoji: "🥩"}},
	}
	advisor := &shelfmock.Advisor{Storage: types.LocationFridge, Days: 3}

	p := newParser(t, types.LocaleZH, classifier, advisor)
	items, err := p.Parse(context.Background(), "3斤5两牛肉", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}

	beef := items[0]
	if beef.Name != "牛肉" {
		t.Errorf("name = %q, want 牛肉", beef.Name)
	}
	if beef.Quantity != 1750 || beef.Unit != types.UnitGram {
		t.Errorf("quantity = %d %s, want 1750 g", beef.Quantity, beef.Unit)
	}
	wantExp := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	if beef.ExpirationDate == nil || !beef.ExpirationDate.Equal(wantExp) {
		t.Errorf("expiration = %v, want purchase+3d from shelf life", beef.ExpirationDate)
	}
}

func TestParse_HalfDozenEggs(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryEgg, Emoji: "🥚"}},
	}
	advisor := &shelfmock.Advisor{Storage: types.LocationFridge, Days: 21}

	p := newParser(t, types.LocaleEN, classifier, advisor)
	items, err := p.Parse(context.Background(), "half a dozen eggs", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}
	if items[0].Name != "egg" || items[0].Quantity != 6 || items[0].Unit != types.UnitCount {
		t.Errorf("item = %+v, want 6 eggs", items[0])
	}
}

func TestParse_ChineseExplicitDate(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryDairy}},
	}
	advisor := &shelfmock.Advisor{Storage: types.LocationFridge, Days: 14}

	p := newParser(t, types.LocaleZH, classifier, advisor)
	items, err := p.Parse(context.Background(), "酸奶9月15号到期", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}
	wantExp := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	if items[0].ExpirationDate == nil || !items[0].ExpirationDate.Equal(wantExp) {
		t.Errorf("expiration = %v, want %v", items[0].ExpirationDate, wantExp)
	}
}

func TestParse_NoiseOnlyYieldsNothing(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{}
	advisor := &shelfmock.Advisor{}

	p := newParser(t, types.LocaleEN, classifier, advisor)
	for _, text := range []string{
		"",
		"um uh hmm",
		"three wrenches",
	} {
		items, err := p.Parse(context.Background(), text, now)
		if err != nil {
			t.Fatalf("Parse(%q): %v", text, err)
		}
		if len(items) != 0 {
			t.Errorf("Parse(%q) = %+v, want nothing", text, items)
		}
	}
	if classifier.CallCount() != 0 {
		t.Error("collaborators should not be consulted for empty parses")
	}
}

func TestParse_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newParser(t, types.LocaleEN, &classifymock.Provider{}, &shelfmock.Advisor{})
	items, err := p.Parse(ctx, "three apples", now)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if items != nil {
		t.Fatalf("items = %+v, want nil", items)
	}
}

func TestNew_RejectsUnknownLocale(t *testing.T) {
	t.Parallel()
	_, err := parser.New("fr", &classifymock.Provider{}, &shelfmock.Advisor{})
	if err == nil {
		t.Fatal("expected error for unsupported locale, got nil")
	}
}

func TestParse_DanglingExpiryVerbNeverJoinsName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		locale types.Locale
		in     string
		want   string
	}{
		{"english bare verb", types.LocaleEN, "the milk expired", "milk"},
		{"chinese bare verb", types.LocaleZH, "牛奶过期了", "牛奶"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			classifier := &classifymock.Provider{
				Results: []classify.Result{{Category: types.CategoryDairy}},
			}
			advisor := &shelfmock.Advisor{Storage: types.LocationFridge, Days: 7}

			p := newParser(t, tt.locale, classifier, advisor)
			items, err := p.Parse(context.Background(), tt.in, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("items = %+v, want exactly one", items)
			}
			if items[0].Name != tt.want {
				t.Errorf("name = %q, want %q (verb must not leak into the name)", items[0].Name, tt.want)
			}
		})
	}
}

func TestParse_MisheardNameStillResolves(t *testing.T) {
	t.Parallel()

	classifier := &classifymock.Provider{
		Results: []classify.Result{{Category: types.CategoryFruit}},
	}
	advisor := &shelfmock.Advisor{Storage: types.LocationPantry, Days: 5}

	p := newParser(t, types.LocaleEN, classifier, advisor)
	items, err := p.Parse(context.Background(), "two bananna", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "banana" {
		t.Fatalf("items = %+v, want one banana", items)
	}
	if items[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", items[0].Quantity)
	}
}
