package numword_test

import (
	"testing"

	"github.com/pantryvox/pantryvox/internal/numword"
	"github.com/pantryvox/pantryvox/pkg/types"
)

func TestParse_English(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  float64
		ok    bool
	}{
		{"three", 3, true},
		{"Three", 3, true},
		{"a", 1, true},
		{"an", 1, true},
		{"half", 0.5, true},
		{"twenty", 20, true},
		{"3", 3, true},
		{"2.5", 2.5, true},
		{"", 0, false},
		{"apple", 0, false},
		{"三", 0, false}, // zh numerals need the zh locale
	}
	for _, tt := range tests {
		got, ok := numword.Parse(tt.token, types.LocaleEN)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q, en) = %v, %v; want %v, %v", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParse_Chinese(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  float64
		ok    bool
	}{
		{"三", 3, true},
		{"两", 2, true},
		{"半", 0.5, true},
		{"十", 10, true},
		{"十五", 15, true},
		{"三十", 30, true},
		{"三十五", 35, true},
		{"五半", 5.5, true},
		{"三十五半", 35.5, true},
		{"3", 3, true},
		{"一二", 0, false}, // digit concatenation is not spoken Chinese
		{"十十", 0, false},
		{"牛", 0, false},
	}
	for _, tt := range tests {
		got, ok := numword.Parse(tt.token, types.LocaleZH)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q, zh) = %v, %v; want %v, %v", tt.token, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsNumeralRune(t *testing.T) {
	t.Parallel()

	for _, r := range []rune{'三', '两', '十', '半', '零'} {
		if !numword.IsNumeralRune(r) {
			t.Errorf("IsNumeralRune(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'牛', 'a', '斤'} {
		if numword.IsNumeralRune(r) {
			t.Errorf("IsNumeralRune(%q) = true, want false", r)
		}
	}
}
