package parse_test

import (
	"testing"

	"github.com/pantryvox/pantryvox/internal/lexicon"
	"github.com/pantryvox/pantryvox/internal/parse"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	v := parse.NewValidator(lexicon.New(lexicon.WithoutFuzzy()))

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"exact entry", "apple", "apple", true},
		{"plural canonicalises", "apples", "apple", true},
		{"specific name kept", "apple pie", "apple pie", true},
		{"chinese entry", "牛奶", "牛奶", true},
		{"whitespace trimmed", "  beef  ", "beef", true},
		{"empty", "", "", false},
		{"single code point", "x", "", false},
		{"repeated run", "aaaa", "", false},
		{"repeated cjk run", "好好好好", "", false},
		{"filler words only", "um uh", "", false},
		{"filler cjk only", "嗯啊", "", false},
		{"unrecognised name", "wrench", "", false},
		{"three repeats still checked against lexicon", "aaa", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := v.Validate(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Validate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
