// Package numword parses spoken-number tokens in both supported locales:
// plain digit runs ("3", "2.5"), English number words ("three", "a", "half"),
// and Chinese numerals ("三", "两", "三十五", "半"). It is shared by the
// pre-tokenization expanders, the rule tagger, the accumulator state machine,
// and the expiration extractor so that all four agree on what counts as a
// number.
package numword

import (
	"strconv"
	"strings"

	"github.com/pantryvox/pantryvox/pkg/types"
)

// english maps lowercase English number words to their values. "a"/"an" are
// included because "a bottle of milk" means exactly one bottle.
var english = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"half": 0.5,
}

// chineseDigit maps single Chinese numeral runes to their values. "两" is the
// spoken form of 2 before a measure word; "半" is one half.
var chineseDigit = map[rune]float64{
	'零': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9, '半': 0.5,
}

// Parse converts a number token into its numeric value. It accepts digit runs
// (with an optional decimal point), English number words in the en locale,
// and Chinese numerals (including 十-compounds like 三十五) in the zh locale.
// The second return value is false when token is not a number in the locale.
func Parse(token string, locale types.Locale) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(token, 64); err == nil {
		return v, true
	}

	switch locale {
	case types.LocaleZH:
		return parseChinese(token)
	default:
		v, ok := english[strings.ToLower(token)]
		return v, ok
	}
}

// IsNumber reports whether token parses as a number in the locale.
func IsNumber(token string, locale types.Locale) bool {
	_, ok := Parse(token, locale)
	return ok
}

// IsNumeralRune reports whether r can appear inside a Chinese numeral run.
func IsNumeralRune(r rune) bool {
	if _, ok := chineseDigit[r]; ok {
		return true
	}
	return r == '十'
}

// parseChinese parses Chinese numerals up to 99 plus the 半 fraction.
// Supported shapes: 五, 两, 十, 十五, 三十, 三十五, 半, and the trailing
// fraction forms 五半 (5.5) used by elliptical weight expressions.
func parseChinese(token string) (float64, bool) {
	runes := []rune(token)

	// Trailing 半 adds one half to whatever precedes it.
	var frac float64
	if len(runes) > 1 && runes[len(runes)-1] == '半' {
		frac = 0.5
		runes = runes[:len(runes)-1]
	}

	if len(runes) == 1 {
		if runes[0] == '十' {
			return 10 + frac, true
		}
		v, ok := chineseDigit[runes[0]]
		if !ok {
			return 0, false
		}
		return v + frac, true
	}

	// 十-compound: [tens]十[ones].
	tenIdx := -1
	for i, r := range runes {
		if r == '十' {
			tenIdx = i
			break
		}
	}
	if tenIdx == -1 {
		// Digit concatenation like 一二 is not spoken Chinese; reject.
		return 0, false
	}

	tens := 1.0
	if tenIdx > 0 {
		if tenIdx != 1 {
			return 0, false
		}
		v, ok := chineseDigit[runes[0]]
		if !ok || v != float64(int(v)) {
			return 0, false
		}
		tens = v
	}

	ones := 0.0
	if tenIdx < len(runes)-1 {
		if tenIdx != len(runes)-2 {
			return 0, false
		}
		v, ok := chineseDigit[runes[len(runes)-1]]
		if !ok || v != float64(int(v)) {
			return 0, false
		}
		ones = v
	}

	return tens*10 + ones + frac, true
}
