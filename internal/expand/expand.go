// Package expand rewrites corrected utterance text before lexical tagging.
// Four text-level rewriters run in a fixed order:
//
//  1. Numeral compounds: "three and a half" → "3.5", "half a dozen" →
//     "0.5 dozen", so the tagger never needs compound-number smarts.
//  2. Composite weights: "3斤5两" → "1750 克", including the elliptical
//     "3斤半" form (half a big unit, i.e. 250 g).
//  3. Quantity-container-volume: "two bottles 400ml" → "400ml 400ml", so the
//     tagger sees independent volume-bearing tokens instead of one
//     ambiguous compound.
//  4. Number-unit gluing: a space is inserted between every digit run and an
//     immediately following unit spelling ("20lbs" → "20 lbs"), longest
//     spelling first.
//
// Every rewriter is total: it never fails and returns its input unchanged
// when no pattern matches.
package expand

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pantryvox/pantryvox/internal/numword"
	"github.com/pantryvox/pantryvox/internal/units"
	"github.com/pantryvox/pantryvox/pkg/types"
)

const (
	jinGrams   = 500 // 斤, the Chinese catty
	liangGrams = 50  // 两, the Chinese tael; ten to a catty
)

var (
	numberWordAlt = `[0-9]+(?:\.[0-9]+)?|one|two|three|four|five|six|seven|eight|nine|ten|an|a`

	halfCompoundRe = regexp.MustCompile(`(?i)\b(` + numberWordAlt + `)\s+and\s+a\s+half\b`)
	halfARe        = regexp.MustCompile(`(?i)\bhalf\s+an?\s+`)

	compositeFullRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?|[一二两三四五六七八九十]+)斤([0-9]+(?:\.[0-9]+)?|[一二三四五六七八九])两`)
	compositeHalfRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?|[一二两三四五六七八九十]+)斤半`)

	containerVolENRe = regexp.MustCompile(`(?i)\b(` + numberWordAlt + `)\s+(bottles?|cans?|jars?|cartons?|boxes?|cups?|packs?|bags?|buckets?)\s+(?:of\s+)?([0-9]+(?:\.[0-9]+)?)\s*(milliliters?|millilitres?|liters?|litres?|ml|l)\b`)
	containerVolZHRe = regexp.MustCompile(`([0-9]+|[一二两三四五六七八九十]+)[瓶罐听盒杯桶袋包箱]([0-9]+(?:\.[0-9]+)?)(毫升|公升|升)`)
)

// Expander runs the pre-tokenization rewrites. It is read-only after
// construction and safe for concurrent use.
type Expander struct {
	locale  types.Locale
	glueEN  *regexp.Regexp
	glueCJK *regexp.Regexp
}

// New builds an [Expander] whose gluing pass recognises every spelling in
// reg, longest first.
func New(locale types.Locale, reg *units.Registry) *Expander {
	var ascii, cjk []string
	for _, sp := range reg.Spellings() { // already longest-first
		if isASCII(sp) {
			ascii = append(ascii, regexp.QuoteMeta(sp))
		} else {
			cjk = append(cjk, regexp.QuoteMeta(sp))
		}
	}
	return &Expander{
		locale:  locale,
		glueEN:  regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)(` + strings.Join(ascii, "|") + `)\b`),
		glueCJK: regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)(` + strings.Join(cjk, "|") + `)`),
	}
}

// Apply runs all rewriters in order and returns the expanded text.
func (e *Expander) Apply(text string) string {
	text = e.numeralCompounds(text)
	text = e.compositeWeights(text)
	text = e.containerVolumes(text)
	text = e.glueNumberUnits(text)
	return text
}

// numeralCompounds folds "N and a half" and "half a(n)" into plain decimals.
func (e *Expander) numeralCompounds(text string) string {
	text = halfCompoundRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := halfCompoundRe.FindStringSubmatch(m)
		n, ok := numword.Parse(sub[1], types.LocaleEN)
		if !ok {
			return m
		}
		return formatQuantity(n + 0.5)
	})
	return halfARe.ReplaceAllString(text, "0.5 ")
}

// compositeWeights rewrites catty-tael expressions into a single gram token
// pair. "3斤5两" → "1750 克"; "3斤半" → "1750 克" (the elliptical form adds
// half a catty).
func (e *Expander) compositeWeights(text string) string {
	text = compositeFullRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := compositeFullRe.FindStringSubmatch(m)
		big, okB := numword.Parse(sub[1], types.LocaleZH)
		small, okS := numword.Parse(sub[2], types.LocaleZH)
		if !okB || !okS {
			return m
		}
		grams := big*jinGrams + small*liangGrams
		return formatQuantity(grams) + " 克"
	})
	return compositeHalfRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := compositeHalfRe.FindStringSubmatch(m)
		big, ok := numword.Parse(sub[1], types.LocaleZH)
		if !ok {
			return m
		}
		grams := big*jinGrams + jinGrams/2
		return formatQuantity(grams) + " 克"
	})
}

// containerVolumes expands "<N> <container> <volume><unit>" into N repeated
// volume expressions. The container itself is dropped: each repetition is an
// independent, fully specified volume.
func (e *Expander) containerVolumes(text string) string {
	expand := func(re *regexp.Regexp, locale types.Locale) {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			sub := re.FindStringSubmatch(m)
			n, ok := numword.Parse(sub[1], locale)
			if !ok || n < 1 || n > 64 {
				return m
			}
			var vol, unit string
			if len(sub) == 5 {
				vol, unit = sub[3], sub[4]
			} else {
				vol, unit = sub[2], sub[3]
			}
			rep := make([]string, int(n))
			for i := range rep {
				rep[i] = vol + unit
			}
			return strings.Join(rep, " ")
		})
	}
	expand(containerVolENRe, types.LocaleEN)
	expand(containerVolZHRe, types.LocaleZH)
	return text
}

// glueNumberUnits inserts the separating space between a digit run and an
// adjacent unit spelling so the tagger never has to split "20lbs" itself.
func (e *Expander) glueNumberUnits(text string) string {
	text = e.glueEN.ReplaceAllString(text, "$1 $2")
	return e.glueCJK.ReplaceAllString(text, "$1 $2")
}

// formatQuantity renders a computed quantity without a trailing ".0" when it
// is integral.
func formatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
