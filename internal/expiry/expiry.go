// Package expiry extracts explicit expiration statements from corrected
// utterance text. It runs before unit expansion so date phrases are still
// intact, and its companion Strip removes those phrases so they never leak
// into an item name.
//
// The extractor only ever reports what the user actually said: when no
// pattern matches it returns ok=false and the caller falls back to the
// shelf-life collaborator. It never fabricates a date.
package expiry

import (
	"regexp"
	"strings"
	"time"

	"github.com/pantryvox/pantryvox/internal/numword"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// pattern pairs a regex with its date resolver. Patterns are tried in slice
// order; the first match wins.
type pattern struct {
	re      *regexp.Regexp
	resolve func(m []string, now time.Time) (time.Time, bool)
}

// Extractor finds expiration dates in one locale's text.
// It is read-only after construction and safe for concurrent use.
type Extractor struct {
	locale   types.Locale
	patterns []pattern
	strips   []*regexp.Regexp
}

// New returns the [Extractor] for locale.
func New(locale types.Locale) *Extractor {
	if locale == types.LocaleZH {
		return &Extractor{locale: locale, patterns: patternsZH(), strips: stripsZH}
	}
	return &Extractor{locale: locale, patterns: patternsEN(), strips: stripsEN}
}

// Extract returns the expiration date stated in text, resolved against now.
// Pattern families are tried in order: fixed relative-day keywords, absolute
// month/day, then "in N days" offsets. ok is false when text states no
// expiration at all.
func (e *Extractor) Extract(text string, now time.Time) (time.Time, bool) {
	for _, p := range e.patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := p.resolve(m, now); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// Strip removes every expiration phrase (and common phrasing variants) from
// text so the tokenizer never sees them. Whitespace left behind is collapsed.
// Chinese text is unspaced, so there the phrase is removed without leaving a
// separator behind.
func (e *Extractor) Strip(text string) string {
	sep := " "
	if e.locale == types.LocaleZH {
		sep = ""
	}
	for _, re := range e.strips {
		text = re.ReplaceAllString(text, sep)
	}
	return strings.Join(strings.Fields(text), " ")
}

// midnight truncates now to its calendar date.
func midnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// offsetDays resolves a purchase-date-plus-N pattern.
func offsetDays(now time.Time, days int) time.Time {
	return midnight(now).AddDate(0, 0, days)
}

// monthDay builds the stated month/day in the current year, rolling forward
// one year when that date has already passed.
func monthDay(now time.Time, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if d.Before(midnight(now)) {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

// --- English ---

const numWordEN = `[0-9]+|one|two|three|four|five|six|seven|eight|nine|ten|` +
	`eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|` +
	`nineteen|twenty|thirty|forty|fifty|a`

var monthsEN = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

const monthAltEN = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|` +
	`jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|` +
	`nov(?:ember)?|dec(?:ember)?`

func patternsEN() []pattern {
	return []pattern{
		{
			re: regexp.MustCompile(`(?i)\b(?:the\s+)?day\s+after\s+tomorrow\b`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 2), true
			},
		},
		{
			re: regexp.MustCompile(`(?i)\btomorrow\b`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 1), true
			},
		},
		{
			re: regexp.MustCompile(`(?i)\btoday\b`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 0), true
			},
		},
		{
			re: regexp.MustCompile(`(?i)\b(` + monthAltEN + `)\.?\s+([0-9]{1,2})(?:st|nd|rd|th)?\b`),
			resolve: func(m []string, now time.Time) (time.Time, bool) {
				mon, ok := monthsEN[strings.ToLower(m[1])[:3]]
				if !ok {
					return time.Time{}, false
				}
				day, ok := numword.Parse(m[2], types.LocaleEN)
				if !ok {
					return time.Time{}, false
				}
				return monthDay(now, mon, int(day))
			},
		},
		{
			re: regexp.MustCompile(`(?i)\b(?:in|within)\s+(` + numWordEN + `)\s+days?\b`),
			resolve: resolveOffsetEN,
		},
		{
			re: regexp.MustCompile(`(?i)\b(` + numWordEN + `)\s+days?\s+(?:from\s+now|later)\b`),
			resolve: resolveOffsetEN,
		},
	}
}

func resolveOffsetEN(m []string, now time.Time) (time.Time, bool) {
	n, ok := numword.Parse(m[1], types.LocaleEN)
	if !ok {
		return time.Time{}, false
	}
	return offsetDays(now, int(n)), true
}

// stripsEN removes English expiration phrasing. The leading verb group
// covers "expires in", "good until", "best by", "use by" and bare offsets.
// The final pattern catches a dangling expiry verb with no date at all
// ("the milk expired") so it cannot leak into an item name.
var stripsEN = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[,，]?\s*(?:(?:it|they|and|which)\s+)*(?:expires?|expiring|expired|goes\s+bad|good|best|use)\s*(?:by|in|on|before|until)?\s*(?:(?:the\s+)?day\s+after\s+tomorrow|tomorrow|today|(?:` + numWordEN + `)\s+days?(?:\s+(?:from\s+now|later))?|(?:` + monthAltEN + `)\.?\s+[0-9]{1,2}(?:st|nd|rd|th)?)`),
	regexp.MustCompile(`(?i)[,，]?\s*(?:in|within)\s+(?:` + numWordEN + `)\s+days?\b`),
	regexp.MustCompile(`(?i)[,，]?\s*\b(?:` + numWordEN + `)\s+days?\s+(?:from\s+now|later)\b`),
	regexp.MustCompile(`(?i)[,，]?\s*\b(?:(?:the\s+)?day\s+after\s+tomorrow|tomorrow|today)\b`),
	regexp.MustCompile(`(?i)[,，]?\s*\b(?:` + monthAltEN + `)\.?\s+[0-9]{1,2}(?:st|nd|rd|th)?\b`),
	regexp.MustCompile(`(?i)[,，]?\s*(?:(?:it|they|and|which|is|are|has|have|had)\s+)*\b(?:expir(?:es|ed|e|ing)|(?:goes|gone|went)\s+bad)\b`),
}

// --- Chinese ---

const numZH = `[0-9]+|[一二两三四五六七八九十]+`

func patternsZH() []pattern {
	return []pattern{
		{
			re: regexp.MustCompile(`大后天`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 3), true
			},
		},
		{
			re: regexp.MustCompile(`后天`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 2), true
			},
		},
		{
			re: regexp.MustCompile(`明天`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 1), true
			},
		},
		{
			re: regexp.MustCompile(`今天`),
			resolve: func(_ []string, now time.Time) (time.Time, bool) {
				return offsetDays(now, 0), true
			},
		},
		{
			re: regexp.MustCompile(`(` + numZH + `)月(` + numZH + `)[日号]`),
			resolve: func(m []string, now time.Time) (time.Time, bool) {
				mon, okM := numword.Parse(m[1], types.LocaleZH)
				day, okD := numword.Parse(m[2], types.LocaleZH)
				if !okM || !okD {
					return time.Time{}, false
				}
				return monthDay(now, time.Month(mon), int(day))
			},
		},
		{
			re:      regexp.MustCompile(`(` + numZH + `)天[后後]`),
			resolve: resolveOffsetZH,
		},
		{
			re:      regexp.MustCompile(`(` + numZH + `)天(?:到期|过期)`),
			resolve: resolveOffsetZH,
		},
		{
			re:      regexp.MustCompile(`过(` + numZH + `)天`),
			resolve: resolveOffsetZH,
		},
	}
}

func resolveOffsetZH(m []string, now time.Time) (time.Time, bool) {
	n, ok := numword.Parse(m[1], types.LocaleZH)
	if !ok {
		return time.Time{}, false
	}
	return offsetDays(now, int(n)), true
}

// stripsZH removes Chinese expiration phrasing, including the 到期/过期
// trailers that follow most date statements.
var stripsZH = []*regexp.Regexp{
	regexp.MustCompile(`[,，]?(?:` + numZH + `)月(?:` + numZH + `)[日号](?:到期|过期)?`),
	regexp.MustCompile(`[,，]?(?:` + numZH + `)天[后後]?(?:到期|过期)`),
	regexp.MustCompile(`[,，]?(?:` + numZH + `)天[后後]`),
	regexp.MustCompile(`[,，]?过(?:` + numZH + `)天(?:到期|过期)?`),
	regexp.MustCompile(`[,，]?(?:大后天|后天|明天|今天)(?:到期|过期)?`),
	regexp.MustCompile(`(?:到期|过期)了?`),
}
