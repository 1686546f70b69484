// Package correct applies ordered, locale-specific corrections to raw
// utterance text before any tokenization happens. Voice transcription makes
// systematic phonetic mistakes — homophone digits, mangled unit words — and
// fixing them early keeps the damage out of every later stage.
//
// The engine runs four passes:
//
//  1. Every protected phrase (complete food and time words whose substrings
//     collide with correction keys) is swapped for a unique placeholder.
//  2. The ordered literal substring rules are applied.
//  3. The regex rules are applied, including the container-disambiguation
//     rules that qualify a bare "milk-like" token only when a container-count
//     phrase precedes it. Go's RE2 has no lookaround; step 1 stands in for
//     the negative lookbehind by removing already-complete dairy names from
//     the text before these rules can see them.
//  4. Placeholders are restored.
//
// Applying the corrector twice yields the same text as applying it once, and
// it never fails: unmapped input passes through unchanged.
package correct

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pantryvox/pantryvox/pkg/types"
)

// Rule is a single correction. Exactly one of Find or Pattern is set: Find is
// a literal substring rule, Pattern a compiled regex rule whose Replace may
// use $1-style group references.
type Rule struct {
	Find    string
	Pattern *regexp.Regexp
	Replace string
}

// Table is a locale's complete correction rule set.
type Table struct {
	// Protected lists multi-character phrases that must never be altered by
	// substring rules. Order is irrelevant; longer phrases are shielded first.
	Protected []string

	// Rules are applied in order after protection.
	Rules []Rule
}

// Corrector applies one locale's [Table].
// It is read-only after construction and safe for concurrent use.
type Corrector struct {
	table Table
}

// New returns a [Corrector] for the given table.
func New(table Table) *Corrector {
	// Shield longer phrases first so "大后天" wins over "后天".
	protected := make([]string, len(table.Protected))
	copy(protected, table.Protected)
	for i := 1; i < len(protected); i++ {
		for j := i; j > 0 && len(protected[j]) > len(protected[j-1]); j-- {
			protected[j], protected[j-1] = protected[j-1], protected[j]
		}
	}
	table.Protected = protected
	return &Corrector{table: table}
}

// ForLocale returns a [Corrector] loaded with the builtin table for locale.
func ForLocale(locale types.Locale) *Corrector {
	if locale == types.LocaleZH {
		return New(builtinZH())
	}
	return New(builtinEN())
}

// Apply runs the correction passes over text and returns the corrected text.
// It is a pure string transform: no side effects, no failure mode.
func (c *Corrector) Apply(text string) string {
	if text == "" {
		return text
	}

	// Pass 1: shield protected phrases. The placeholder uses control bytes
	// that cannot occur in spoken text, so rules can never match across it.
	shielded := text
	for i, phrase := range c.table.Protected {
		placeholder := fmt.Sprintf("\x02%d\x03", i)
		shielded = strings.ReplaceAll(shielded, phrase, placeholder)
	}

	// Passes 2 and 3: ordered rules.
	for _, r := range c.table.Rules {
		if r.Pattern != nil {
			shielded = r.Pattern.ReplaceAllString(shielded, r.Replace)
		} else if r.Find != "" {
			shielded = strings.ReplaceAll(shielded, r.Find, r.Replace)
		}
	}

	// Pass 4: restore.
	for i := len(c.table.Protected) - 1; i >= 0; i-- {
		placeholder := fmt.Sprintf("\x02%d\x03", i)
		shielded = strings.ReplaceAll(shielded, placeholder, c.table.Protected[i])
	}
	return shielded
}

// builtinEN is the English correction table. The literal rules fix homophone
// digit/unit confusions common in shopping-list speech transcription.
func builtinEN() Table {
	return Table{
		Protected: []string{
			// Time words that survive into the expiration extractor.
			"day after tomorrow", "tomorrow", "today",
			// Food words whose substrings collide with correction keys.
			"tomato", "tomatoes", "potato", "potatoes",
		},
		Rules: []Rule{
			// Homophone numbers glued to count/container words.
			{Find: "to bottles", Replace: "two bottles"},
			{Find: "too bottles", Replace: "two bottles"},
			{Find: "to bags", Replace: "two bags"},
			{Find: "won bottle", Replace: "one bottle"},
			{Find: "won box", Replace: "one box"},
			{Find: "for apples", Replace: "four apples"},
			{Find: "for eggs", Replace: "four eggs"},
			{Find: "ate eggs", Replace: "eight eggs"},
			{Find: "tree pounds", Replace: "three pounds"},
			{Find: "free pounds", Replace: "three pounds"},
			// Mangled unit words.
			{Find: "mill leaders", Replace: "milliliters"},
			{Find: "killer grams", Replace: "kilograms"},
			{Pattern: regexp.MustCompile(`\bleaders\b`), Replace: "liters"},
		},
	}
}

// builtinZH is the Chinese correction table. 斤/今, 瓶/平 and friends are
// classic Mandarin transcription homophones. The final regex rules qualify a
// bare 奶 after a container-count phrase into 牛奶; complete dairy names are
// already shielded by the protected list, so they are never split.
func builtinZH() Table {
	return Table{
		Protected: []string{
			"大后天", "后天", "明天", "今天",
			"牛奶", "酸奶", "奶酪", "奶油", "豆腐", "西红柿",
		},
		Rules: []Rule{
			// Homophone unit fixes.
			{Find: "公今", Replace: "公斤"},
			{Find: "工斤", Replace: "公斤"},
			{Pattern: regexp.MustCompile(`([0-9一二两三四五六七八九十])今`), Replace: "${1}斤"},
			{Pattern: regexp.MustCompile(`([0-9一二两三四五六七八九十])平`), Replace: "${1}瓶"},
			{Pattern: regexp.MustCompile(`([0-9一二两三四五六七八九十])贯`), Replace: "${1}罐"},
			{Find: "以瓶", Replace: "一瓶"},
			{Find: "毫生", Replace: "毫升"},
			// Mangled date words.
			{Find: "到欺", Replace: "到期"},
			{Find: "道期", Replace: "到期"},
			{Find: "过欺", Replace: "过期"},
			// Container disambiguation: a bare 奶 right after a counted
			// container means 牛奶.
			{Pattern: regexp.MustCompile(`([0-9一二两三四五六七八九十半]+(?:瓶|盒|罐|杯|箱))奶`), Replace: "${1}牛奶"},
		},
	}
}
