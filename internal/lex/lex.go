// Package lex splits expanded utterance text into classified tokens. The
// tagger is deliberately coarse: every token is one of four classes (number,
// noun, connector, other) and all domain knowledge beyond that lives in the
// accumulator. The [Tagger] interface keeps the classifier pluggable; the
// builtin [RuleTagger] covers both locales without any model dependency.
package lex

import (
	"strings"
	"unicode"

	"github.com/pantryvox/pantryvox/internal/lexicon"
	"github.com/pantryvox/pantryvox/internal/numword"
	"github.com/pantryvox/pantryvox/internal/units"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Class is the lexical class of one token.
type Class int

const (
	// Number tokens parse as a quantity ("3", "three", "两", "半").
	Number Class = iota

	// Noun tokens are potential food names or unit spellings.
	Noun

	// Connector tokens are glue words ("and", "of", "还有") that separate or
	// join item descriptions.
	Connector

	// Other tokens are fillers and fragments ("um", "嗯") that carry no
	// inventory meaning.
	Other
)

// String returns the lowercase name of the class.
func (c Class) String() string {
	switch c {
	case Number:
		return "number"
	case Noun:
		return "noun"
	case Connector:
		return "connector"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Token is one classified lexical token.
type Token struct {
	// Text is the token's surface form, lowercased for ASCII.
	Text string

	// Class is the 4-way lexical class.
	Class Class
}

// Tagger converts expanded text into a classified token stream.
// Implementations must be safe for concurrent use.
type Tagger interface {
	Tag(text string) []Token
}

// connectorsEN are English glue words. They terminate a pending item
// description without contributing to it.
var connectorsEN = map[string]struct{}{
	"and": {}, "also": {}, "plus": {}, "then": {},
	"i": {}, "we": {}, "bought": {}, "buy": {}, "got": {}, "get": {},
	"have": {}, "need": {}, "put": {}, "picked": {}, "up": {},
	"of": {}, "the": {}, "some": {}, "in": {}, "to": {}, "at": {},
	"it": {}, "is": {}, "are": {}, "there": {}, "my": {},
}

// fillersEN are English hesitation sounds.
var fillersEN = map[string]struct{}{
	"um": {}, "uh": {}, "er": {}, "ah": {}, "hmm": {}, "mm": {}, "uhm": {},
}

// connectorsZH are Chinese glue words, longest first so segmentation never
// splits 还有 into 还 + 有.
var connectorsZH = []string{
	"我买了", "买了", "还有", "以及", "然后",
	"我", "和", "跟", "的", "是", "有", "要", "放", "在",
}

// fillersZH are Chinese hesitation particles.
var fillersZH = map[rune]struct{}{
	'嗯': {}, '啊': {}, '呃': {}, '哦': {}, '呢': {}, '吧': {},
}

// RuleTagger is the builtin rule-based [Tagger]. English text is split on
// whitespace and classified per word; Chinese text is segmented by longest
// match over unit spellings, connectors, lexicon entries, and numeral runs,
// with a single-rune noun fallback.
type RuleTagger struct {
	locale types.Locale
	units  *units.Registry
	lex    *lexicon.Lexicon
}

// NewRuleTagger builds a [RuleTagger] for locale backed by the given unit
// registry and food lexicon.
func NewRuleTagger(locale types.Locale, reg *units.Registry, lex *lexicon.Lexicon) *RuleTagger {
	return &RuleTagger{locale: locale, units: reg, lex: lex}
}

// Tag implements [Tagger].
func (t *RuleTagger) Tag(text string) []Token {
	if t.locale == types.LocaleZH {
		return t.tagZH(text)
	}
	return t.tagEN(text)
}

// tagEN classifies whitespace-separated words.
func (t *RuleTagger) tagEN(text string) []Token {
	var tokens []Token
	for _, field := range strings.Fields(text) {
		word := strings.ToLower(strings.Trim(field, ".,;:!?()\"'"))
		if word == "" {
			continue
		}
		tokens = append(tokens, Token{Text: word, Class: t.classifyEN(word)})
	}
	return tokens
}

func (t *RuleTagger) classifyEN(word string) Class {
	if numword.IsNumber(word, types.LocaleEN) {
		return Number
	}
	if _, ok := connectorsEN[word]; ok {
		return Connector
	}
	if _, ok := fillersEN[word]; ok {
		return Other
	}
	if !hasLetterOrHan(word) {
		return Other
	}
	return Noun
}

// tagZH segments unspaced Chinese text. At each position the matchers are
// tried in a fixed order; whichever matches consumes its runes and emits one
// token. ASCII digit runs embedded in Chinese text (a common transcription
// artifact) are consumed as numbers.
func (t *RuleTagger) tagZH(text string) []Token {
	var tokens []Token
	runes := []rune(text)

	for i := 0; i < len(runes); {
		r := runes[i]

		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			i++
			continue
		}

		if r < 128 {
			word, n := consumeASCII(runes[i:])
			if cls := t.classifyEN(word); word != "" {
				tokens = append(tokens, Token{Text: word, Class: cls})
			}
			i += n
			continue
		}

		if _, ok := fillersZH[r]; ok {
			tokens = append(tokens, Token{Text: string(r), Class: Other})
			i++
			continue
		}

		rest := string(runes[i:])

		// 两 reads as the number two exactly when a unit follows; otherwise it
		// is the tael weight unit and falls through to the unit matcher.
		if r == '两' && i+1 < len(runes) && t.units.MatchPrefix(string(runes[i+1:])) != "" {
			tokens = append(tokens, Token{Text: "两", Class: Number})
			i++
			continue
		}

		if conn := matchConnector(rest); conn != "" {
			tokens = append(tokens, Token{Text: conn, Class: Connector})
			i += len([]rune(conn))
			continue
		}

		if num, n := consumeNumeralRun(runes[i:]); n > 0 {
			tokens = append(tokens, Token{Text: num, Class: Number})
			i += n
			continue
		}

		if u := t.units.MatchPrefix(rest); u != "" {
			tokens = append(tokens, Token{Text: u, Class: Noun})
			i += len([]rune(u))
			continue
		}

		if food := t.lex.MatchPrefix(rest); food != "" {
			tokens = append(tokens, Token{Text: food, Class: Noun})
			i += len([]rune(food))
			continue
		}

		tokens = append(tokens, Token{Text: string(r), Class: Noun})
		i++
	}
	return tokens
}

// consumeASCII consumes a run of ASCII letters, digits, and the decimal
// point, returning the lowercased word and the rune count consumed.
func consumeASCII(runes []rune) (string, int) {
	n := 0
	for n < len(runes) && runes[n] < 128 &&
		(unicode.IsLetter(runes[n]) || unicode.IsDigit(runes[n]) || runes[n] == '.') {
		n++
	}
	if n == 0 {
		return "", 1 // lone ASCII symbol; skip it
	}
	return strings.ToLower(strings.Trim(string(runes[:n]), ".")), n
}

// consumeNumeralRun consumes consecutive Chinese numeral runes. 两 never
// joins a run: the tagger's lookahead rule decides between number-两 and the
// tael unit before the run matcher ever sees it (五两 is five taels, not
// fifty-two).
func consumeNumeralRun(runes []rune) (string, int) {
	n := 0
	for n < len(runes) && numword.IsNumeralRune(runes[n]) && runes[n] != '两' {
		n++
	}
	if n == 0 {
		return "", 0
	}
	return string(runes[:n]), n
}

// matchConnector returns the longest Chinese connector that s begins with.
func matchConnector(s string) string {
	for _, c := range connectorsZH {
		if strings.HasPrefix(s, c) {
			return c
		}
	}
	return ""
}

func hasLetterOrHan(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
