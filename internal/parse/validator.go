package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/pantryvox/pantryvox/internal/lexicon"
)

// fillerWords are whitespace-separated interjections that carry no food
// meaning in either locale.
var fillerWords = map[string]struct{}{
	"um": {}, "uh": {}, "er": {}, "ah": {}, "hmm": {}, "mm": {}, "uhm": {},
	"嗯": {}, "啊": {}, "呃": {}, "哦": {}, "呢": {}, "吧": {},
}

// fillerRunes are the same interjections for unspaced CJK names.
var fillerRunes = map[rune]struct{}{
	'嗯': {}, '啊': {}, '呃': {}, '哦': {}, '呢': {}, '吧': {},
}

// Validator rejects components whose name is noise rather than a plausible
// food. It is read-only and safe for concurrent use.
type Validator struct {
	lex *lexicon.Lexicon
}

// NewValidator returns a [Validator] backed by the given food lexicon.
func NewValidator(lx *lexicon.Lexicon) *Validator {
	return &Validator{lex: lx}
}

// Validate checks a raw component name and returns its canonical form.
// ok is false when the name must be dropped: too short, a repeated-character
// artifact, filler-only, or not recognised by the lexicon. Dropping is
// silent; zero valid components for an utterance is a valid outcome, not an
// error.
func (v *Validator) Validate(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return "", false
	}
	if isRepeatedRun(name) {
		return "", false
	}
	if isFillerOnly(name) {
		return "", false
	}
	canonical, ok := v.lex.Match(name)
	if !ok {
		return "", false
	}
	return canonical, true
}

// isRepeatedRun reports whether name is a single rune repeated four or more
// times, a classic transcription stutter artifact.
func isRepeatedRun(name string) bool {
	runes := []rune(name)
	if len(runes) < 4 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// isFillerOnly reports whether name consists entirely of filler
// interjections, either as spaced words or as an unspaced CJK run.
func isFillerOnly(name string) bool {
	fields := strings.Fields(strings.ToLower(name))
	allWords := len(fields) > 0
	for _, f := range fields {
		if _, ok := fillerWords[f]; !ok {
			allWords = false
			break
		}
	}
	if allWords {
		return true
	}

	for _, r := range name {
		if r == ' ' {
			continue
		}
		if _, ok := fillerRunes[r]; !ok {
			return false
		}
	}
	return true
}
