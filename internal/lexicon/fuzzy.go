package lexicon

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	// phoneticThreshold is the minimum Jaro-Winkler score for an entry that
	// already shares a Double Metaphone code with the input.
	phoneticThreshold = 0.80

	// fuzzyThreshold is the minimum Jaro-Winkler score when no phonetic
	// candidate exists. Higher, because pure string similarity is weaker
	// evidence than shared pronunciation.
	fuzzyThreshold = 0.90
)

// fuzzyMatcher resolves misheard ASCII food names against the lexicon using
// Double Metaphone codes for candidate filtering and Jaro-Winkler similarity
// for ranking. Entry codes are precomputed once in prepare; matching is then
// read-only and safe for concurrent use.
type fuzzyMatcher struct {
	entries []fuzzyEntry
}

type fuzzyEntry struct {
	name    string
	primary string
	second  string
}

func newFuzzyMatcher() *fuzzyMatcher {
	return &fuzzyMatcher{}
}

// prepare precomputes phonetic codes for every ASCII lexicon entry.
// CJK entries are skipped; Double Metaphone is meaningless for them.
func (m *fuzzyMatcher) prepare(foods []string) {
	m.entries = m.entries[:0]
	for _, f := range foods {
		if !isASCII(f) {
			continue
		}
		p, s := matchr.DoubleMetaphone(f)
		m.entries = append(m.entries, fuzzyEntry{name: f, primary: p, second: s})
	}
}

// match returns the best-scoring lexicon entry for word, or ok=false when no
// entry clears its threshold.
func (m *fuzzyMatcher) match(word string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || len(m.entries) == 0 {
		return "", false
	}

	wp, ws := matchr.DoubleMetaphone(word)

	var (
		bestName     string
		bestScore    float64
		bestPhonetic bool
	)
	for _, e := range m.entries {
		phonetic := codeOverlap(wp, ws, e.primary, e.second)
		score := matchr.JaroWinkler(word, e.name, false)

		threshold := fuzzyThreshold
		if phonetic {
			threshold = phoneticThreshold
		}
		if score < threshold {
			continue
		}

		// Phonetic candidates always beat purely fuzzy ones.
		if phonetic && !bestPhonetic {
			bestName, bestScore, bestPhonetic = e.name, score, true
			continue
		}
		if phonetic == bestPhonetic && score > bestScore {
			bestName, bestScore = e.name, score
		}
	}

	return bestName, bestName != ""
}

// codeOverlap reports whether any non-empty code is shared between the two
// Double Metaphone code pairs.
func codeOverlap(ap, as, bp, bs string) bool {
	for _, a := range [2]string{ap, as} {
		if a == "" {
			continue
		}
		if a == bp || a == bs {
			return true
		}
	}
	return false
}
