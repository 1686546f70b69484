// Package parse turns the classified token stream into raw item components
// and finalizes them into canonical quantities. It holds the three stages
// between the tagger and enrichment: the accumulator state machine, the name
// validator, and the unit finalizer.
package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pantryvox/pantryvox/internal/lex"
	"github.com/pantryvox/pantryvox/internal/lexicon"
	"github.com/pantryvox/pantryvox/internal/numword"
	"github.com/pantryvox/pantryvox/internal/units"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// RawComponent is one provisionally parsed item: a name plus whatever
// quantity and raw unit the accumulator saw for it. Unit is the lowercase
// registry spelling, or "" when the utterance named no unit.
type RawComponent struct {
	Name        string
	Quantity    float64
	HasQuantity bool
	Unit        string
	DisplayUnit string
}

// Accumulator is the token-by-token parse cursor. Feed tokens in utterance
// order, then call Finish for the ordered component list. An Accumulator is
// single-use and not safe for concurrent use; construct one per utterance.
type Accumulator struct {
	locale types.Locale
	reg    *units.Registry
	lex    *lexicon.Lexicon

	qty     float64
	hasQty  bool
	unit    string
	display string
	name    string

	pending []RawComponent
}

// NewAccumulator returns an empty [Accumulator] for one utterance.
func NewAccumulator(locale types.Locale, reg *units.Registry, lx *lexicon.Lexicon) *Accumulator {
	return &Accumulator{locale: locale, reg: reg, lex: lx}
}

// Accumulate runs a full token stream through a fresh accumulator.
func Accumulate(tokens []lex.Token, locale types.Locale, reg *units.Registry, lx *lexicon.Lexicon) []RawComponent {
	a := NewAccumulator(locale, reg, lx)
	for _, t := range tokens {
		a.Feed(t)
	}
	return a.Finish()
}

// Feed advances the state machine by one token.
func (a *Accumulator) Feed(t lex.Token) {
	switch t.Class {
	case lex.Connector:
		// Connectors end an item but never join a name. With no name yet the
		// connector is transparent: "three of the apples" keeps its three.
		if a.name != "" {
			a.flush()
		}

	case lex.Number:
		v, ok := numword.Parse(t.Text, a.locale)
		if !ok {
			a.appendName(t.Text)
			return
		}
		// A number after a completed name starts the next item.
		if a.name != "" {
			a.flush()
		}
		a.qty, a.hasQty = v, true

	default: // Noun, Other
		if info, ok := a.reg.Classify(t.Text); ok {
			a.feedUnit(t.Text, info)
			return
		}
		a.feedNameWord(t.Text)
	}
}

// feedUnit applies the three-way unit rule.
func (a *Accumulator) feedUnit(spelling string, info units.Info) {
	switch cur, ok := a.reg.Classify(a.unit); {
	case a.unit == "":
		a.unit, a.display = spelling, spelling

	case ok && cur.Kind == units.Count && info.Kind != units.Count:
		// "One fish, two jin": the weight/volume unit supersedes the count
		// unit for the same physical item. The count unit is discarded, not
		// enqueued.
		a.unit, a.display = spelling, spelling

	default:
		// Two incompatible units for one assumed item: defer the first as an
		// unnamed pending component and adopt the new unit.
		a.pending = append(a.pending, RawComponent{
			Quantity:    a.qty,
			HasQuantity: a.hasQty,
			Unit:        a.unit,
			DisplayUnit: a.display,
		})
		a.unit, a.display = spelling, spelling
	}
}

// feedNameWord appends a word to the in-progress name, flushing first when
// the word starts a clearly distinct food ("apple banana" is two items, not
// one name).
func (a *Accumulator) feedNameWord(word string) {
	if a.name != "" && a.lex.Contains(a.name) && a.lex.Contains(word) {
		a.flush()
	}
	a.appendName(word)
}

// appendName joins word onto the accumulated name. A separating space is
// inserted except between two ideographic-script tokens, which are never
// space-delimited.
func (a *Accumulator) appendName(word string) {
	if a.name == "" {
		a.name = word
		return
	}
	last, _ := utf8.DecodeLastRuneInString(a.name)
	first, _ := utf8.DecodeRuneInString(word)
	if unicode.Is(unicode.Han, last) && unicode.Is(unicode.Han, first) {
		a.name += word
		return
	}
	a.name += " " + word
}

// flush moves the current item onto the pending queue and resets the cursor.
// An entirely empty cursor flushes to nothing.
func (a *Accumulator) flush() {
	if a.name == "" && !a.hasQty && a.unit == "" {
		return
	}
	a.pending = append(a.pending, RawComponent{
		Name:        strings.TrimSpace(a.name),
		Quantity:    a.qty,
		HasQuantity: a.hasQty,
		Unit:        a.unit,
		DisplayUnit: a.display,
	})
	a.qty, a.hasQty = 0, false
	a.unit, a.display = "", ""
	a.name = ""
}

// Finish flushes the final item and resolves the pending queue into the
// ordered component list.
//
// Resolution applies the deferred count/weight merge: a count-typed entry
// (no unit, or a pure count unit) immediately followed by a weight- or
// volume-typed entry describing the same item collapses into one component
// carrying the name of whichever side has one and the authoritative
// weight/volume unit. Entries that end up with no name of their own share
// the final named entry's name.
func (a *Accumulator) Finish() []RawComponent {
	a.flush()
	pending := a.pending
	a.pending = nil
	if len(pending) == 0 {
		return nil
	}

	out := make([]RawComponent, 0, len(pending))
	for i := 0; i < len(pending); i++ {
		c := pending[i]
		if i+1 < len(pending) && a.canMerge(c, pending[i+1]) {
			next := pending[i+1]
			if c.Name != "" {
				next.Name = c.Name
			}
			out = append(out, next)
			i++
			continue
		}
		out = append(out, c)
	}

	// Unnamed leftovers share the final named component's name.
	finalName := ""
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Name != "" {
			finalName = out[i].Name
			break
		}
	}
	for i := range out {
		if out[i].Name == "" {
			out[i].Name = finalName
		}
	}
	return out
}

// canMerge reports whether a count-typed component c and a weight/volume
// component next describe the same physical item. Two distinct non-empty
// names mean two items, never one.
func (a *Accumulator) canMerge(c, next RawComponent) bool {
	if c.Name != "" && next.Name != "" && c.Name != next.Name {
		return false
	}
	if !a.countTyped(c) {
		return false
	}
	info, ok := a.reg.Classify(next.Unit)
	return ok && (info.Kind == units.Weight || info.Kind == units.Volume)
}

// countTyped reports whether c carries no unit or a pure count unit.
func (a *Accumulator) countTyped(c RawComponent) bool {
	if c.Unit == "" {
		return true
	}
	info, ok := a.reg.Classify(c.Unit)
	return ok && info.Kind == units.Count
}
