package parse

import (
	"math"

	"github.com/pantryvox/pantryvox/internal/lexicon"
	"github.com/pantryvox/pantryvox/internal/units"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Finalized is a component's canonical quantity form.
type Finalized struct {
	Quantity         int64
	Unit             types.CanonicalUnit
	DisplayUnit      string
	NeedsVolumeInput bool
}

// Finalizer converts raw (quantity, unit spelling) pairs into one of the
// three canonical units. It is read-only and safe for concurrent use.
type Finalizer struct {
	reg *units.Registry
	lex *lexicon.Lexicon
}

// NewFinalizer returns a [Finalizer] backed by the unit registry and the
// liquid-food lexicon.
func NewFinalizer(reg *units.Registry, lx *lexicon.Lexicon) *Finalizer {
	return &Finalizer{reg: reg, lex: lx}
}

// Finalize resolves c into its canonical unit.
//
// Weight spellings convert into grams and volume spellings into milliliters
// via their registry factors. Dozen spellings scale the count by twelve. A
// container spelling whose food is a known liquid sets NeedsVolumeInput: the
// true volume is unknowable from the utterance and must be asked for, never
// guessed from a default container size. A component with no unit at all is
// a plain count.
func (f *Finalizer) Finalize(c RawComponent) Finalized {
	qty := c.Quantity
	if !c.HasQuantity {
		qty = 1
	}

	if c.Unit == "" {
		return Finalized{Quantity: roundQty(qty), Unit: types.UnitCount}
	}

	info, ok := f.reg.Classify(c.Unit)
	if !ok {
		// An unregistered spelling can only come from a hand-built component;
		// treat it like no unit at all.
		return Finalized{Quantity: roundQty(qty), Unit: types.UnitCount, DisplayUnit: c.DisplayUnit}
	}

	switch {
	case info.Kind == units.Weight:
		return Finalized{
			Quantity:    roundQty(qty * info.Factor),
			Unit:        types.UnitGram,
			DisplayUnit: c.DisplayUnit,
		}
	case info.Kind == units.Volume:
		return Finalized{
			Quantity:    roundQty(qty * info.Factor),
			Unit:        types.UnitMilliliter,
			DisplayUnit: c.DisplayUnit,
		}
	case info.Dozen:
		return Finalized{
			Quantity:    roundQty(qty * 12),
			Unit:        types.UnitCount,
			DisplayUnit: c.DisplayUnit,
		}
	default:
		return Finalized{
			Quantity:         roundQty(qty),
			Unit:             types.UnitCount,
			DisplayUnit:      c.DisplayUnit,
			NeedsVolumeInput: info.Container && f.lex.IsLiquid(c.Name),
		}
	}
}

// roundQty rounds to the nearest integer and clamps at zero; canonical
// quantities are never negative.
func roundQty(v float64) int64 {
	if v < 0 {
		return 0
	}
	return int64(math.Round(v))
}
