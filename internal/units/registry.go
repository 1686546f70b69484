// Package units is the static, bilingual unit registry. It maps every
// recognised unit spelling to its kind (weight, volume, or count), its
// conversion factor into the canonical unit, and whether it denotes a
// container (a vessel such as a bottle whose content volume is ambiguous).
//
// The registry is read-only after construction and safe for concurrent use.
// Matching is case-insensitive. Wherever spellings can overlap ("kilogram"
// vs "gram"), [Registry.Spellings] returns them longest-first so callers
// that scan raw text never truncate a match.
package units

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Kind classifies a unit spelling into one of the three canonical families.
type Kind int

const (
	// Weight units convert into grams.
	Weight Kind = iota

	// Volume units convert into milliliters.
	Volume

	// Count units are discrete pieces; the factor is always 1 except for the
	// dozen spellings, which the finalizer multiplies by 12.
	Count
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Weight:
		return "weight"
	case Volume:
		return "volume"
	case Count:
		return "count"
	default:
		return "unknown"
	}
}

// Info describes one registered unit spelling.
type Info struct {
	// Kind is the unit family.
	Kind Kind

	// Factor converts a quantity in this unit into the canonical unit of its
	// kind (grams for Weight, milliliters for Volume, pieces for Count).
	Factor float64

	// Container marks vessel spellings (bottle, can, 盒). Container units are
	// always Count units as well; the finalizer flags container+liquid
	// combinations for an explicit volume prompt.
	Container bool

	// Dozen marks the dozen spellings ("dozen", "打"), which scale the count
	// by twelve during finalization.
	Dozen bool
}

// Registry answers unit-classification queries for every pipeline stage.
type Registry struct {
	byName    map[string]Info
	spellings []string // all spellings, longest (in runes) first
}

// entry pairs the spellings that share one Info.
type entry struct {
	info      Info
	spellings []string
}

// builtin lists every registered unit. Bilingual; spellings are stored
// lowercase.
var builtin = []entry{
	// --- Weight (factor → grams) ---
	{Info{Kind: Weight, Factor: 1}, []string{"g", "gram", "grams", "克", "公克"}},
	{Info{Kind: Weight, Factor: 1000}, []string{"kg", "kilo", "kilos", "kilogram", "kilograms", "公斤", "千克"}},
	{Info{Kind: Weight, Factor: 500}, []string{"jin", "斤"}},
	{Info{Kind: Weight, Factor: 50}, []string{"liang", "tael", "taels", "两"}},
	{Info{Kind: Weight, Factor: 453.59}, []string{"lb", "lbs", "pound", "pounds", "磅"}},
	{Info{Kind: Weight, Factor: 28.35}, []string{"oz", "ounce", "ounces", "盎司"}},

	// --- Volume (factor → milliliters) ---
	{Info{Kind: Volume, Factor: 1}, []string{"ml", "milliliter", "milliliters", "millilitre", "millilitres", "毫升"}},
	{Info{Kind: Volume, Factor: 1000}, []string{"l", "liter", "liters", "litre", "litres", "升", "公升"}},
	{Info{Kind: Volume, Factor: 3785.41}, []string{"gallon", "gallons", "加仑"}},

	// --- Pure count ---
	{Info{Kind: Count, Factor: 1}, []string{"piece", "pieces", "pc", "pcs", "个", "只", "条", "颗", "粒", "头", "把", "棵", "串", "块", "根", "朵"}},
	{Info{Kind: Count, Factor: 1, Dozen: true}, []string{"dozen", "dozens", "打"}},

	// --- Containers (count units with ambiguous content volume) ---
	{Info{Kind: Count, Factor: 1, Container: true}, []string{
		"bottle", "bottles", "瓶",
		"can", "cans", "罐", "听",
		"box", "boxes", "盒",
		"bag", "bags", "袋",
		"carton", "cartons",
		"jar", "jars",
		"cup", "cups", "杯",
		"pack", "packs", "包",
		"bucket", "buckets", "桶",
		"case", "cases", "箱",
	}},
}

// defaultRegistry is built once; the registry is immutable afterwards.
var defaultRegistry = build()

// Default returns the shared builtin [Registry].
func Default() *Registry {
	return defaultRegistry
}

func build() *Registry {
	r := &Registry{byName: make(map[string]Info, 128)}
	for _, e := range builtin {
		for _, s := range e.spellings {
			r.byName[s] = e.info
			r.spellings = append(r.spellings, s)
		}
	}
	sort.SliceStable(r.spellings, func(i, j int) bool {
		return utf8.RuneCountInString(r.spellings[i]) > utf8.RuneCountInString(r.spellings[j])
	})
	return r
}

// Classify returns the [Info] for token, matching case-insensitively.
// The second return value is false when token is not a registered unit.
func (r *Registry) Classify(token string) (Info, bool) {
	info, ok := r.byName[strings.ToLower(token)]
	return info, ok
}

// WeightFactor returns the gram conversion factor when token is a weight unit.
func (r *Registry) WeightFactor(token string) (float64, bool) {
	info, ok := r.Classify(token)
	if !ok || info.Kind != Weight {
		return 0, false
	}
	return info.Factor, true
}

// VolumeFactor returns the milliliter conversion factor when token is a
// volume unit.
func (r *Registry) VolumeFactor(token string) (float64, bool) {
	info, ok := r.Classify(token)
	if !ok || info.Kind != Volume {
		return 0, false
	}
	return info.Factor, true
}

// IsContainer reports whether token is a container spelling.
func (r *Registry) IsContainer(token string) bool {
	info, ok := r.Classify(token)
	return ok && info.Container
}

// IsDozen reports whether token is a dozen spelling.
func (r *Registry) IsDozen(token string) bool {
	info, ok := r.Classify(token)
	return ok && info.Dozen
}

// Spellings returns every registered spelling, longest first. The slice is
// shared; callers must not modify it.
func (r *Registry) Spellings() []string {
	return r.spellings
}

// MatchPrefix returns the longest registered spelling that s begins with,
// matching case-insensitively. Used by the tokenizer to segment unit
// spellings out of unspaced CJK runs. Returns "" when no spelling matches.
func (r *Registry) MatchPrefix(s string) string {
	lower := strings.ToLower(s)
	for _, sp := range r.spellings {
		if strings.HasPrefix(lower, sp) {
			return sp
		}
	}
	return ""
}
