package config

import (
	"slices"

	"github.com/pantryvox/pantryvox/pkg/types"
)

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	LocaleChanged bool
	NewLocale     types.Locale

	// LexiconChanged is true when extra_foods, extra_liquids, or the fuzzy
	// switch changed. The pipeline must be rebuilt with a fresh lexicon.
	LexiconChanged bool

	// CorrectionsChanged is true when the correction rule file path changed.
	CorrectionsChanged bool
}

// Changed reports whether any hot-reloadable field differs.
func (d ConfigDiff) Changed() bool {
	return d.LogLevelChanged || d.LocaleChanged || d.LexiconChanged || d.CorrectionsChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Locale != new.Locale {
		d.LocaleChanged = true
		d.NewLocale = new.Locale
	}

	if !slices.Equal(old.Lexicon.ExtraFoods, new.Lexicon.ExtraFoods) ||
		!slices.Equal(old.Lexicon.ExtraLiquids, new.Lexicon.ExtraLiquids) ||
		old.Lexicon.DisableFuzzy != new.Lexicon.DisableFuzzy {
		d.LexiconChanged = true
	}

	if old.Corrections.Path != new.Corrections.Path {
		d.CorrectionsChanged = true
	}

	return d
}
