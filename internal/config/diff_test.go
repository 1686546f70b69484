package config_test

import (
	"testing"

	"github.com/pantryvox/pantryvox/internal/config"
	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/provider/classify/lexical"
	"github.com/pantryvox/pantryvox/pkg/types"
)

func TestDiff_NoChanges(t *testing.T) {
	t.Parallel()
	a := &config.Config{Locale: types.LocaleEN}
	b := &config.Config{Locale: types.LocaleEN}

	d := config.Diff(a, b)
	if d.Changed() {
		t.Errorf("identical configs should produce no diff, got %+v", d)
	}
}

func TestDiff_LogLevel(t *testing.T) {
	t.Parallel()
	a := &config.Config{}
	a.Server.LogLevel = config.LogInfo
	b := &config.Config{}
	b.Server.LogLevel = config.LogDebug

	d := config.Diff(a, b)
	if !d.LogLevelChanged {
		t.Fatal("log level change not detected")
	}
	if d.NewLogLevel != config.LogDebug {
		t.Errorf("NewLogLevel = %q, want debug", d.NewLogLevel)
	}
}

func TestDiff_Locale(t *testing.T) {
	t.Parallel()
	a := &config.Config{Locale: types.LocaleEN}
	b := &config.Config{Locale: types.LocaleZH}

	d := config.Diff(a, b)
	if !d.LocaleChanged {
		t.Fatal("locale change not detected")
	}
	if d.NewLocale != types.LocaleZH {
		t.Errorf("NewLocale = %q, want zh", d.NewLocale)
	}
}

func TestDiff_Lexicon(t *testing.T) {
	t.Parallel()
	a := &config.Config{}
	a.Lexicon.ExtraFoods = []string{"durian"}
	b := &config.Config{}
	b.Lexicon.ExtraFoods = []string{"durian", "kombucha"}

	if d := config.Diff(a, b); !d.LexiconChanged {
		t.Error("extra_foods change not detected")
	}

	c := &config.Config{}
	c.Lexicon.ExtraFoods = []string{"durian"}
	c.Lexicon.DisableFuzzy = true
	if d := config.Diff(a, c); !d.LexiconChanged {
		t.Error("disable_fuzzy change not detected")
	}
}

func TestDiff_Corrections(t *testing.T) {
	t.Parallel()
	a := &config.Config{}
	b := &config.Config{}
	b.Corrections.Path = "/etc/pantryvox/corrections.yaml"

	if d := config.Diff(a, b); !d.CorrectionsChanged {
		t.Error("corrections path change not detected")
	}
}

func TestRegistry_CreateClassify(t *testing.T) {
	t.Parallel()
	r := config.NewRegistry()

	_, err := r.CreateClassify(config.CollaboratorEntry{Name: "missing"})
	if err == nil {
		t.Fatal("expected error for unregistered factory, got nil")
	}

	r.RegisterClassify("lexical", func(config.CollaboratorEntry) (classify.Provider, error) {
		return lexical.New(), nil
	})
	if _, err := r.CreateClassify(config.CollaboratorEntry{Name: "lexical"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
