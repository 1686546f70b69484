package config_test

import (
	"strings"
	"testing"

	"github.com/pantryvox/pantryvox/internal/config"
	"github.com/pantryvox/pantryvox/pkg/types"
)

const fullYAML = `
server:
  listen_addr: ":8080"
  log_level: debug
locale: zh
collaborators:
  classify:
    name: openai
    api_key: sk-test
    model: gpt-4o-mini
    options:
      temperature: 0
  shelf:
    name: postgres
    postgres_dsn: "postgres://localhost:5432/pantryvox?sslmode=disable"
    overrides_path: /etc/pantryvox/shelf.yaml
lexicon:
  extra_foods:
    - durian
    - 臭豆腐
  extra_liquids:
    - kombucha
  disable_fuzzy: true
corrections:
  path: /etc/pantryvox/corrections.yaml
`

func TestLoadFromReader_FullSchema(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("log_level = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Locale != types.LocaleZH {
		t.Errorf("locale = %q, want zh", cfg.Locale)
	}
	if cfg.Collaborators.Classify.Name != "openai" {
		t.Errorf("classify name = %q", cfg.Collaborators.Classify.Name)
	}
	if cfg.Collaborators.Classify.Model != "gpt-4o-mini" {
		t.Errorf("classify model = %q", cfg.Collaborators.Classify.Model)
	}
	if cfg.Collaborators.Shelf.Name != "postgres" {
		t.Errorf("shelf name = %q", cfg.Collaborators.Shelf.Name)
	}
	if cfg.Collaborators.Shelf.OverridesPath != "/etc/pantryvox/shelf.yaml" {
		t.Errorf("overrides_path = %q", cfg.Collaborators.Shelf.OverridesPath)
	}
	if len(cfg.Lexicon.ExtraFoods) != 2 || cfg.Lexicon.ExtraFoods[1] != "臭豆腐" {
		t.Errorf("extra_foods = %v", cfg.Lexicon.ExtraFoods)
	}
	if !cfg.Lexicon.DisableFuzzy {
		t.Error("disable_fuzzy not decoded")
	}
	if cfg.Corrections.Path != "/etc/pantryvox/corrections.yaml" {
		t.Errorf("corrections path = %q", cfg.Corrections.Path)
	}
}

func TestLoadFromReader_RejectsUnknownFields(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: info
  max_connections: 100
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestLoadFromReader_EmptyIsValid(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Locale != "" {
		t.Errorf("locale = %q, want empty (caller defaults to en)", cfg.Locale)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()
	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if config.LogLevel("bananas").IsValid() {
		t.Error("bananas should not be a valid log level")
	}
}
