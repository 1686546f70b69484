package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidCollaboratorNames lists known implementation names per collaborator
// kind. Used by [Validate] to warn about unrecognised names.
var ValidCollaboratorNames = map[string][]string{
	"classify": {"openai", "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile", "lexical"},
	"shelf":    {"postgres", "table"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Locale — empty defaults to English at wiring time.
	if cfg.Locale != "" && !cfg.Locale.IsValid() {
		errs = append(errs, fmt.Errorf("locale %q is invalid; valid values: en, zh", cfg.Locale))
	}

	// Collaborator name validation — warn for unknown names.
	validateCollaboratorName("classify", cfg.Collaborators.Classify.Name)
	validateCollaboratorName("shelf", cfg.Collaborators.Shelf.Name)

	// Collaborator availability warnings
	if cfg.Collaborators.Classify.Name == "" {
		slog.Warn("no classification collaborator configured; items will be classified by the offline lexical table only")
	}

	// Postgres advisor needs a DSN.
	if cfg.Collaborators.Shelf.Name == "postgres" && cfg.Collaborators.Shelf.PostgresDSN == "" {
		errs = append(errs, errors.New("collaborators.shelf.postgres_dsn is required when collaborators.shelf.name is postgres"))
	}
	if cfg.Collaborators.Shelf.Name != "postgres" && cfg.Collaborators.Shelf.PostgresDSN != "" {
		slog.Warn("collaborators.shelf.postgres_dsn is set but the shelf advisor is not postgres; the DSN will be ignored",
			"advisor", cfg.Collaborators.Shelf.Name,
		)
	}

	// Lexicon extras — empty strings are always typos.
	for i, f := range cfg.Lexicon.ExtraFoods {
		if f == "" {
			errs = append(errs, fmt.Errorf("lexicon.extra_foods[%d] is empty", i))
		}
	}
	for i, l := range cfg.Lexicon.ExtraLiquids {
		if l == "" {
			errs = append(errs, fmt.Errorf("lexicon.extra_liquids[%d] is empty", i))
		}
	}

	return errors.Join(errs...)
}

// validateCollaboratorName logs a warning if name is non-empty and not found
// in the [ValidCollaboratorNames] list for the given kind.
func validateCollaboratorName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidCollaboratorNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown collaborator name — may be a typo or third-party implementation",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
