// Command pantryvox is the main entry point for the pantryvox food-inventory
// parsing service. It reads voice-transcribed utterances (one per line on
// stdin, or one-shot via -text) and emits structured item records as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/pantryvox/pantryvox/internal/app"
	"github.com/pantryvox/pantryvox/internal/config"
	"github.com/pantryvox/pantryvox/internal/observe"
	"github.com/pantryvox/pantryvox/internal/resilience"
	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/provider/classify/anyllm"
	"github.com/pantryvox/pantryvox/pkg/provider/classify/lexical"
	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	shelfpg "github.com/pantryvox/pantryvox/pkg/provider/shelf/postgres"
	shelftable "github.com/pantryvox/pantryvox/pkg/provider/shelf/table"
	"github.com/pantryvox/pantryvox/pkg/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	localeFlag := flag.String("locale", "", "override the configured locale (en or zh)")
	text := flag.String("text", "", "parse a single utterance and exit")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "pantryvox: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "pantryvox: %v\n", err)
		}
		return 1
	}
	if *localeFlag != "" {
		cfg.Locale = types.Locale(*localeFlag)
		if !cfg.Locale.IsValid() {
			fmt.Fprintf(os.Stderr, "pantryvox: unsupported locale %q\n", *localeFlag)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// The level lives in a LevelVar so a config reload can change verbosity
	// without tearing the handler down.
	logLevel := new(slog.LevelVar)
	logLevel.Set(cfg.Server.LogLevel.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("pantryvox starting",
		"config", *configPath,
		"locale", cfg.Locale,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "pantryvox",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Collaborator registry ─────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinCollaborators(reg)

	collab, cleanup, err := buildCollaborators(ctx, cfg, reg)
	if err != nil {
		slog.Error("failed to build collaborators", "err", err)
		return 1
	}

	// ── Application ───────────────────────────────────────────────────────────
	printStartupSummary(cfg)

	appOpts := []app.Option{app.WithLogLevelVar(logLevel)}
	if *text == "" && *localeFlag == "" {
		// Hot reload is for the long-running mode only; a -locale override
		// must not be stomped by a reload from the file.
		appOpts = append(appOpts, app.WithConfigFile(*configPath))
	}

	application, err := app.New(ctx, cfg, collab, appOpts...)
	if err != nil {
		slog.Error("failed to initialise application", "err", err)
		return 1
	}
	for _, fn := range cleanup {
		application.AddCloser(fn)
	}

	// One-shot mode.
	if *text != "" {
		return runOnce(ctx, application, *text)
	}

	slog.Info("reading utterances from stdin — press Ctrl+D or Ctrl+C to stop")

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// runOnce parses a single utterance and prints the items as indented JSON.
func runOnce(ctx context.Context, application *app.App, text string) int {
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(shutdownCtx)
	}()

	items, err := application.Parser().Parse(ctx, text, time.Now())
	if err != nil {
		slog.Error("parse failed", "err", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		slog.Error("encode failed", "err", err)
		return 1
	}
	return 0
}

// ── Collaborator wiring ───────────────────────────────────────────────────────

// builtinCollaborators maps collaborator kinds to the implementations that
// ship with pantryvox. Used for startup logging.
var builtinCollaborators = map[string][]string{
	"classify": {"openai", "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile", "lexical"},
	"shelf":    {"postgres", "table"},
}

// registerBuiltinCollaborators wires all built-in collaborator factories into
// reg. Each factory receives its config entry and constructs the
// implementation from the real provider packages.
func registerBuiltinCollaborators(reg *config.Registry) {
	// ── Classification ────────────────────────────────────────────────────────
	// The LLM-backed backends all share the same pattern: optional APIKey +
	// optional BaseURL.
	for _, backendName := range []string{
		"openai", "anthropic", "gemini",
		"deepseek", "mistral", "groq", "llamacpp", "llamafile",
	} {
		reg.RegisterClassify(backendName, func(entry config.CollaboratorEntry) (classify.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(backendName, entry.Model, opts...)
		})
	}

	// ollama is a local server; it uses BaseURL for the address, not an API key.
	reg.RegisterClassify("ollama", func(entry config.CollaboratorEntry) (classify.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.NewOllama(entry.Model, opts...)
	})

	// The offline keyword table needs no configuration at all.
	reg.RegisterClassify("lexical", func(config.CollaboratorEntry) (classify.Provider, error) {
		return lexical.New(), nil
	})

	// ── Shelf guidelines ──────────────────────────────────────────────────────
	reg.RegisterShelf("table", func(entry config.ShelfEntry) (shelf.Advisor, error) {
		a := shelftable.New()
		if entry.OverridesPath != "" {
			if err := a.LoadOverrides(entry.OverridesPath); err != nil {
				return nil, err
			}
		}
		return a, nil
	})

	// Postgres connections are owned by buildCollaborators so the pool can be
	// closed during shutdown; the registry factory is intentionally absent.

	for kind, names := range builtinCollaborators {
		for _, name := range names {
			slog.Debug("registered collaborator", "kind", kind, "name", name)
		}
	}
}

// buildCollaborators instantiates the collaborators named in cfg and wraps
// them in failover groups: an LLM classifier always falls back to the offline
// lexical table, and the Postgres advisor falls back to the builtin
// guideline table. Returned cleanup funcs close any owned connections.
func buildCollaborators(ctx context.Context, cfg *config.Config, reg *config.Registry) (*app.Collaborators, []func() error, error) {
	var cleanup []func() error

	// ── Classification ────────────────────────────────────────────────────────
	var classifier classify.Provider
	entry := cfg.Collaborators.Classify
	if entry.Name == "" {
		entry.Name = "lexical"
	}
	name := entry.Name
	primary, err := reg.CreateClassify(entry)
	if err != nil {
		return nil, nil, fmt.Errorf("create classify collaborator %q: %w", name, err)
	}
	if name == "lexical" {
		classifier = primary
	} else {
		fb := resilience.NewClassifyFallback(primary, name, resilience.FallbackConfig{})
		fb.AddFallback("lexical", lexical.New())
		classifier = fb
	}
	slog.Info("collaborator created", "kind", "classify", "name", name)

	// ── Shelf guidelines ──────────────────────────────────────────────────────
	var advisor shelf.Advisor
	shelfName := cfg.Collaborators.Shelf.Name
	switch shelfName {
	case "", "table":
		advisor, err = reg.CreateShelf(config.ShelfEntry{
			Name:          "table",
			OverridesPath: cfg.Collaborators.Shelf.OverridesPath,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create shelf advisor: %w", err)
		}
		shelfName = "table"

	case "postgres":
		pool, perr := pgxpool.New(ctx, cfg.Collaborators.Shelf.PostgresDSN)
		if perr != nil {
			return nil, nil, fmt.Errorf("connect shelf database: %w", perr)
		}
		cleanup = append(cleanup, func() error {
			pool.Close()
			return nil
		})

		pg := shelfpg.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate shelf database: %w", err)
		}

		fb := resilience.NewShelfFallback(pg, "postgres", resilience.FallbackConfig{})
		fb.AddFallback("table", shelftable.New())
		advisor = fb

	default:
		return nil, nil, fmt.Errorf("unknown shelf advisor %q", shelfName)
	}
	slog.Info("collaborator created", "kind", "shelf", "name", shelfName)

	return &app.Collaborators{Classify: classifier, Shelf: advisor}, cleanup, nil
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	locale := cfg.Locale
	if locale == "" {
		locale = types.LocaleEN
	}
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        pantryvox — startup summary    ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	fmt.Printf("║  Locale          : %-19s ║\n", locale)
	printCollaborator("Classify", cfg.Collaborators.Classify.Name, cfg.Collaborators.Classify.Model)
	printCollaborator("Shelf", cfg.Collaborators.Shelf.Name, "")
	if cfg.Corrections.Path != "" {
		fmt.Printf("║  Corrections     : %-19s ║\n", "custom rules")
	}
	if cfg.Server.ListenAddr != "" {
		fmt.Printf("║  Listen addr     : %-19s ║\n", cfg.Server.ListenAddr)
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printCollaborator(kind, name, model string) {
	value := name
	if value == "" {
		value = "(builtin)"
	} else if model != "" {
		value = name + " / " + model
	}
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}
