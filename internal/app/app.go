// Package app wires all pantryvox subsystems into a running application.
//
// The App struct owns the full lifecycle: New builds the parsing pipeline
// from config and the collaborators handed over by main.go, Run executes the
// utterance loop, and Shutdown tears everything down in order.
//
// For testing, inject doubles via functional options (WithParser, WithInput,
// WithOutput). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pantryvox/pantryvox/internal/config"
	"github.com/pantryvox/pantryvox/internal/correct"
	"github.com/pantryvox/pantryvox/internal/health"
	"github.com/pantryvox/pantryvox/internal/lexicon"
	"github.com/pantryvox/pantryvox/internal/observe"
	"github.com/pantryvox/pantryvox/pkg/parser"
	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Collaborators holds one interface value per enrichment collaborator slot.
// Populated by main.go via the config registry, typically wrapped in
// resilience fallbacks.
type Collaborators struct {
	Classify classify.Provider
	Shelf    shelf.Advisor
}

// App owns all subsystem lifetimes and runs the utterance-to-items loop.
type App struct {
	cfg    *config.Config
	collab *Collaborators

	// mu guards parser, which the config watcher swaps on hot reload while
	// the utterance loop reads it.
	mu     sync.RWMutex
	parser *parser.Parser

	in  io.Reader
	out io.Writer

	httpSrv *http.Server

	// Config hot reload. watcher is nil unless WithConfigFile was given.
	cfgPath   string
	watchOpts []config.WatcherOption
	watcher   *config.Watcher
	logLevel  *slog.LevelVar

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithParser injects a fully built parser instead of creating one from config.
func WithParser(p *parser.Parser) Option {
	return func(a *App) { a.parser = p }
}

// WithInput sets the utterance source. Defaults to os.Stdin, one utterance
// per line.
func WithInput(r io.Reader) Option {
	return func(a *App) { a.in = r }
}

// WithOutput sets where parsed item JSON is written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithConfigFile enables hot reload: the file at path is polled for changes
// and the parsing pipeline is rebuilt when a reloadable field differs (see
// [config.Diff]). opts tune the watcher, e.g. [config.WithInterval] in tests.
func WithConfigFile(path string, opts ...config.WatcherOption) Option {
	return func(a *App) {
		a.cfgPath = path
		a.watchOpts = opts
	}
}

// WithLogLevelVar hands the App the level var backing the process logger so a
// config reload can change verbosity without a restart.
func WithLogLevelVar(lv *slog.LevelVar) Option {
	return func(a *App) { a.logLevel = lv }
}

// New creates an App by wiring the parsing pipeline together. The
// collaborators struct comes from main.go (populated via the config
// registry).
func New(ctx context.Context, cfg *config.Config, collab *Collaborators, opts ...Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		collab: collab,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	for _, o := range opts {
		o(a)
	}

	if a.parser == nil {
		p, err := buildParser(cfg, collab)
		if err != nil {
			return nil, fmt.Errorf("app: build parser: %w", err)
		}
		a.parser = p
	}

	if cfg.Server.ListenAddr != "" {
		a.initHTTP(ctx)
	}

	if a.cfgPath != "" {
		w, err := config.NewWatcher(a.cfgPath, a.reload, a.watchOpts...)
		if err != nil {
			return nil, fmt.Errorf("app: watch config: %w", err)
		}
		a.watcher = w
	}

	return a, nil
}

// reload is the config watcher callback. It applies every hot-reloadable
// change: log verbosity flips in place, and a locale, lexicon, or correction
// change rebuilds the parsing pipeline. A rebuild failure keeps the previous
// pipeline running.
func (a *App) reload(old, next *config.Config) {
	diff := config.Diff(old, next)
	if !diff.Changed() {
		return
	}

	if diff.LogLevelChanged && a.logLevel != nil {
		a.logLevel.Set(diff.NewLogLevel.SlogLevel())
		slog.Info("log level changed", "level", diff.NewLogLevel)
	}

	if diff.LocaleChanged || diff.LexiconChanged || diff.CorrectionsChanged {
		p, err := buildParser(next, a.collab)
		if err != nil {
			slog.Warn("config reload: rebuild parser failed, keeping previous pipeline", "err", err)
			return
		}
		a.mu.Lock()
		a.cfg = next
		a.parser = p
		a.mu.Unlock()
		slog.Info("parsing pipeline rebuilt",
			"locale", p.Locale(),
			"lexicon_changed", diff.LexiconChanged,
			"corrections_changed", diff.CorrectionsChanged)
	}
}

// buildParser assembles the parser from config: lexicon extras, correction
// rule files, and the configured locale.
func buildParser(cfg *config.Config, collab *Collaborators) (*parser.Parser, error) {
	locale := cfg.Locale
	if locale == "" {
		locale = types.LocaleEN
	}

	var lexOpts []lexicon.Option
	if len(cfg.Lexicon.ExtraFoods) > 0 {
		lexOpts = append(lexOpts, lexicon.WithFoods(cfg.Lexicon.ExtraFoods...))
	}
	if len(cfg.Lexicon.ExtraLiquids) > 0 {
		lexOpts = append(lexOpts, lexicon.WithLiquids(cfg.Lexicon.ExtraLiquids...))
	}
	if cfg.Lexicon.DisableFuzzy {
		lexOpts = append(lexOpts, lexicon.WithoutFuzzy())
	}

	popts := []parser.Option{
		parser.WithLexicon(lexicon.New(lexOpts...)),
	}

	if cfg.Corrections.Path != "" {
		rf, err := correct.LoadRuleFile(cfg.Corrections.Path)
		if err != nil {
			return nil, fmt.Errorf("load corrections %q: %w", cfg.Corrections.Path, err)
		}
		table, err := rf.Merge(correct.BuiltinTable(locale))
		if err != nil {
			return nil, fmt.Errorf("merge corrections %q: %w", cfg.Corrections.Path, err)
		}
		popts = append(popts, parser.WithCorrector(correct.New(table)))
		slog.Info("loaded correction rules", "path", cfg.Corrections.Path)
	}

	return parser.New(locale, collab.Classify, collab.Shelf, popts...)
}

// initHTTP sets up the metrics and health endpoints.
func (a *App) initHTTP(ctx context.Context) {
	h := health.New(health.Probe{
		Name: "shelf",
		// A readiness probe against the advisor; the category default row
		// always exists, so any healthy backend answers.
		Check: func(ctx context.Context) error {
			_, err := a.collab.Shelf.RecommendStorage(ctx, "", types.CategoryOther)
			return err
		},
	})

	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	a.httpSrv = &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           observe.Middleware(observe.DefaultMetrics())(mux),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

// Run starts the HTTP endpoints (when configured) and the utterance loop,
// blocking until the input is exhausted or ctx is cancelled.
//
// Each input line is parsed independently; one bad utterance never stops the
// loop. Output is one JSON array of items per input line.
func (a *App) Run(ctx context.Context) error {
	if a.httpSrv != nil {
		go func() {
			var err error
			if tls := a.cfg.Server.TLS; tls != nil {
				err = a.httpSrv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
			} else {
				err = a.httpSrv.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server error", "err", err)
			}
		}()
		slog.Info("serving metrics and health endpoints", "addr", a.cfg.Server.ListenAddr)
	}

	scanner := bufio.NewScanner(a.in)
	enc := json.NewEncoder(a.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		items, err := a.Parser().Parse(ctx, line, time.Now())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("parse failed", "err", err)
			continue
		}
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("app: encode output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("app: read input: %w", err)
	}
	return ctx.Err()
}

// Shutdown tears down the HTTP server and all closers in order. It respects
// the context deadline: if ctx expires before all closers finish, remaining
// closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		if a.watcher != nil {
			a.watcher.Stop()
		}

		if a.httpSrv != nil {
			if err := a.httpSrv.Shutdown(ctx); err != nil {
				slog.Warn("http shutdown error", "err", err)
			}
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}

// AddCloser registers fn to run during Shutdown, after the HTTP server stops.
func (a *App) AddCloser(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Parser returns the currently wired parser. The value can change between
// calls when a config reload rebuilds the pipeline; callers must not cache it
// across utterances.
func (a *App) Parser() *parser.Parser {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.parser
}
