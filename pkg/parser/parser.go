// Package parser is the public entry point of the pantryvox pipeline. It
// turns one noisy voice-transcribed utterance into structured [types.FoodItem]
// records.
//
// The pipeline runs strictly in order: correction → expiration extraction →
// pre-tokenization expansion → tagging → accumulation → validation →
// finalization → collaborator enrichment. Every stage before enrichment is
// pure and deterministic; only enrichment performs I/O.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/pantryvox/pantryvox/internal/correct"
	"github.com/pantryvox/pantryvox/internal/enrich"
	"github.com/pantryvox/pantryvox/internal/expand"
	"github.com/pantryvox/pantryvox/internal/expiry"
	"github.com/pantryvox/pantryvox/internal/lex"
	"github.com/pantryvox/pantryvox/internal/lexicon"
	"github.com/pantryvox/pantryvox/internal/observe"
	"github.com/pantryvox/pantryvox/internal/parse"
	"github.com/pantryvox/pantryvox/internal/units"
	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Parser converts utterances of a single locale into food items. It is
// read-only after construction and safe for concurrent use.
type Parser struct {
	locale    types.Locale
	units     *units.Registry
	lexicon   *lexicon.Lexicon
	corrector *correct.Corrector
	expander  *expand.Expander
	tagger    lex.Tagger
	extractor *expiry.Extractor
	validator *parse.Validator
	finalizer *parse.Finalizer
	enricher  *enrich.Enricher

	metrics *observe.Metrics
	logger  *slog.Logger
}

// Option is a functional option for [New].
type Option func(*Parser)

// WithLexicon replaces the builtin food lexicon. Use [lexicon.New] with
// [lexicon.WithFoods] to extend the builtin table instead of replacing it.
func WithLexicon(lx *lexicon.Lexicon) Option {
	return func(p *Parser) { p.lexicon = lx }
}

// WithUnits replaces the builtin unit registry.
func WithUnits(reg *units.Registry) Option {
	return func(p *Parser) { p.units = reg }
}

// WithCorrector replaces the builtin per-locale correction table, typically
// with one merged from a user rule file via [correct.RuleFile.Merge].
func WithCorrector(c *correct.Corrector) Option {
	return func(p *Parser) { p.corrector = c }
}

// WithTagger replaces the rule-based tagger. The replacement must emit the
// same four token classes; everything downstream depends only on them.
func WithTagger(t lex.Tagger) Option {
	return func(p *Parser) { p.tagger = t }
}

// WithMetrics sets the metrics instance. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Parser) { p.metrics = m }
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// New creates a [Parser] for the given locale. classifier and advisor are the
// enrichment collaborators; wrap them in resilience fallbacks before passing
// them in when failover is wanted.
func New(locale types.Locale, classifier classify.Provider, advisor shelf.Advisor, opts ...Option) (*Parser, error) {
	if !locale.IsValid() {
		return nil, fmt.Errorf("parser: unsupported locale %q", locale)
	}

	p := &Parser{locale: locale}
	for _, o := range opts {
		o(p)
	}

	if p.units == nil {
		p.units = units.Default()
	}
	if p.lexicon == nil {
		p.lexicon = lexicon.New()
	}
	if p.corrector == nil {
		p.corrector = correct.ForLocale(locale)
	}
	if p.expander == nil {
		p.expander = expand.New(locale, p.units)
	}
	if p.tagger == nil {
		p.tagger = lex.NewRuleTagger(locale, p.units, p.lexicon)
	}
	if p.extractor == nil {
		p.extractor = expiry.New(locale)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	p.validator = parse.NewValidator(p.lexicon)
	p.finalizer = parse.NewFinalizer(p.units, p.lexicon)
	p.enricher = enrich.New(classifier, advisor, enrich.WithLogger(p.logger))

	return p, nil
}

// Parse runs the full pipeline over one utterance. now anchors relative and
// partial dates ("in 3 days", "9月15号") and becomes the PurchaseDate of every
// item, truncated to its day.
//
// An utterance with no recognisable food items returns an empty slice and no
// error. Cancellation of ctx returns the context error and no items.
func (p *Parser) Parse(ctx context.Context, text string, now time.Time) ([]types.FoodItem, error) {
	ctx, span := observe.StartSpan(ctx, "parser.Parse")
	defer span.End()

	start := time.Now()
	defer func() {
		p.metrics.ParseDuration.Record(ctx, time.Since(start).Seconds(),
			parseAttrs(p.locale))
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	corrected := p.corrector.Apply(text)

	// Extract the expiration statement before tokenization so its numbers
	// cannot be mistaken for quantities. Strip runs unconditionally: a
	// dangling expiry verb with no date ("the milk expired") must not leak
	// into an item name.
	var explicit *time.Time
	if d, ok := p.extractor.Extract(corrected, now); ok {
		explicit = &d
	}
	corrected = p.extractor.Strip(corrected)

	expanded := p.expander.Apply(corrected)
	tokens := p.tagger.Tag(expanded)
	components := parse.Accumulate(tokens, p.locale, p.units, p.lexicon)

	purchase := midnight(now)
	items := make([]types.FoodItem, 0, len(components))
	for _, c := range components {
		name, ok := p.validator.Validate(c.Name)
		if !ok {
			p.metrics.RecordComponentRejected(ctx, string(p.locale), "invalid_name")
			p.logger.Debug("component rejected", "name", c.Name, "locale", p.locale)
			continue
		}
		c.Name = name

		fin := p.finalizer.Finalize(c)
		items = append(items, types.FoodItem{
			Name:             name,
			Quantity:         fin.Quantity,
			Unit:             fin.Unit,
			DisplayUnit:      fin.DisplayUnit,
			PurchaseDate:     purchase,
			NeedsVolumeInput: fin.NeedsVolumeInput,
		})
	}

	if len(items) == 0 {
		return []types.FoodItem{}, nil
	}

	enrichStart := time.Now()
	items, err := p.enricher.Enrich(ctx, items, explicit)
	p.metrics.EnrichDuration.Record(ctx, time.Since(enrichStart).Seconds())
	if err != nil {
		return nil, fmt.Errorf("parser: enrich: %w", err)
	}

	for _, it := range items {
		p.metrics.RecordItemParsed(ctx, string(p.locale), string(it.Unit))
		if it.NeedsVolumeInput {
			p.metrics.VolumePrompts.Add(ctx, 1, parseAttrs(p.locale))
		}
	}

	return items, nil
}

// Locale returns the locale this parser was built for.
func (p *Parser) Locale() types.Locale {
	return p.locale
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseAttrs(locale types.Locale) metric.MeasurementOption {
	return metric.WithAttributes(observe.Attr("locale", string(locale)))
}
