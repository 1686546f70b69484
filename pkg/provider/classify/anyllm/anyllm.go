// Package anyllm provides a classification provider backed by
// github.com/mozilla-ai/any-llm-go, a unified multi-provider interface that
// supports OpenAI, Anthropic, Gemini, Ollama, DeepSeek, Mistral, Groq, and
// more.
//
// The whole utterance's names go out as one JSON-prompt completion and come
// back as one JSON array, so a five-item utterance costs one request, not
// five.
//
// Usage:
//
//	p, err := anyllm.New("openai", "gpt-4o-mini", anyllmlib.WithAPIKey("sk-..."))
//	p, err := anyllm.NewOllama("llama3.2")
package anyllm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// systemPrompt pins the model to the fixed category vocabulary and a strict
// JSON-array answer shape.
const systemPrompt = `You classify grocery item names into food categories.
Answer with a JSON array only, no prose. For each input name, in input order,
emit {"category": "<category>", "emoji": "<one emoji or empty string>"}.
Valid categories: vegetable, fruit, meat, seafood, dairy, egg, grain,
beverage, condiment, snack, other. Use "other" when unsure.`

// Provider implements classify.Provider by wrapping
// github.com/mozilla-ai/any-llm-go.
type Provider struct {
	backend anyllmlib.Provider
	model   string
}

// Compile-time interface check.
var _ classify.Provider = (*Provider)(nil)

// New creates a new Provider backed by the given LLM provider name.
//
// providerName is one of: "openai", "anthropic", "gemini", "ollama",
// "deepseek", "mistral", "groq", "llamacpp", "llamafile".
//
// model is the specific model to use (e.g., "gpt-4o-mini").
//
// opts are any-llm-go configuration options (e.g., anyllmlib.WithAPIKey,
// anyllmlib.WithBaseURL). Without an API key option the provider falls back
// to the relevant environment variable (OPENAI_API_KEY and friends).
func New(providerName, model string, opts ...anyllmlib.Option) (*Provider, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}
	return &Provider{backend: backend, model: model}, nil
}

// NewOpenAI creates a Provider backed by OpenAI.
func NewOpenAI(model string, opts ...anyllmlib.Option) (*Provider, error) {
	return New("openai", model, opts...)
}

// NewAnthropic creates a Provider backed by Anthropic.
func NewAnthropic(model string, opts ...anyllmlib.Option) (*Provider, error) {
	return New("anthropic", model, opts...)
}

// NewOllama creates a Provider backed by Ollama (local inference).
// Without options, it connects to http://localhost:11434.
func NewOllama(model string, opts ...anyllmlib.Option) (*Provider, error) {
	return New("ollama", model, opts...)
}

// createBackend creates the underlying any-llm-go provider.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	case "llamafile":
		return llamafile.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama, deepseek, mistral, groq, llamacpp, llamafile", providerName)
	}
}

// batchEntry is the per-name answer shape the model must produce.
type batchEntry struct {
	Category string `json:"category"`
	Emoji    string `json:"emoji"`
}

// ClassifyBatch implements classify.Provider.
func (p *Provider) ClassifyBatch(ctx context.Context, names []string) ([]classify.Result, error) {
	if len(names) == 0 {
		return nil, nil
	}

	input, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("anyllm: marshal names: %w", err)
	}

	temp := 0.0
	resp, err := p.backend.Completion(ctx, anyllmlib.CompletionParams{
		Model:       p.model,
		Temperature: &temp,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: systemPrompt},
			{Role: anyllmlib.RoleUser, Content: string(input)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("anyllm: empty choices in response")
	}

	entries, err := parseBatch(resp.Choices[0].Message.ContentString())
	if err != nil {
		return nil, err
	}
	if len(entries) != len(names) {
		return nil, fmt.Errorf("anyllm: got %d classifications for %d names", len(entries), len(names))
	}

	results := make([]classify.Result, len(entries))
	for i, e := range entries {
		cat := types.FoodCategory(strings.ToLower(strings.TrimSpace(e.Category)))
		if !cat.IsValid() {
			cat = types.CategoryOther
		}
		results[i] = classify.Result{Category: cat, Emoji: e.Emoji}
	}
	return results, nil
}

// parseBatch decodes the model's JSON array, tolerating a markdown code
// fence around it.
func parseBatch(content string) ([]batchEntry, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var entries []batchEntry
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return nil, fmt.Errorf("anyllm: decode classification array: %w", err)
	}
	return entries, nil
}
