// Package reconcile implements the northstar reconciliation pipeline: it
// sends a batch of work items to a text-completion model, parses the
// free-form response into a strict schema, repairs or discards malformed
// output, and merges the result back onto the input set.
//
// The engine treats the model as an untrusted oracle. Whatever comes back,
// every call returns exactly one update per input item, with unchanged IDs
// in input order, priorities inside the closed P1..P5 set, and non-empty
// deadlines. Only configuration and transport failures surface as errors;
// unusable model output silently degrades to synthesized fallback records.
package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/northstarhq/northstar/pkg/errors"
	"github.com/northstarhq/northstar/pkg/logging"
	"github.com/northstarhq/northstar/pkg/okr"
)

// ModelInfo describes a completion model returned by discovery.
type ModelInfo struct {
	Name    string   // may carry a "models/" prefix
	Actions []string // supported generation methods
}

// ModelLister is the discovery capability: list the models the configured
// credential can call.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// Completer is the single-shot text completion capability. Implementations
// ask the model to respond with JSON, but the engine never trusts them to
// comply.
type Completer interface {
	GenerateContent(ctx context.Context, model, prompt string) (string, error)
}

// Client bundles the two capabilities the engine depends on.
type Client interface {
	ModelLister
	Completer
}

// Engine runs reconciliation batches against a completion client.
// Engines are safe for concurrent use; the only shared mutable state is
// the model selection cache.
type Engine struct {
	client   Client
	selector *Selector
	override string // explicit model id from configuration; skips discovery
	logger   *zerolog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithModelOverride pins the completion model. Discovery is never invoked
// while an override is set, and no fallback retry is attempted.
func WithModelOverride(model string) Option {
	return func(e *Engine) { e.override = strings.TrimSpace(model) }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCache sets the model selection cache, letting tests and embedding
// services control its scope.
func WithCache(cache *ModelCache) Option {
	return func(e *Engine) { e.selector = NewSelector(e.client, cache) }
}

// WithClock sets the time source used for default deadlines.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine backed by the given completion client.
func New(client Client, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		selector: NewSelector(client, NewModelCache()),
		logger:   logging.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BatchOptions carries the optional inputs of a reconciliation batch.
type BatchOptions struct {
	// Category scopes the prompt to a single category.
	Category string

	// Answers are user answers to earlier clarifying questions, keyed by
	// question id.
	Answers map[string]string
}

// Reconcile recomputes category, priority, scope, and deadline for every
// item in the batch. The returned slice always has the same length and id
// order as the input. Transport and configuration failures are returned
// as-is; unusable model output is replaced by fallback records.
func (e *Engine) Reconcile(ctx context.Context, items []okr.WorkItem, opts *BatchOptions) ([]okr.Update, error) {
	if len(items) == 0 {
		return []okr.Update{}, nil
	}
	if opts == nil {
		opts = &BatchOptions{}
	}

	prompt := BuildPrompt(items, opts.Category, opts.Answers)

	raw, err := e.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		e.logger.Debug().Int("items", len(items)).Msg("Empty completion text, synthesizing fallback updates")
		return e.fallbackAll(items), nil
	}

	records, ok := ExtractRecords(raw)
	if !ok {
		e.logger.Debug().Int("items", len(items)).Msg("Completion text not parseable, synthesizing fallback updates")
		return e.fallbackAll(items), nil
	}

	byID := make(map[string]map[string]any, len(records))
	for _, rec := range records {
		entry, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		if id := stringField(entry, "id"); id != "" {
			byID[id] = entry
		}
	}

	updates := make([]okr.Update, 0, len(items))
	for _, item := range items {
		candidate, ok := byID[item.ID]
		if !ok {
			updates = append(updates, e.fallbackUpdate(item))
			continue
		}
		updates = append(updates, e.normalizeUpdate(candidate, item))
	}
	return updates, nil
}

// complete resolves a model and invokes the completion capability. A
// client-side "model not found" failure triggers exactly one retry with a
// freshly discovered model, and only when no override pins the model.
func (e *Engine) complete(ctx context.Context, prompt string) (string, error) {
	model, err := e.selector.Resolve(ctx, e.override)
	if err != nil {
		return "", err
	}

	text, err := e.client.GenerateContent(ctx, model, prompt)
	if err == nil {
		return text, nil
	}

	if e.override != "" || !retryableModelError(err) {
		return "", err
	}

	fresh, discoverErr := e.selector.Rediscover(ctx)
	if discoverErr != nil {
		return "", discoverErr
	}

	e.logger.Debug().
		Str("failed_model", model).
		Str("retry_model", fresh).
		Msg("Retrying completion with discovered model")

	return e.client.GenerateContent(ctx, fresh, prompt)
}

// retryableModelError reports whether a completion failure looks like a
// client-side unknown-model rejection rather than a transient fault.
func retryableModelError(err error) bool {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		return false
	}
	if apiErr.StatusCode != 400 && apiErr.StatusCode != 404 {
		return false
	}

	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "listmodels")
}

func (e *Engine) fallbackAll(items []okr.WorkItem) []okr.Update {
	updates := make([]okr.Update, 0, len(items))
	for _, item := range items {
		updates = append(updates, e.fallbackUpdate(item))
	}
	return updates
}
