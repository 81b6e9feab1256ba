// Package emodi runs a transformation command end to end: parse, look up
// the emoji, type check the filters and fold them over the emoji.
package emodi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/parser"

	// built-in filters register themselves
	_ "github.com/jo-hoe/emodi/internal/backend/filters"
)

// Resolver finds the emoji a name refers to for a team. ok is false when the
// name is unknown.
type Resolver interface {
	Lookup(ctx context.Context, team, name string) (e emoji.Emoji, ok bool, err error)
}

type Engine struct {
	registry *filterstructure.FilterRegistry
	resolver Resolver
	env      *filterstructure.Env
	tracer   trace.Tracer
}

// NewEngine creates an engine. A nil registry selects the default registry
// holding the built-in filters.
func NewEngine(registry *filterstructure.FilterRegistry, resolver Resolver, env *filterstructure.Env) *Engine {
	if registry == nil {
		registry = filterstructure.DefaultRegistry
	}
	if env == nil {
		env = &filterstructure.Env{}
	}
	return &Engine{
		registry: registry,
		resolver: resolver,
		env:      env,
		tracer:   otel.Tracer("github.com/jo-hoe/emodi/emodi"),
	}
}

// Registry returns the filters the engine dispatches to.
func (en *Engine) Registry() *filterstructure.FilterRegistry {
	return en.registry
}

// Run executes the command text for team. Every failure is returned as a
// *filterstructure.Error; unexpected failures, panics included, are
// reported as internal errors.
func (en *Engine) Run(ctx context.Context, team, text string) (result emoji.Emoji, err error) {
	start := time.Now()
	ctx, span := en.tracer.Start(ctx, "emodi.run", trace.WithAttributes(attribute.String("team", team)))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("transformation panicked", "panic", r, "text", text)
			result, err = nil, &filterstructure.Error{Kind: filterstructure.KindInternal, Message: fmt.Sprintf("panic: %v", r)}
		}
		if err != nil {
			err = filterstructure.AsError(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	transformation, err := parser.Parse(text)
	if err != nil {
		slog.Info("command rejected", "stage", "parse", "error", err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("emoji.name", transformation.EmojiName),
		attribute.Int("filter.count", len(transformation.Filters)),
	)

	source, ok, err := en.resolver.Lookup(ctx, team, transformation.EmojiName)
	if err != nil {
		slog.Error("emoji lookup failed", "team", team, "emoji", transformation.EmojiName, "error", err)
		return nil, err
	}
	if !ok {
		return nil, filterstructure.NameError("`:%s:` : No such emoji", transformation.EmojiName)
	}

	bound, err := en.registry.Bind(transformation.Filters, en.env)
	if err != nil {
		slog.Info("command rejected", "stage", "bind", "error", err)
		return nil, err
	}

	result, err = filterstructure.NewFilterInvoker(bound).Execute(ctx, source)
	if err != nil {
		return nil, err
	}

	slog.Info("transformation completed",
		"team", team,
		"emoji", transformation.EmojiName,
		"filter_count", len(bound),
		"kind", result.Kind().String(),
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}
