package filterstructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

var tracer = otel.Tracer("github.com/jo-hoe/emodi/filterstructure")

// Applier is a single step of a pipeline.
type Applier interface {
	Name() string
	Apply(ctx context.Context, e emoji.Emoji) (emoji.Emoji, error)
}

// FilterInvoker folds a sequence of bound filters over an emoji.
type FilterInvoker struct {
	filters []Applier
}

// NewFilterInvoker creates a new filter invoker.
func NewFilterInvoker(filters []*BoundFilter) *FilterInvoker {
	steps := make([]Applier, len(filters))
	for i, f := range filters {
		steps[i] = f
	}
	return &FilterInvoker{filters: steps}
}

// Execute applies all filters left to right. The first failing filter ends
// the fold and its error is returned; the value at that point is dropped.
func (i *FilterInvoker) Execute(ctx context.Context, e emoji.Emoji) (emoji.Emoji, error) {
	start := time.Now()

	slog.Info("starting filter pipeline",
		"filter_count", len(i.filters),
		"kind", e.Kind().String(),
		"frame_count", e.FrameCount())

	if len(i.filters) == 0 {
		slog.Debug("no filters to apply, returning original emoji")
		return e, nil
	}

	current := e
	for idx, filter := range i.filters {
		filterStart := time.Now()

		slog.Debug("applying filter",
			"index", idx,
			"filter_name", filter.Name(),
			"kind", current.Kind().String(),
			"frame_count", current.FrameCount())

		stepCtx, span := tracer.Start(ctx, "filter."+filter.Name())
		span.SetAttributes(
			attribute.Int("filter.index", idx),
			attribute.Int("emoji.frames", current.FrameCount()),
		)
		next, err := filter.Apply(stepCtx, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if err != nil {
			slog.Error("filter failed",
				"index", idx,
				"filter_name", filter.Name(),
				"error", err)
			var taxonomyErr *Error
			if errors.As(err, &taxonomyErr) {
				return nil, taxonomyErr
			}
			return nil, fmt.Errorf("filter %s (index %d) failed: %w", filter.Name(), idx, err)
		}
		if next == nil {
			return nil, fmt.Errorf("filter %s (index %d) returned no emoji", filter.Name(), idx)
		}

		size := next.Size()
		slog.Debug("filter completed",
			"index", idx,
			"filter_name", filter.Name(),
			"duration_ms", time.Since(filterStart).Milliseconds(),
			"kind", next.Kind().String(),
			"frame_count", next.FrameCount(),
			"width", size.X,
			"height", size.Y)

		current = next
	}

	slog.Info("filter pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"filter_count", len(i.filters),
		"kind", current.Kind().String(),
		"frame_count", current.FrameCount())

	return current, nil
}
