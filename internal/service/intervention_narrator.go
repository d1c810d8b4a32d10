package service

import (
	"context"
	"errors"
	"strings"

	"tradeguard/internal/domain"
	"tradeguard/internal/inference"
	"tradeguard/internal/metrics"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	// NarrationEmptyFallback is used when the model answered with no text.
	NarrationEmptyFallback = "Monitoring intervention levels..."
	// NarrationFailureFallback is used when the call itself failed.
	NarrationFailureFallback = "Could not complete the intervention analysis right now."
)

type InterventionNarrator struct {
	tracer trace.Tracer
	gen    inference.Generator
	model  string
}

func NewInterventionNarrator(tracer trace.Tracer, gen inference.Generator, model string) *InterventionNarrator {
	return &InterventionNarrator{tracer: tracer, gen: gen, model: model}
}

// Narrate never fails. An empty answer and a failed call map to two distinct
// fixed texts.
func (n *InterventionNarrator) Narrate(ctx context.Context, snapshot domain.MarketSnapshot) string {
	ctx, span := n.tracer.Start(ctx, "intervention-narrator.narrate")
	defer span.End()

	if n.gen == nil {
		metrics.Fallbacks.WithLabelValues("narrator", "error").Inc()
		return NarrationFailureFallback
	}

	resp, err := n.gen.Generate(ctx, inference.Request{
		Model:     n.model,
		Prompt:    interventionPrompt(snapshot),
		WebSearch: true,
	})
	if errors.Is(err, inference.ErrEmptyResponse) {
		metrics.Fallbacks.WithLabelValues("narrator", "empty").Inc()
		return NarrationEmptyFallback
	}
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Str("component", "narrator").Msg("intervention analysis failed")
		metrics.Fallbacks.WithLabelValues("narrator", "error").Inc()
		return NarrationFailureFallback
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}
	if text == "" {
		metrics.Fallbacks.WithLabelValues("narrator", "empty").Inc()
		return NarrationEmptyFallback
	}
	return text
}
