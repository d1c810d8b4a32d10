package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradeguard/internal/domain"
	"tradeguard/internal/inference"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type signalPayload struct {
	Asset      *string  `json:"asset" validate:"required,oneof=INDEX DOLLAR"`
	Action     *string  `json:"action" validate:"required,oneof=BUY SELL NEUTRAL"`
	Reasoning  *string  `json:"reasoning" validate:"required"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
	Timestamp  *string  `json:"timestamp" validate:"required"`
}

// SignalAnalyzer classifies a snapshot into trading signals. The decision
// rules live in the prompt; nothing is thresholded locally.
type SignalAnalyzer struct {
	tracer trace.Tracer
	gen    inference.Generator
	model  string
	now    func() time.Time
}

func NewSignalAnalyzer(tracer trace.Tracer, gen inference.Generator, model string) *SignalAnalyzer {
	return &SignalAnalyzer{
		tracer: tracer,
		gen:    gen,
		model:  model,
		now:    time.Now,
	}
}

// Analyze returns the signals in the order the model produced them. A shorter
// or empty set is valid.
func (a *SignalAnalyzer) Analyze(ctx context.Context, snapshot domain.MarketSnapshot) ([]domain.TradingSignal, error) {
	ctx, span := a.tracer.Start(ctx, "signal-analyzer.analyze")
	defer span.End()

	if a.gen == nil {
		return nil, fmt.Errorf("signal analyzer is not fully initialized")
	}

	resp, err := a.gen.Generate(ctx, inference.Request{
		Model:  a.model,
		Prompt: analysisPrompt(snapshot),
		Schema: signalsSchema(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("analyze market: %w", err)
	}

	var payload []signalPayload
	if err := decodeResponse(resp.Text, &payload); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("analyze market: %w", err)
	}

	signals := make([]domain.TradingSignal, 0, len(payload))
	for i := range payload {
		if err := validateStruct(payload[i]); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("analyze market: signal %d: %w", i, err)
		}
		p := payload[i]
		ts := strings.TrimSpace(*p.Timestamp)
		if ts == "" {
			ts = a.now().Format(domain.LastUpdateLayout)
		}
		signals = append(signals, domain.TradingSignal{
			Asset:      domain.Asset(*p.Asset),
			Action:     domain.Action(*p.Action),
			Reasoning:  *p.Reasoning,
			Confidence: *p.Confidence,
			Timestamp:  ts,
		})
	}

	span.SetAttributes(attribute.Int("signals", len(signals)))
	return signals, nil
}
