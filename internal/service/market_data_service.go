package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"tradeguard/internal/domain"
	"tradeguard/internal/inference"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSourceTitle labels a citation the provider returned without a title.
const DefaultSourceTitle = "Market source"

type marketDataPayload struct {
	VIX           *float64 `json:"vix" validate:"required"`
	DXY           *float64 `json:"dxy" validate:"required"`
	DI            *float64 `json:"di" validate:"required"`
	Dollar        *float64 `json:"dollar" validate:"required"`
	Index         *float64 `json:"index" validate:"required"`
	SwapContracts *float64 `json:"swapContracts" validate:"required,gte=0"`
}

type MarketDataService struct {
	tracer trace.Tracer
	gen    inference.Generator
	model  string
	now    func() time.Time
}

func NewMarketDataService(tracer trace.Tracer, gen inference.Generator, model string) *MarketDataService {
	return &MarketDataService{
		tracer: tracer,
		gen:    gen,
		model:  model,
		now:    time.Now,
	}
}

// FetchSnapshot asks the model for the six indicators with web search enabled.
// LastUpdate and Sources are filled in locally.
func (s *MarketDataService) FetchSnapshot(ctx context.Context) (domain.MarketSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "market-data-service.fetch-snapshot")
	defer span.End()

	if s.gen == nil {
		return domain.MarketSnapshot{}, fmt.Errorf("market data service is not fully initialized")
	}

	resp, err := s.gen.Generate(ctx, inference.Request{
		Model:     s.model,
		Prompt:    marketDataPrompt,
		Schema:    marketDataSchema(),
		WebSearch: true,
	})
	if err != nil {
		span.RecordError(err)
		return domain.MarketSnapshot{}, fmt.Errorf("fetch market data: %w", err)
	}

	var payload marketDataPayload
	if err := decodeResponse(resp.Text, &payload); err != nil {
		span.RecordError(err)
		return domain.MarketSnapshot{}, fmt.Errorf("fetch market data: %w", err)
	}
	if err := validateStruct(payload); err != nil {
		span.RecordError(err)
		return domain.MarketSnapshot{}, fmt.Errorf("fetch market data: %w", err)
	}

	snapshot := domain.MarketSnapshot{
		VIX:           *payload.VIX,
		DXY:           *payload.DXY,
		DIRate:        *payload.DI,
		Dollar:        *payload.Dollar,
		Index:         *payload.Index,
		SwapContracts: int64(math.Round(*payload.SwapContracts)),
		LastUpdate:    s.now().Format(domain.LastUpdateLayout),
		Sources:       sourcesFromCitations(resp.Citations),
	}
	span.SetAttributes(
		attribute.Int("sources", len(snapshot.Sources)),
		attribute.Int64("swap_contracts", snapshot.SwapContracts),
	)
	return snapshot, nil
}

// sourcesFromCitations drops citations without a URI and keeps provider order.
func sourcesFromCitations(citations []inference.Citation) []domain.Source {
	sources := make([]domain.Source, 0, len(citations))
	for _, c := range citations {
		uri := strings.TrimSpace(c.URI)
		if uri == "" {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = DefaultSourceTitle
		}
		sources = append(sources, domain.Source{URI: uri, Title: title})
	}
	return sources
}
