package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradeguard/internal/metrics"
)

var (
	// ErrMissingCredential is returned when the provider key is absent from the environment.
	ErrMissingCredential = errors.New("inference credential not configured")
	// ErrEmptyResponse is returned when the provider answers without any candidate.
	ErrEmptyResponse = errors.New("inference response has no candidates")
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, strings.TrimSpace(e.Body))
}

// Citation is raw grounding metadata as reported by the provider. URI may be empty.
type Citation struct {
	URI   string
	Title string
}

type Request struct {
	Model     string
	Prompt    string
	Schema    *Schema
	WebSearch bool
}

type Response struct {
	Text      string
	Citations []Citation
}

// Generator submits a single prompt to a hosted model.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type instrumented struct {
	provider string
	next     Generator
}

// Instrument records request counts and latency for every call made through next.
func Instrument(provider string, next Generator) Generator {
	return &instrumented{provider: provider, next: next}
}

func (g *instrumented) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := g.next.Generate(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.InferenceRequests.WithLabelValues(g.provider, req.Model, outcome).Inc()
	metrics.InferenceDuration.WithLabelValues(g.provider, req.Model).Observe(time.Since(start).Seconds())
	return resp, err
}
