package inference

import (
	"net/http"
	"time"

	"tradeguard/internal/config"

	"go.opentelemetry.io/otel/trace"
)

// NewFromConfig builds the configured provider wrapped with metrics.
func NewFromConfig(cfg *config.Config, tracer trace.Tracer) Generator {
	httpClient := &http.Client{Timeout: time.Duration(cfg.InferenceTimeoutSecs) * time.Second}
	if cfg.InferenceProvider == config.ProviderOpenAI {
		return Instrument(openAIProvider, NewOpenAIClient(tracer, cfg.OpenAIBaseURL, httpClient))
	}
	return Instrument(geminiProvider, NewGeminiClient(tracer, cfg.GeminiBaseURL, httpClient))
}
