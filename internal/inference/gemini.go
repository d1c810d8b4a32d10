package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	GeminiKeyEnv          = "GEMINI_API_KEY"
	DefaultGeminiBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	maxErrorBodyBytes     = 4 << 10
	geminiProvider        = "gemini"
	jsonResponseMediaType = "application/json"
)

// GeminiClient calls the generateContent REST endpoint directly.
type GeminiClient struct {
	tracer     trace.Tracer
	baseURL    string
	httpClient *http.Client
	credential func() string
}

func NewGeminiClient(tracer trace.Tracer, baseURL string, httpClient *http.Client) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GeminiClient{
		tracer:     tracer,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		credential: func() string { return os.Getenv(GeminiKeyEnv) },
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
	Tools            []geminiTool            `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content           geminiContent `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "inference.gemini.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", req.Model),
		attribute.Bool("web_search", req.WebSearch),
		attribute.Bool("structured", req.Schema != nil),
	)

	// Read on every call so a rotated key takes effect without a restart.
	apiKey := c.credential()
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	if req.Schema != nil {
		payload.GenerationConfig = &geminiGenerationConfig{
			ResponseMimeType: jsonResponseMediaType,
			ResponseSchema:   req.Schema,
		}
	}
	if req.WebSearch {
		payload.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := &APIError{Provider: geminiProvider, StatusCode: resp.StatusCode, Body: string(raw)}
		span.RecordError(apiErr)
		return nil, apiErr
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	candidate := decoded.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}

	out := &Response{Text: text.String()}
	if candidate.GroundingMetadata != nil {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				out.Citations = append(out.Citations, Citation{})
				continue
			}
			out.Citations = append(out.Citations, Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}
	span.SetAttributes(attribute.Int("citations", len(out.Citations)))
	return out, nil
}
