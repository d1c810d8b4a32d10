package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	OpenAIKeyEnv   = "OPENAI_API_KEY"
	openAIProvider = "openai"
	wrappedField   = "items"
)

// OpenAIClient uses chat completions with strict JSON-schema output. It has no
// web grounding, so responses never carry citations.
type OpenAIClient struct {
	tracer     trace.Tracer
	baseURL    string
	httpClient *http.Client
	credential func() string
}

func NewOpenAIClient(tracer trace.Tracer, baseURL string, httpClient *http.Client) *OpenAIClient {
	return &OpenAIClient{
		tracer:     tracer,
		baseURL:    strings.TrimSpace(baseURL),
		httpClient: httpClient,
		credential: func() string { return os.Getenv(OpenAIKeyEnv) },
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "inference.openai.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", req.Model),
		attribute.Bool("structured", req.Schema != nil),
	)

	apiKey := c.credential()
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	if c.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(c.httpClient))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}

	// Structured outputs only accept an object at the top level.
	wrapped := false
	if req.Schema != nil {
		schema := req.Schema
		if schema.Type != TypeObject {
			schema = Object(Prop(wrappedField, schema))
			wrapped = true
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "tradeguard_response",
					Schema: schema.JSONSchema(),
					Strict: openai.Bool(true),
				},
			},
		}
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		span.RecordError(err)
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &APIError{Provider: openAIProvider, StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	text := completion.Choices[0].Message.Content
	if wrapped && strings.TrimSpace(text) != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &envelope); err == nil {
			if inner, ok := envelope[wrappedField]; ok {
				text = string(inner)
			}
		}
	}
	return &Response{Text: text}, nil
}
