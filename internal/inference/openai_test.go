package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 0,
		"model":   "gpt-test",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestOpenAIGenerateUnwrapsArraySchema(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "sk-test")

	var captured map[string]any
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody(`{"items":[{"asset":"INDEX"}]}`)))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testTracer(), srv.URL+"/v1/", srv.Client())
	resp, err := client.Generate(context.Background(), Request{
		Model:     "gpt-test",
		Prompt:    "analyze",
		Schema:    ArrayOf(Object(Prop("asset", Enum("INDEX", "DOLLAR")))),
		WebSearch: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if resp.Text != `[{"asset":"INDEX"}]` {
		t.Fatalf("expected unwrapped array, got %q", resp.Text)
	}
	if len(resp.Citations) != 0 {
		t.Fatalf("expected no citations, got %+v", resp.Citations)
	}

	format, ok := captured["response_format"].(map[string]any)
	if !ok || format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %+v", captured["response_format"])
	}
}

func TestOpenAIGeneratePlainText(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "sk-test")

	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody("BCB is quiet")))
	}))
	defer srv.Close()

	resp, err := NewOpenAIClient(testTracer(), srv.URL+"/v1/", nil).Generate(context.Background(), Request{Model: "gpt-test", Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "BCB is quiet" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if _, ok := captured["response_format"]; ok {
		t.Fatal("expected no response format for free text")
	}
}

func TestOpenAIMissingCredential(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "")
	_, err := NewOpenAIClient(testTracer(), "http://127.0.0.1:1/", nil).Generate(context.Background(), Request{Model: "m"})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestOpenAIAPIError(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "sk-bad")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIClient(testTracer(), srv.URL+"/v1/", nil).Generate(context.Background(), Request{Model: "m"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Provider != "openai" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}
