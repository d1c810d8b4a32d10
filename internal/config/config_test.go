package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "PORT", "INFERENCE_PROVIDER", "GEMINI_API_KEY", "GEMINI_BASE_URL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "MARKET_MODEL", "ANALYSIS_MODEL", "NARRATIVE_MODEL",
		"INFERENCE_TIMEOUT_SECS", "NOTIFICATION_TTL_SECS", "REFRESH_CRON", "REFRESH_ON_START",
		"TELEGRAM_BOT_TOKEN", "SSH_BIND", "SSH_PORT", "SSH_HOST_KEY_PATH",
		"MCP_TRANSPORT", "MCP_HTTP_ENABLED", "MCP_HTTP_BIND", "MCP_HTTP_PORT", "MCP_AUTH_TOKEN",
		"MCP_REQUEST_TIMEOUT_SECS", "MCP_RATE_LIMIT_PER_MIN", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"CORS_ALLOW_ORIGINS", "TUI_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.LogLevel != "info" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: log=%s port=%s", cfg.LogLevel, cfg.HTTPPort)
	}
	if cfg.InferenceProvider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %s", cfg.InferenceProvider)
	}
	if cfg.GeminiBaseURL != "https://generativelanguage.googleapis.com/v1beta" {
		t.Fatalf("unexpected gemini base url %s", cfg.GeminiBaseURL)
	}
	if cfg.MarketModel != "gemini-2.5-flash" || cfg.AnalysisModel != "gemini-2.5-pro" || cfg.NarrativeModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected model defaults: %+v", cfg)
	}
	if cfg.InferenceTimeoutSecs != 90 || cfg.NotificationTTLSecs != 5 {
		t.Fatalf("unexpected timing defaults: timeout=%d ttl=%d", cfg.InferenceTimeoutSecs, cfg.NotificationTTLSecs)
	}
	if !cfg.RefreshOnStart || cfg.RefreshCron != "" {
		t.Fatalf("unexpected refresh defaults: onStart=%v cron=%q", cfg.RefreshOnStart, cfg.RefreshCron)
	}
	if len(cfg.CORSAllowOrigins) != 0 {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSAllowOrigins)
	}
	if cfg.TUILogFile != "tradeguard-tui.log" {
		t.Fatalf("unexpected tui log file %q", cfg.TUILogFile)
	}
	if cfg.SSHBind != "0.0.0.0" || cfg.SSHPort != 23234 {
		t.Fatalf("unexpected ssh defaults: %s:%d", cfg.SSHBind, cfg.SSHPort)
	}
	if cfg.MCPTransport != "stdio" || cfg.MCPHTTPBind != "127.0.0.1" || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected MCP defaults: %+v", cfg)
	}
	if cfg.MCPRequestTimeoutSecs != 120 || cfg.MCPRateLimitPerMin != 60 {
		t.Fatalf("unexpected MCP limits: timeout=%d rate=%d", cfg.MCPRequestTimeoutSecs, cfg.MCPRateLimitPerMin)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PORT", ":9090")
	t.Setenv("INFERENCE_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("ANALYSIS_MODEL", "o4-mini")
	t.Setenv("INFERENCE_TIMEOUT_SECS", "30")
	t.Setenv("NOTIFICATION_TTL_SECS", "8")
	t.Setenv("REFRESH_CRON", "0 */5 * * * *")
	t.Setenv("REFRESH_ON_START", "false")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://tradeguard.app")
	t.Setenv("SSH_PORT", "2222")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("MCP_HTTP_ENABLED", "true")
	t.Setenv("MCP_AUTH_TOKEN", "secret")

	cfg := Load()
	if cfg.LogLevel != "debug" || cfg.HTTPPort != "9090" {
		t.Fatalf("unexpected log/port: %s %s", cfg.LogLevel, cfg.HTTPPort)
	}
	if cfg.InferenceProvider != ProviderOpenAI || cfg.OpenAIBaseURL != "http://localhost:1234/v1" {
		t.Fatalf("unexpected provider settings: %+v", cfg)
	}
	if cfg.MarketModel != "gpt-4o-mini" || cfg.AnalysisModel != "o4-mini" {
		t.Fatalf("unexpected models: market=%s analysis=%s", cfg.MarketModel, cfg.AnalysisModel)
	}
	if cfg.InferenceTimeoutSecs != 30 || cfg.NotificationTTLSecs != 8 {
		t.Fatalf("unexpected timings: %+v", cfg)
	}
	if cfg.RefreshCron != "0 */5 * * * *" || cfg.RefreshOnStart {
		t.Fatalf("unexpected refresh settings: %+v", cfg)
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[0] != "http://localhost:3000" || cfg.CORSAllowOrigins[1] != "https://tradeguard.app" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowOrigins)
	}
	if cfg.SSHPort != 2222 {
		t.Fatalf("expected ssh port 2222, got %d", cfg.SSHPort)
	}
	if cfg.MCPTransport != "http" || !cfg.MCPHTTPEnabled || cfg.MCPAuthToken != "secret" {
		t.Fatalf("unexpected MCP settings: %+v", cfg)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("INFERENCE_PROVIDER", "anthropic")
	t.Setenv("NOTIFICATION_TTL_SECS", "-1")
	t.Setenv("MCP_TRANSPORT", "grpc")
	t.Setenv("MCP_HTTP_PORT", "abc")

	cfg := Load()
	if cfg.InferenceProvider != ProviderGemini {
		t.Fatalf("expected gemini fallback, got %s", cfg.InferenceProvider)
	}
	if cfg.NotificationTTLSecs != 5 {
		t.Fatalf("expected ttl fallback 5, got %d", cfg.NotificationTTLSecs)
	}
	if cfg.MCPTransport != "stdio" || cfg.MCPHTTPPort != 8090 {
		t.Fatalf("unexpected MCP fallback: %s:%d", cfg.MCPTransport, cfg.MCPHTTPPort)
	}
}
