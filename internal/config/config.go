package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	LogLevel         string
	HTTPPort         string
	CORSAllowOrigins []string

	InferenceProvider    string
	GeminiBaseURL        string
	OpenAIBaseURL        string
	MarketModel          string
	AnalysisModel        string
	NarrativeModel       string
	InferenceTimeoutSecs int

	NotificationTTLSecs int
	RefreshCron         string
	RefreshOnStart      bool

	TelegramBotToken string

	SSHBind        string
	SSHPort        int
	SSHHostKeyPath string
	TUILogFile     string

	MCPTransport          string
	MCPHTTPEnabled        bool
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int
	MCPRateLimitPerMin    int

	OTLPEndpoint string
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),
		OTLPEndpoint:     strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		RefreshCron:      strings.TrimSpace(os.Getenv("REFRESH_CRON")),
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.HTTPPort = strings.TrimPrefix(strings.TrimSpace(os.Getenv("PORT")), ":")
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, origin)
		}
	}

	cfg.InferenceProvider = strings.ToLower(strings.TrimSpace(os.Getenv("INFERENCE_PROVIDER")))
	if cfg.InferenceProvider == "" {
		cfg.InferenceProvider = ProviderGemini
	}
	if cfg.InferenceProvider != ProviderGemini && cfg.InferenceProvider != ProviderOpenAI {
		log.Warn().Str("provider", cfg.InferenceProvider).Msg("unsupported INFERENCE_PROVIDER, defaulting to gemini")
		cfg.InferenceProvider = ProviderGemini
	}

	// Credentials are not stored here: the inference client reads them before every call.
	switch cfg.InferenceProvider {
	case ProviderGemini:
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Warn().Msg("GEMINI_API_KEY not set, refreshes will fail until it is provided")
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			log.Warn().Msg("OPENAI_API_KEY not set, refreshes will fail until it is provided")
		}
	}

	cfg.GeminiBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("GEMINI_BASE_URL")), "/")
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	cfg.OpenAIBaseURL = strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))

	defaultFast, defaultReasoning := "gemini-2.5-flash", "gemini-2.5-pro"
	if cfg.InferenceProvider == ProviderOpenAI {
		defaultFast, defaultReasoning = "gpt-4o-mini", "gpt-4o"
	}
	cfg.MarketModel = envOr("MARKET_MODEL", defaultFast)
	cfg.AnalysisModel = envOr("ANALYSIS_MODEL", defaultReasoning)
	cfg.NarrativeModel = envOr("NARRATIVE_MODEL", defaultFast)

	cfg.InferenceTimeoutSecs = positiveInt("INFERENCE_TIMEOUT_SECS", 90)
	cfg.NotificationTTLSecs = positiveInt("NOTIFICATION_TTL_SECS", 5)

	cfg.RefreshOnStart = true
	if v := strings.TrimSpace(os.Getenv("REFRESH_ON_START")); strings.EqualFold(v, "false") {
		cfg.RefreshOnStart = false
	}

	if cfg.TelegramBotToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set")
	}

	cfg.SSHBind = strings.TrimSpace(os.Getenv("SSH_BIND"))
	if cfg.SSHBind == "" {
		cfg.SSHBind = "0.0.0.0"
	}
	cfg.SSHPort = positiveInt("SSH_PORT", 23234)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/tradeguard_ed25519"
	}

	cfg.TUILogFile = envOr("TUI_LOG_FILE", "tradeguard-tui.log")

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn().Str("transport", cfg.MCPTransport).Msg("unsupported MCP_TRANSPORT, defaulting to stdio")
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("MCP_HTTP_ENABLED")), "true")

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}
	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 120)
	cfg.MCPRateLimitPerMin = positiveInt("MCP_RATE_LIMIT_PER_MIN", 60)

	return cfg
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Int("fallback", fallback).Msg("invalid integer setting")
	}
	return fallback
}
