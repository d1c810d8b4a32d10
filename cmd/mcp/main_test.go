package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"tradeguard/internal/config"
	"tradeguard/internal/inference"
	"tradeguard/internal/job"
	mcpserver "tradeguard/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainMCPStdio(t *testing.T) {
	restore := stubMCPDeps(t, "stdio")
	defer restore()

	called := false
	origRunStdio := runStdioFunc
	runStdioFunc = func(ctx context.Context, server *sdkmcp.Server) error {
		called = true
		return nil
	}
	defer func() { runStdioFunc = origRunStdio }()

	main()

	if !called {
		t.Fatal("expected stdio transport to run")
	}
}

func TestMainMCPHTTP(t *testing.T) {
	restore := stubMCPDeps(t, "http")
	defer restore()

	httpStarted := false
	started := make(chan struct{})
	origStartHTTP := startHTTPServerFunc
	origNotify := setupSignalNotify
	origWait := waitForSignalFunc
	origShutdown := shutdownHTTPServerFn

	startHTTPServerFunc = func(*http.Server) error {
		httpStarted = true
		close(started)
		return http.ErrServerClosed
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) { <-started }
	shutdownHTTPServerFn = func(*http.Server, context.Context) error { return nil }

	defer func() {
		startHTTPServerFunc = origStartHTTP
		setupSignalNotify = origNotify
		waitForSignalFunc = origWait
		shutdownHTTPServerFn = origShutdown
	}()

	main()

	if !httpStarted {
		t.Fatal("expected http transport to start")
	}
}

func TestMainMCPHTTPRequiresToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{
		MCPHTTPEnabled: true,
		MCPHTTPBind:    "127.0.0.1",
		MCPHTTPPort:    8090,
	}
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test"}, nil)

	err := runHTTPMode(ctx, cancel, cfg, srv)
	if err == nil {
		t.Fatal("expected missing token error")
	}
	if !strings.Contains(err.Error(), "MCP_AUTH_TOKEN is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMainMCPHTTPRequiresEnabledFlag(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := runHTTPMode(ctx, cancel, &config.Config{MCPAuthToken: "secret"}, sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test"}, nil))
	if err == nil || !strings.Contains(err.Error(), "MCP_HTTP_ENABLED") {
		t.Fatalf("expected enabled flag error, got %v", err)
	}
}

func stubMCPDeps(t *testing.T, transport string) func() {
	t.Helper()

	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origSetupLogger := setupLoggerFunc
	origInitTracer := initTracerFunc
	origNewGenerator := newGeneratorFunc
	origStartScheduler := startSchedulerFunc
	origNewMCPServer := newMCPServerFunc
	origNewMCPHandler := newMCPHandlerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			LogLevel:              "error",
			InferenceTimeoutSecs:  1,
			NotificationTTLSecs:   1,
			MCPTransport:          transport,
			MCPHTTPEnabled:        true,
			MCPHTTPBind:           "127.0.0.1",
			MCPHTTPPort:           8090,
			MCPAuthToken:          "secret",
			MCPRequestTimeoutSecs: 1,
			MCPRateLimitPerMin:    60,
		}
	}
	setupLoggerFunc = func(string, bool) zerolog.Logger { return zerolog.Nop() }
	initTracerFunc = func(ctx context.Context, name, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newGeneratorFunc = func(*config.Config, trace.Tracer) inference.Generator { return failingGenerator{} }
	startSchedulerFunc = func(*job.RefreshScheduler, context.Context) {}
	newMCPServerFunc = func(trace.Tracer, mcpserver.Dashboard, mcpserver.ServerConfig) *sdkmcp.Server {
		return sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test-mcp"}, nil)
	}
	newMCPHandlerFunc = func(server *sdkmcp.Server, cfg mcpserver.HTTPHandlerConfig) http.Handler {
		return http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		setupLoggerFunc = origSetupLogger
		initTracerFunc = origInitTracer
		newGeneratorFunc = origNewGenerator
		startSchedulerFunc = origStartScheduler
		newMCPServerFunc = origNewMCPServer
		newMCPHandlerFunc = origNewMCPHandler
	}
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, inference.Request) (*inference.Response, error) {
	return nil, errors.New("no inference in tests")
}
