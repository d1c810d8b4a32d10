package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"tradeguard/internal/bot"
	"tradeguard/internal/config"
	"tradeguard/internal/inference"
	"tradeguard/internal/job"
	"tradeguard/internal/sshserver"
	"tradeguard/internal/tui"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	var schedulerStarted, httpStarted bool
	origStartScheduler := startSchedulerFunc
	origStartHTTP := startHTTPServerFunc
	started := make(chan struct{})
	startSchedulerFunc = func(*job.RefreshScheduler, context.Context) { schedulerStarted = true }
	startHTTPServerFunc = func(*http.Server) error {
		httpStarted = true
		close(started)
		return http.ErrServerClosed
	}
	waitForSignalFunc = func(<-chan os.Signal) { <-started }
	defer func() {
		startSchedulerFunc = origStartScheduler
		startHTTPServerFunc = origStartHTTP
	}()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if !schedulerStarted || !httpStarted {
		t.Fatalf("expected scheduler and http server to start: scheduler=%v http=%v", schedulerStarted, httpStarted)
	}
}

func TestMainServesSwaggerDoc(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	origStartScheduler := startSchedulerFunc
	origStartHTTP := startHTTPServerFunc
	defer func() {
		startSchedulerFunc = origStartScheduler
		startHTTPServerFunc = origStartHTTP
	}()
	startSchedulerFunc = func(*job.RefreshScheduler, context.Context) {}
	var handler http.Handler
	started := make(chan struct{})
	startHTTPServerFunc = func(srv *http.Server) error {
		handler = srv.Handler
		close(started)
		return http.ErrServerClosed
	}
	waitForSignalFunc = func(<-chan os.Signal) { <-started }

	main()

	if handler == nil {
		t.Fatal("expected http server handler")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from swagger doc, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "TradeGuard API") || !strings.Contains(body, "/api/refresh") {
		t.Fatalf("unexpected swagger doc: %s", body)
	}
}

func TestCORSConfig(t *testing.T) {
	c := corsConfig(nil)
	if !c.AllowAllOrigins {
		t.Fatal("expected all origins without explicit list")
	}

	c = corsConfig([]string{"http://localhost:5173"})
	if c.AllowAllOrigins || len(c.AllowOrigins) != 1 {
		t.Fatalf("unexpected cors config: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid cors config: %v", err)
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origSetupLogger := setupLoggerFunc
	origInitTracer := initTracerFunc
	origNewGenerator := newGeneratorFunc
	origStartTelegram := startTelegramBotFunc
	origNewSSH := newSSHServerFunc
	origNotify := setupSignalNotify
	origWait := waitForSignalFunc
	origShutdown := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			LogLevel:             "error",
			HTTPPort:             "0",
			MarketModel:          "m",
			AnalysisModel:        "a",
			NarrativeModel:       "n",
			InferenceTimeoutSecs: 1,
			NotificationTTLSecs:  1,
		}
	}
	setupLoggerFunc = func(string, bool) zerolog.Logger { return zerolog.Nop() }
	initTracerFunc = func(ctx context.Context, name, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newGeneratorFunc = func(*config.Config, trace.Tracer) inference.Generator { return failingGenerator{} }
	startTelegramBotFunc = func(string, bot.Dashboard) *bot.AlertDispatcher { return nil }
	newSSHServerFunc = func(string, int, string, tui.DashboardSource) (*sshserver.Server, error) {
		return nil, errors.New("disabled in tests")
	}
	setupSignalNotify = func(chan<- os.Signal, ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		setupLoggerFunc = origSetupLogger
		initTracerFunc = origInitTracer
		newGeneratorFunc = origNewGenerator
		startTelegramBotFunc = origStartTelegram
		newSSHServerFunc = origNewSSH
		setupSignalNotify = origNotify
		waitForSignalFunc = origWait
		shutdownHTTPServerFunc = origShutdown
	}
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, inference.Request) (*inference.Response, error) {
	return nil, errors.New("no inference in tests")
}
