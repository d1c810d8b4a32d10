package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"tradeguard/internal/config"
	"tradeguard/internal/dashboard"
	"tradeguard/internal/inference"
	"tradeguard/internal/job"
	"tradeguard/internal/logger"
	mcpserver "tradeguard/internal/mcp"
	"tradeguard/internal/service"
	"tradeguard/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const defaultMCPHTTPMaxBodyBytes int64 = 1 << 20

var (
	loadEnvFunc                 = godotenv.Load
	loadConfigFunc              = config.Load
	setupLoggerFunc             = logger.Setup
	initTracerFunc              = tracing.InitTracer
	newGeneratorFunc            = inference.NewFromConfig
	newMarketDataServiceFunc    = service.NewMarketDataService
	newSignalAnalyzerFunc       = service.NewSignalAnalyzer
	newInterventionNarratorFunc = service.NewInterventionNarrator
	newOrchestratorFunc         = dashboard.NewOrchestrator
	newRefreshSchedulerFunc     = job.NewRefreshScheduler
	startSchedulerFunc          = func(s *job.RefreshScheduler, ctx context.Context) { go s.Start(ctx) }
	newMCPServerFunc            = mcpserver.NewServer
	newMCPHandlerFunc           = mcpserver.NewHTTPTransportHandler
	runStdioFunc                = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
	startHTTPServerFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFn = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	// stdout carries the stdio transport, so logs stay structured on stderr.
	setupLoggerFunc(cfg.LogLevel, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "tradeguard-mcp", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	gen := newGeneratorFunc(cfg, tracer)
	orchestrator := newOrchestratorFunc(tracer,
		newMarketDataServiceFunc(tracer, gen, cfg.MarketModel),
		newSignalAnalyzerFunc(tracer, gen, cfg.AnalysisModel),
		newInterventionNarratorFunc(tracer, gen, cfg.NarrativeModel),
		dashboard.Options{
			NotificationTTL: time.Duration(cfg.NotificationTTLSecs) * time.Second,
			RefreshTimeout:  time.Duration(cfg.InferenceTimeoutSecs) * time.Second,
		},
	)
	defer orchestrator.Close()

	scheduler, err := newRefreshSchedulerFunc(tracer, orchestrator, cfg.RefreshCron, cfg.RefreshOnStart)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REFRESH_CRON")
	}
	startSchedulerFunc(scheduler, ctx)

	mcpSrv := newMCPServerFunc(tracer, orchestrator, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	switch strings.ToLower(strings.TrimSpace(cfg.MCPTransport)) {
	case "", "stdio":
		if err := runStdioFunc(ctx, mcpSrv); err != nil {
			log.Fatal().Err(err).Msg("mcp stdio server failed")
		}
	case "http":
		if err := runHTTPMode(ctx, cancel, cfg, mcpSrv); err != nil {
			log.Fatal().Err(err).Msg("mcp http server failed")
		}
	default:
		log.Fatal().Str("transport", cfg.MCPTransport).Msg("unsupported MCP_TRANSPORT")
	}
}

func runHTTPMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, mcpSrv *sdkmcp.Server) error {
	if !cfg.MCPHTTPEnabled {
		return fmt.Errorf("MCP_HTTP_ENABLED must be true when MCP_TRANSPORT=http")
	}
	if strings.TrimSpace(cfg.MCPAuthToken) == "" {
		return fmt.Errorf("MCP_AUTH_TOKEN is required when MCP_TRANSPORT=http")
	}

	handler := newMCPHandlerFunc(mcpSrv, mcpserver.HTTPHandlerConfig{
		AuthToken:       cfg.MCPAuthToken,
		RateLimitPerMin: cfg.MCPRateLimitPerMin,
		MaxBodyBytes:    defaultMCPHTTPMaxBodyBytes,
	})

	addr := net.JoinHostPort(cfg.MCPHTTPBind, fmt.Sprintf("%d", cfg.MCPHTTPPort))
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		log.Info().Str("addr", addr).Msg("mcp http server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("mcp http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFn(srv, shutdownCtx); err != nil {
		return fmt.Errorf("mcp server forced to shutdown: %w", err)
	}
	return nil
}
