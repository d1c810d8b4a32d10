package main

import (
	"context"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	_ "tradeguard/docs"
	"tradeguard/internal/bot"
	"tradeguard/internal/config"
	"tradeguard/internal/dashboard"
	"tradeguard/internal/handler"
	"tradeguard/internal/inference"
	"tradeguard/internal/job"
	"tradeguard/internal/logger"
	"tradeguard/internal/metrics"
	"tradeguard/internal/service"
	"tradeguard/internal/sshserver"
	"tradeguard/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "tradeguard"

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
	startTelegramBotFunc        = bot.StartTelegramBot
	newSSHServerFunc            = sshserver.New
	startSSHServerFunc          = func(s *sshserver.Server, ctx context.Context) {
		go func() {
			if err := s.Start(ctx); err != nil {
				log.Error().Err(err).Msg("ssh server stopped")
			}
		}()
	}
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           TradeGuard API
// @version         1.0
// @description     Market snapshot, trading signals and intervention analysis for the TradeGuard dashboard.

// @host      localhost:8080
// @BasePath  /
func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()
	setupLoggerFunc(cfg.LogLevel, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, serviceName, cfg.OTLPEndpoint)
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

	if alerts := startTelegramBotFunc(cfg.TelegramBotToken, orchestrator); alerts != nil {
		orchestrator.AddNotifier(alerts)
	}

	scheduler, err := newRefreshSchedulerFunc(tracer, orchestrator, cfg.RefreshCron, cfg.RefreshOnStart)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REFRESH_CRON")
	}
	startSchedulerFunc(scheduler, ctx)

	sshSrv, err := newSSHServerFunc(cfg.SSHBind, cfg.SSHPort, cfg.SSHHostKeyPath, orchestrator)
	if err != nil {
		log.Warn().Err(err).Msg("ssh dashboard disabled")
	} else {
		startSSHServerFunc(sshSrv, ctx)
	}

	h := newHandlerFunc(tracer, orchestrator)

	r := newRouterFunc()
	r.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))
	r.Use(otelgin.Middleware(serviceName))
	h.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}

// corsConfig allows every origin unless an explicit list is configured.
func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
