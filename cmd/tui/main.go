package main

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"time"

	"tradeguard/internal/config"
	"tradeguard/internal/dashboard"
	"tradeguard/internal/inference"
	"tradeguard/internal/job"
	"tradeguard/internal/logger"
	"tradeguard/internal/service"
	"tradeguard/internal/tui"
	"tradeguard/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	loadEnvFunc                 = godotenv.Load
	loadConfigFunc              = config.Load
	initTracerFunc              = tracing.InitTracer
	newGeneratorFunc            = inference.NewFromConfig
	newMarketDataServiceFunc    = service.NewMarketDataService
	newSignalAnalyzerFunc       = service.NewSignalAnalyzer
	newInterventionNarratorFunc = service.NewInterventionNarrator
	newOrchestratorFunc         = dashboard.NewOrchestrator
	newRefreshSchedulerFunc     = job.NewRefreshScheduler
	startSchedulerFunc          = func(s *job.RefreshScheduler, ctx context.Context) { go s.Start(ctx) }
	openLogFileFunc             = func(path string) (*os.File, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	runProgramFunc = func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, tea.WithAltScreen()).Run()
	}
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	logFile, err := openLogFileFunc(cfg.TUILogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.SetupWriter(logFile, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, "tradeguard-tui", cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
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
		return fmt.Errorf("invalid REFRESH_CRON: %w", err)
	}
	startSchedulerFunc(scheduler, ctx)

	model := tui.NewAppModel(tui.Services{Dashboard: orchestrator, Username: currentUsername()})
	defer model.Close()

	log.Info().Msg("terminal dashboard started")
	if _, err := runProgramFunc(model); err != nil {
		return fmt.Errorf("run terminal dashboard: %w", err)
	}
	return nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
