package job

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradeguard/internal/dashboard"
	"tradeguard/internal/domain"
	"tradeguard/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Refresher runs one dashboard refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (domain.DashboardState, error)
}

// cronParser accepts five or six fields and descriptors such as "@every 10m".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// RefreshScheduler triggers dashboard refreshes on a cron schedule.
type RefreshScheduler struct {
	tracer     trace.Tracer
	refresher  Refresher
	schedule   cron.Schedule
	spec       string
	runOnStart bool
	log        zerolog.Logger
}

// NewRefreshScheduler validates spec up front. An empty spec disables the
// periodic trigger but still honours runOnStart.
func NewRefreshScheduler(tracer trace.Tracer, refresher Refresher, spec string, runOnStart bool) (*RefreshScheduler, error) {
	s := &RefreshScheduler{
		tracer:     tracer,
		refresher:  refresher,
		spec:       strings.TrimSpace(spec),
		runOnStart: runOnStart,
		log:        logger.Component("scheduler"),
	}
	if s.spec != "" {
		schedule, err := cronParser.Parse(s.spec)
		if err != nil {
			return nil, fmt.Errorf("parse refresh schedule %q: %w", s.spec, err)
		}
		s.schedule = schedule
	}
	return s, nil
}

// Start blocks until ctx is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) {
	if s.refresher == nil {
		s.log.Warn().Msg("refresh scheduler disabled: no refresher")
		<-ctx.Done()
		return
	}

	if s.runOnStart {
		go s.runOnce(ctx)
	}

	if s.schedule == nil {
		s.log.Info().Msg("periodic refresh disabled")
		<-ctx.Done()
		return
	}

	c := cron.New(cron.WithParser(cronParser))
	c.Schedule(s.schedule, cron.FuncJob(func() { s.runOnce(ctx) }))
	c.Start()
	s.log.Info().Str("schedule", s.spec).Msg("refresh scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info().Msg("refresh scheduler stopped")
}

func (s *RefreshScheduler) runOnce(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "refresh-scheduler.tick")
	defer span.End()

	if _, err := s.refresher.Refresh(ctx); err != nil {
		switch {
		case errors.Is(err, dashboard.ErrRefreshInProgress):
			s.log.Debug().Msg("scheduled refresh skipped: cycle already running")
		case errors.Is(err, context.Canceled), errors.Is(err, dashboard.ErrClosed):
		default:
			span.RecordError(err)
			s.log.Warn().Err(err).Msg("scheduled refresh failed")
		}
	}
}
