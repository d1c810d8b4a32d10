package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tradeguard/internal/domain"
	"tradeguard/internal/logger"
	"tradeguard/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrRefreshInProgress is returned when a refresh is requested while another is in flight.
	ErrRefreshInProgress = errors.New("refresh already in progress")
	// ErrClosed is returned by Refresh after Close.
	ErrClosed = errors.New("dashboard closed")
)

const (
	DefaultNotificationTTL = 5 * time.Second
	subscriberBuffer       = 16
)

type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (domain.MarketSnapshot, error)
}

type SignalAnalyzer interface {
	Analyze(ctx context.Context, snapshot domain.MarketSnapshot) ([]domain.TradingSignal, error)
}

type InterventionNarrator interface {
	Narrate(ctx context.Context, snapshot domain.MarketSnapshot) string
}

// Notifier is told about every successful refresh. Calls run on their own goroutine.
type Notifier interface {
	NotifyRefresh(ctx context.Context, state domain.DashboardState)
}

type EventKind string

const (
	EventRefreshStarted   EventKind = "refresh_started"
	EventRefreshCompleted EventKind = "refresh_completed"
	EventRefreshFailed    EventKind = "refresh_failed"
	EventNotification     EventKind = "notification"
)

// Event carries a copy of the state right after the change it reports.
type Event struct {
	Kind  EventKind             `json:"kind"`
	State domain.DashboardState `json:"state"`
}

type Options struct {
	NotificationTTL time.Duration
	RefreshTimeout  time.Duration
	Notifiers       []Notifier
}

// Orchestrator owns the dashboard state. It is the only writer; presentation
// layers read copies through State or Subscribe.
type Orchestrator struct {
	tracer    trace.Tracer
	fetcher   SnapshotFetcher
	analyzer  SignalAnalyzer
	narrator  InterventionNarrator
	notifiers []Notifier
	ttl       time.Duration
	timeout   time.Duration
	log       zerolog.Logger
	newID     func() string
	now       func() time.Time

	mu                  sync.RWMutex
	snapshot            domain.MarketSnapshot
	signals             []domain.TradingSignal
	intervention        string
	loading             bool
	notificationVisible bool
	cycleID             string
	lastError           string
	lastRefresh         time.Time
	notifyGen           uint64
	notifyTimer         *time.Timer
	closed              bool

	subsMu sync.Mutex
	subs   map[<-chan Event]chan Event
}

func NewOrchestrator(
	tracer trace.Tracer,
	fetcher SnapshotFetcher,
	analyzer SignalAnalyzer,
	narrator InterventionNarrator,
	opts Options,
) *Orchestrator {
	ttl := opts.NotificationTTL
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Orchestrator{
		tracer:    tracer,
		fetcher:   fetcher,
		analyzer:  analyzer,
		narrator:  narrator,
		notifiers: opts.Notifiers,
		ttl:       ttl,
		timeout:   opts.RefreshTimeout,
		log:       logger.Component("dashboard"),
		newID:     uuid.NewString,
		now:       time.Now,
		snapshot:  domain.PlaceholderSnapshot(),
		signals:   []domain.TradingSignal{},
		subs:      make(map[<-chan Event]chan Event),
	}
}

// AddNotifier registers n for subsequent refreshes.
func (o *Orchestrator) AddNotifier(n Notifier) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifiers = append(o.notifiers, n)
}

// State returns a copy of the current state.
func (o *Orchestrator) State() domain.DashboardState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() domain.DashboardState {
	signals := make([]domain.TradingSignal, len(o.signals))
	copy(signals, o.signals)
	snap := o.snapshot
	snap.Sources = make([]domain.Source, len(o.snapshot.Sources))
	copy(snap.Sources, o.snapshot.Sources)
	return domain.DashboardState{
		Snapshot:            snap,
		Signals:             signals,
		Intervention:        o.intervention,
		Loading:             o.loading,
		NotificationVisible: o.notificationVisible,
		CycleID:             o.cycleID,
		LastError:           o.lastError,
		LastRefresh:         o.lastRefresh,
	}
}

// Refresh runs one cycle: fetch the snapshot, then analyze and narrate
// concurrently, then commit all three results together. A failed fetch leaves
// the previous values in place. Loading is always cleared on return.
func (o *Orchestrator) Refresh(ctx context.Context) (domain.DashboardState, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.DashboardState{}, ErrClosed
	}
	if o.loading {
		state := o.stateLocked()
		o.mu.Unlock()
		metrics.RefreshCycles.WithLabelValues("rejected").Inc()
		return state, ErrRefreshInProgress
	}
	cycleID := o.newID()
	o.loading = true
	o.cycleID = cycleID
	started := o.stateLocked()
	o.mu.Unlock()
	o.publish(Event{Kind: EventRefreshStarted, State: started})

	start := o.now()
	kind := EventRefreshFailed
	defer func() {
		o.mu.Lock()
		o.loading = false
		state := o.stateLocked()
		o.mu.Unlock()
		metrics.RefreshDuration.Observe(o.now().Sub(start).Seconds())
		o.publish(Event{Kind: kind, State: state})
	}()

	ctx, span := o.tracer.Start(ctx, "dashboard.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("cycle_id", cycleID))

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	log := o.log.With().Str("cycle_id", cycleID).Logger()
	ctx = log.WithContext(ctx)

	log.Info().Msg("refresh started")

	snapshot, err := o.fetcher.FetchSnapshot(ctx)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("market data fetch failed, keeping previous state")
		metrics.RefreshCycles.WithLabelValues("failed").Inc()
		o.mu.Lock()
		o.lastError = err.Error()
		state := o.stateLocked()
		o.mu.Unlock()
		state.Loading = false
		return state, fmt.Errorf("refresh %s: %w", cycleID, err)
	}

	var (
		signals      []domain.TradingSignal
		intervention string
		g            errgroup.Group
	)
	g.Go(func() error {
		var err error
		signals, err = o.analyzer.Analyze(ctx, snapshot)
		return err
	})
	g.Go(func() error {
		intervention = o.narrator.Narrate(ctx, snapshot)
		return nil
	})
	analyzeErr := g.Wait()

	outcome := "ok"
	if analyzeErr != nil {
		span.RecordError(analyzeErr)
		log.Warn().Err(analyzeErr).Msg("signal analysis failed, clearing signals")
		metrics.Fallbacks.WithLabelValues("analyzer", "error").Inc()
		signals = []domain.TradingSignal{}
		outcome = "degraded"
	}
	if signals == nil {
		signals = []domain.TradingSignal{}
	}

	o.mu.Lock()
	o.snapshot = snapshot
	o.signals = signals
	o.intervention = intervention
	o.lastRefresh = o.now()
	o.lastError = ""
	if analyzeErr != nil {
		o.lastError = analyzeErr.Error()
	}
	o.showNotificationLocked()
	state := o.stateLocked()
	notifiers := append([]Notifier(nil), o.notifiers...)
	o.mu.Unlock()

	kind = EventRefreshCompleted
	metrics.RefreshCycles.WithLabelValues(outcome).Inc()
	log.Info().
		Int("signals", len(signals)).
		Int("sources", len(snapshot.Sources)).
		Str("outcome", outcome).
		Msg("refresh completed")

	state.Loading = false
	for _, n := range notifiers {
		go n.NotifyRefresh(context.WithoutCancel(ctx), state)
	}
	return state, nil
}

// showNotificationLocked raises the flag and replaces any pending auto-clear.
func (o *Orchestrator) showNotificationLocked() {
	o.notificationVisible = true
	o.notifyGen++
	gen := o.notifyGen
	if o.notifyTimer != nil {
		o.notifyTimer.Stop()
	}
	o.notifyTimer = time.AfterFunc(o.ttl, func() { o.expireNotification(gen) })
}

func (o *Orchestrator) cancelNotificationTimerLocked() {
	o.notifyGen++
	if o.notifyTimer != nil {
		o.notifyTimer.Stop()
		o.notifyTimer = nil
	}
}

func (o *Orchestrator) expireNotification(gen uint64) {
	o.mu.Lock()
	if gen != o.notifyGen || o.closed {
		o.mu.Unlock()
		return
	}
	o.notificationVisible = false
	o.notifyTimer = nil
	state := o.stateLocked()
	o.mu.Unlock()
	o.publish(Event{Kind: EventNotification, State: state})
}

// DismissNotification hides the notification and cancels its auto-clear.
func (o *Orchestrator) DismissNotification() {
	o.mu.Lock()
	o.cancelNotificationTimerLocked()
	o.notificationVisible = false
	state := o.stateLocked()
	o.mu.Unlock()
	o.publish(Event{Kind: EventNotification, State: state})
}

// ToggleNotification flips visibility and returns the new value. Showing it
// this way does not schedule an auto-clear.
func (o *Orchestrator) ToggleNotification() bool {
	o.mu.Lock()
	o.cancelNotificationTimerLocked()
	o.notificationVisible = !o.notificationVisible
	visible := o.notificationVisible
	state := o.stateLocked()
	o.mu.Unlock()
	o.publish(Event{Kind: EventNotification, State: state})
	return visible
}

// Subscribe returns a channel of state events. Slow readers miss events rather
// than block the orchestrator.
func (o *Orchestrator) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	if o.subs == nil {
		close(ch)
		return ch
	}
	o.subs[ch] = ch
	return ch
}

func (o *Orchestrator) Unsubscribe(ch <-chan Event) {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	if c, ok := o.subs[ch]; ok {
		delete(o.subs, ch)
		close(c)
	}
}

func (o *Orchestrator) publish(ev Event) {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for _, c := range o.subs {
		select {
		case c <- ev:
		default:
		}
	}
}

// Close stops the notification timer and closes every subscriber channel.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.cancelNotificationTimerLocked()
	o.mu.Unlock()

	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for key, c := range o.subs {
		delete(o.subs, key)
		close(c)
	}
	o.subs = nil
}
