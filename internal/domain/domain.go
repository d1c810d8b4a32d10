package domain

import "time"

type Asset string

const (
	AssetIndex  Asset = "INDEX"
	AssetDollar Asset = "DOLLAR"
)

// TrackedAssets lists the assets a signal set is expected to cover, in display order.
var TrackedAssets = []Asset{AssetIndex, AssetDollar}

func (a Asset) IsValid() bool {
	return a == AssetIndex || a == AssetDollar
}

type Action string

const (
	ActionBuy     Action = "BUY"
	ActionSell    Action = "SELL"
	ActionNeutral Action = "NEUTRAL"
)

func (a Action) IsValid() bool {
	return a == ActionBuy || a == ActionSell || a == ActionNeutral
}

// HighConfidenceThreshold is the confidence above which a signal is flagged as high probability.
const HighConfidenceThreshold = 0.8

// LastUpdateLayout formats MarketSnapshot.LastUpdate in local time.
const LastUpdateLayout = "15:04:05"

type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type MarketSnapshot struct {
	VIX           float64  `json:"vix"`
	DXY           float64  `json:"dxy"`
	DIRate        float64  `json:"diRate"`
	Dollar        float64  `json:"dollar"`
	Index         float64  `json:"index"`
	SwapContracts int64    `json:"swapContracts"`
	LastUpdate    string   `json:"lastUpdate"`
	Sources       []Source `json:"sources"`
}

// PlaceholderSnapshot is what the dashboard shows before the first successful refresh.
func PlaceholderSnapshot() MarketSnapshot {
	return MarketSnapshot{
		VIX:           15.42,
		DXY:           103.20,
		DIRate:        11.25,
		Dollar:        5.22,
		Index:         186480,
		SwapContracts: 0,
		LastUpdate:    "waiting for update...",
		Sources:       []Source{},
	}
}

// HasSwaps reports whether a central-bank swap auction was detected.
func (s MarketSnapshot) HasSwaps() bool {
	return s.SwapContracts > 0
}

type TradingSignal struct {
	Asset      Asset   `json:"asset"`
	Action     Action  `json:"action"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

// IsHighConfidence reports whether the signal should carry the high probability badge.
func (s TradingSignal) IsHighConfidence() bool {
	return s.Confidence > HighConfidenceThreshold
}

// ConfidencePct is the confidence rounded to a whole percentage.
func (s TradingSignal) ConfidencePct() int {
	return int(s.Confidence*100 + 0.5)
}

const (
	// InterventionPlaceholder is displayed when no intervention note is available.
	InterventionPlaceholder = "No intervention anomaly detected for the current exchange-rate level."
)

// DashboardState is a read-only copy of everything the presentation layer renders.
type DashboardState struct {
	Snapshot            MarketSnapshot  `json:"snapshot"`
	Signals             []TradingSignal `json:"signals"`
	Intervention        string          `json:"intervention"`
	Loading             bool            `json:"loading"`
	NotificationVisible bool            `json:"notificationVisible"`
	CycleID             string          `json:"cycleId,omitempty"`
	LastError           string          `json:"lastError,omitempty"`
	LastRefresh         time.Time       `json:"lastRefresh"`
}

// InterventionText returns the note, or the placeholder when none is set.
func (s DashboardState) InterventionText() string {
	if s.Intervention == "" {
		return InterventionPlaceholder
	}
	return s.Intervention
}

// SignalFor returns the first signal for the given asset.
func (s DashboardState) SignalFor(asset Asset) (TradingSignal, bool) {
	for _, sig := range s.Signals {
		if sig.Asset == asset {
			return sig, true
		}
	}
	return TradingSignal{}, false
}
