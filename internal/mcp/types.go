package mcp

import (
	"fmt"
	"strings"

	"tradeguard/internal/domain"
)

type dashboardGetInput struct{}

type dashboardOutput struct {
	State domain.DashboardState `json:"state"`
}

type dashboardRefreshInput struct{}

type dashboardRefreshOutput struct {
	Refreshed bool                  `json:"refreshed"`
	Reason    string                `json:"reason,omitempty"`
	State     domain.DashboardState `json:"state"`
}

type snapshotGetInput struct{}

type snapshotGetOutput struct {
	Snapshot domain.MarketSnapshot `json:"snapshot"`
}

type signalsListInput struct {
	Asset         string   `json:"asset,omitempty" jsonschema:"optional asset: INDEX or DOLLAR"`
	MinConfidence *float64 `json:"minConfidence,omitempty" jsonschema:"optional minimum confidence between 0 and 1"`
}

type signalsListOutput struct {
	Signals []domain.TradingSignal `json:"signals"`
}

type interventionGetInput struct{}

type interventionGetOutput struct {
	Intervention  string `json:"intervention"`
	SwapContracts int64  `json:"swapContracts"`
	HasSwaps      bool   `json:"hasSwaps"`
}

type sourcesOutput struct {
	Sources []domain.Source `json:"sources"`
}

type signalFilter struct {
	Asset         domain.Asset
	MinConfidence float64
}

func normalizeAsset(asset string) (domain.Asset, error) {
	asset = strings.ToUpper(strings.TrimSpace(asset))
	if asset == "" {
		return "", fmt.Errorf("asset is required")
	}
	a := domain.Asset(asset)
	if !a.IsValid() {
		return "", fmt.Errorf("unsupported asset: %s", asset)
	}
	return a, nil
}

func normalizeSignalFilter(in signalsListInput) (signalFilter, error) {
	var filter signalFilter
	if strings.TrimSpace(in.Asset) != "" {
		asset, err := normalizeAsset(in.Asset)
		if err != nil {
			return signalFilter{}, err
		}
		filter.Asset = asset
	}
	if in.MinConfidence != nil {
		if *in.MinConfidence < 0 || *in.MinConfidence > 1 {
			return signalFilter{}, fmt.Errorf("minConfidence must be between 0 and 1")
		}
		filter.MinConfidence = *in.MinConfidence
	}
	return filter, nil
}

func filterSignals(signals []domain.TradingSignal, filter signalFilter) []domain.TradingSignal {
	out := make([]domain.TradingSignal, 0, len(signals))
	for _, s := range signals {
		if filter.Asset != "" && s.Asset != filter.Asset {
			continue
		}
		if s.Confidence < filter.MinConfidence {
			continue
		}
		out = append(out, s)
	}
	return out
}
