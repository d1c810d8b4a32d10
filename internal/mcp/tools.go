package mcp

import (
	"context"
	"errors"
	"fmt"

	"tradeguard/internal/dashboard"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, dash Dashboard) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard_get",
		Description: "Get the full dashboard state: market snapshot, trading signals and BCB intervention analysis",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ dashboardGetInput) (*mcp.CallToolResult, dashboardOutput, error) {
		if dash == nil {
			return nil, dashboardOutput{}, fmt.Errorf("dashboard unavailable")
		}
		return nil, dashboardOutput{State: dash.State()}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard_refresh",
		Description: "Run a refresh cycle: fetch market data, then analyze signals and intervention risk",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ dashboardRefreshInput) (*mcp.CallToolResult, dashboardRefreshOutput, error) {
		if dash == nil {
			return nil, dashboardRefreshOutput{}, fmt.Errorf("dashboard unavailable")
		}
		state, err := dash.Refresh(ctx)
		if errors.Is(err, dashboard.ErrRefreshInProgress) {
			return nil, dashboardRefreshOutput{Reason: err.Error(), State: state}, nil
		}
		if err != nil {
			return nil, dashboardRefreshOutput{}, err
		}
		return nil, dashboardRefreshOutput{Refreshed: true, State: state}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "snapshot_get",
		Description: "Get the latest market snapshot with VIX, DXY, DI, WIN, WDO, FX swaps and sources",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ snapshotGetInput) (*mcp.CallToolResult, snapshotGetOutput, error) {
		if dash == nil {
			return nil, snapshotGetOutput{}, fmt.Errorf("dashboard unavailable")
		}
		return nil, snapshotGetOutput{Snapshot: dash.State().Snapshot}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "signals_list",
		Description: "Get the current trading signals with optional asset and confidence filters",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in signalsListInput) (*mcp.CallToolResult, signalsListOutput, error) {
		if dash == nil {
			return nil, signalsListOutput{}, fmt.Errorf("dashboard unavailable")
		}
		filter, err := normalizeSignalFilter(in)
		if err != nil {
			return nil, signalsListOutput{}, err
		}
		return nil, signalsListOutput{Signals: filterSignals(dash.State().Signals, filter)}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "intervention_get",
		Description: "Get the Banco Central do Brasil intervention analysis",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ interventionGetInput) (*mcp.CallToolResult, interventionGetOutput, error) {
		if dash == nil {
			return nil, interventionGetOutput{}, fmt.Errorf("dashboard unavailable")
		}
		return nil, interventionOutput(dash), nil
	})
}

func interventionOutput(dash DashboardReader) interventionGetOutput {
	state := dash.State()
	return interventionGetOutput{
		Intervention:  state.InterventionText(),
		SwapContracts: state.Snapshot.SwapContracts,
		HasSwaps:      state.Snapshot.HasSwaps(),
	}
}
