package mcp

import (
	"context"
	"testing"
	"time"

	"tradeguard/internal/dashboard"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestToolsListAndInvoke(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, dash := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	tools, err := session.ListTools(ctx, &sdkmcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools failed: %v", err)
	}
	if len(tools.Tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(tools.Tools))
	}

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "signals_list", Arguments: map[string]any{"asset": "dollar"}})
	if err != nil {
		t.Fatalf("call tool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	var listed signalsListOutput
	if err := decodeStructured(res, &listed); err != nil {
		t.Fatalf("decode signals failed: %v", err)
	}
	if len(listed.Signals) != 1 || listed.Signals[0].Action != "SELL" {
		t.Fatalf("unexpected filtered signals: %+v", listed.Signals)
	}

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "dashboard_refresh", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("refresh tool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected refresh tool error: %+v", res.Content)
	}
	var refreshed dashboardRefreshOutput
	if err := decodeStructured(res, &refreshed); err != nil {
		t.Fatalf("decode refresh failed: %v", err)
	}
	if !refreshed.Refreshed || refreshed.State.Snapshot.LastUpdate != "11:00:00" {
		t.Fatalf("unexpected refresh output: %+v", refreshed)
	}
	if dash.refreshes != 1 {
		t.Fatalf("expected one refresh, got %d", dash.refreshes)
	}
}

func TestRefreshToolReportsInProgress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, dash := testServer()
	dash.refreshErr = dashboard.ErrRefreshInProgress
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "dashboard_refresh", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("in-progress refresh should not be a tool error: %+v", res.Content)
	}
	var out dashboardRefreshOutput
	if err := decodeStructured(res, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Refreshed || out.Reason == "" {
		t.Fatalf("expected skipped refresh with reason, got %+v", out)
	}
}

func TestInterventionTool(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, _ := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "intervention_get", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call tool failed: %v", err)
	}
	var out interventionGetOutput
	if err := decodeStructured(res, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out.HasSwaps || out.SwapContracts != 12000 || out.Intervention == "" {
		t.Fatalf("unexpected intervention output: %+v", out)
	}
}

func TestToolsValidationFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	srv, _ := testServer()
	session, shutdown, err := connectInMemory(ctx, srv)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer shutdown()
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "signals_list",
		Arguments: map[string]any{"asset": "BTC"},
	})
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool-level validation error")
	}
}
