package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tradeguard/internal/domain"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubDashboard struct {
	mu         sync.Mutex
	state      domain.DashboardState
	refreshErr error
	refreshes  int
}

func (s *stubDashboard) State() domain.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubDashboard) Refresh(ctx context.Context) (domain.DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	if s.refreshErr != nil {
		return s.state, s.refreshErr
	}
	s.state.Snapshot.LastUpdate = "11:00:00"
	return s.state, nil
}

func testState() domain.DashboardState {
	return domain.DashboardState{
		Snapshot: domain.MarketSnapshot{
			VIX: 14.1, DXY: 102.3, DIRate: 11.5, Dollar: 5.31, Index: 187000, SwapContracts: 12000,
			LastUpdate: "10:00:00",
			Sources:    []domain.Source{{URI: "https://www.bcb.gov.br", Title: "BCB"}},
		},
		Signals: []domain.TradingSignal{
			{Asset: domain.AssetIndex, Action: domain.ActionBuy, Reasoning: "risk-on", Confidence: 0.9, Timestamp: "10:00"},
			{Asset: domain.AssetDollar, Action: domain.ActionSell, Reasoning: "swap auction", Confidence: 0.7, Timestamp: "10:00"},
		},
		Intervention: "BCB sold 12,000 swap contracts.",
	}
}

func testServer() (*sdkmcp.Server, *stubDashboard) {
	dash := &stubDashboard{state: testState()}
	srv := NewServer(nil, dash, ServerConfig{RequestTimeout: time.Second})
	return srv, dash
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}

func decodeStructured(result *sdkmcp.CallToolResult, out any) error {
	body, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
