package mcp

import (
	"context"

	"tradeguard/internal/domain"
)

// DashboardReader exposes the orchestrator state to MCP clients.
type DashboardReader interface {
	State() domain.DashboardState
}

// DashboardRefresher runs a refresh cycle on demand.
type DashboardRefresher interface {
	Refresh(ctx context.Context) (domain.DashboardState, error)
}

// Dashboard is what the server registers tools against.
type Dashboard interface {
	DashboardReader
	DashboardRefresher
}
