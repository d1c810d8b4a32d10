package tui

import (
	"context"

	"tradeguard/internal/dashboard"
	"tradeguard/internal/domain"
)

// DashboardSource is the orchestrator as seen by the terminal UI.
type DashboardSource interface {
	State() domain.DashboardState
	Refresh(ctx context.Context) (domain.DashboardState, error)
	DismissNotification()
	ToggleNotification() bool
	Subscribe() <-chan dashboard.Event
	Unsubscribe(ch <-chan dashboard.Event)
}

// Services bundles the dependencies injected into the TUI.
type Services struct {
	Dashboard DashboardSource
	Username  string
}
