package tui

import (
	"context"
	"errors"

	"tradeguard/internal/dashboard"
	"tradeguard/internal/domain"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a screen tab in the TUI.
type Tab int

const (
	TabDashboard Tab = iota
	TabSignals
	TabIntervention
)

var tabNames = []string{"1:Dashboard", "2:Signals", "3:Intervention"}

type stateMsg domain.DashboardState
type eventMsg dashboard.Event
type eventsClosedMsg struct{}
type refreshDoneMsg struct {
	state domain.DashboardState
	err   error
}

// AppModel is the root Bubble Tea model. It follows the orchestrator through a
// subscription and routes the latest state to each screen.
type AppModel struct {
	services     Services
	events       <-chan dashboard.Event
	state        domain.DashboardState
	activeTab    Tab
	dashboard    DashboardModel
	signals      SignalsModel
	intervention InterventionModel
	spinner      spinner.Model
	help         help.Model
	status       string
	width        int
	height       int
	quitting     bool
}

// NewAppModel subscribes to the dashboard. Call Close when the program exits.
func NewAppModel(svc Services) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	m := AppModel{
		services:     svc,
		activeTab:    TabDashboard,
		dashboard:    NewDashboardModel(),
		signals:      NewSignalsModel(),
		intervention: NewInterventionModel(),
		spinner:      sp,
		help:         help.New(),
	}
	if svc.Dashboard != nil {
		m.events = svc.Dashboard.Subscribe()
		m.applyState(svc.Dashboard.State())
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listen(m.events))
}

// Close releases the dashboard subscription.
func (m AppModel) Close() {
	if m.services.Dashboard != nil && m.events != nil {
		m.services.Dashboard.Unsubscribe(m.events)
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.Tab):
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, nil

		case key.Matches(msg, DefaultKeyMap.ShiftTab):
			next := int(m.activeTab) - 1
			if next < 0 {
				next = len(tabNames) - 1
			}
			m.activeTab = Tab(next)
			return m, nil

		case msg.String() == "1":
			m.activeTab = TabDashboard
			return m, nil
		case msg.String() == "2":
			m.activeTab = TabSignals
			return m, nil
		case msg.String() == "3":
			m.activeTab = TabIntervention
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Refresh):
			if m.services.Dashboard == nil {
				return m, nil
			}
			if m.state.Loading {
				m.status = "refresh already running"
				return m, nil
			}
			m.state.Loading = true
			m.status = ""
			return m, m.refreshCmd()

		case key.Matches(msg, DefaultKeyMap.Bell):
			return m, m.notificationCmd(func(d DashboardSource) { d.ToggleNotification() })

		case key.Matches(msg, DefaultKeyMap.Dismiss):
			return m, m.notificationCmd(func(d DashboardSource) { d.DismissNotification() })
		}

	case eventMsg:
		m.applyState(msg.State)
		return m, listen(m.events)

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case stateMsg:
		m.applyState(domain.DashboardState(msg))
		return m, nil

	case refreshDoneMsg:
		switch {
		case msg.err == nil:
			m.status = "refreshed"
		case errors.Is(msg.err, dashboard.ErrRefreshInProgress):
			m.status = "refresh already running"
		default:
			m.status = "refresh failed: " + msg.err.Error()
		}
		m.applyState(msg.state)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.activeTab == TabIntervention {
		var cmd tea.Cmd
		m.intervention, cmd = m.intervention.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content string
	switch m.activeTab {
	case TabDashboard:
		content = m.dashboard.View()
	case TabSignals:
		content = m.signals.View()
	case TabIntervention:
		content = m.intervention.View()
	}

	parts := []string{m.renderTabBar(), m.renderStatus()}
	if m.state.NotificationVisible {
		parts = append(parts, BannerStyle.Render("New TradeGuard signal")+SubtextStyle.Render("  x to dismiss"))
	}
	parts = append(parts, content, m.help.View(DefaultKeyMap))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetSize updates dimensions on the root model and propagates to children.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	contentHeight := h - 4
	m.dashboard.SetSize(w, contentHeight)
	m.signals.SetSize(w, contentHeight)
	m.intervention.SetSize(w, contentHeight)
	m.help.Width = w
}

// ActiveTab returns the currently active tab (for testing).
func (m AppModel) ActiveTab() Tab { return m.activeTab }

// State returns the last state the model rendered (for testing).
func (m AppModel) State() domain.DashboardState { return m.state }

func (m *AppModel) applyState(s domain.DashboardState) {
	m.state = s
	m.dashboard = m.dashboard.SetState(s)
	m.signals = m.signals.SetSignals(s.Signals)
	m.intervention = m.intervention.SetState(s)
}

func (m AppModel) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m AppModel) renderStatus() string {
	if m.state.Loading {
		return m.spinner.View() + " " + SubtextStyle.Render("fetching market data...")
	}
	if m.state.LastError != "" && m.status == "" {
		return ErrorStyle.Render(m.state.LastError)
	}
	if m.status != "" {
		if m.status == "refreshed" {
			return SubtextStyle.Render(m.status)
		}
		return ErrorStyle.Render(m.status)
	}
	return SubtextStyle.Render("idle")
}

func (m AppModel) refreshCmd() tea.Cmd {
	dash := m.services.Dashboard
	return func() tea.Msg {
		state, err := dash.Refresh(context.Background())
		if errors.Is(err, dashboard.ErrRefreshInProgress) || errors.Is(err, dashboard.ErrClosed) {
			state = dash.State()
		}
		return refreshDoneMsg{state: state, err: err}
	}
}

func (m AppModel) notificationCmd(apply func(DashboardSource)) tea.Cmd {
	dash := m.services.Dashboard
	if dash == nil {
		return nil
	}
	return func() tea.Msg {
		apply(dash)
		return stateMsg(dash.State())
	}
}

func listen(events <-chan dashboard.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}
