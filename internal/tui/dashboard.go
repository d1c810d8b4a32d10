package tui

import (
	"strings"

	"tradeguard/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

// DashboardModel renders indicators, the lead signal per asset and the
// intervention note on one screen.
type DashboardModel struct {
	state  domain.DashboardState
	width  int
	height int
}

func NewDashboardModel() DashboardModel {
	return DashboardModel{state: domain.DashboardState{Snapshot: domain.PlaceholderSnapshot()}}
}

func (m DashboardModel) SetState(s domain.DashboardState) DashboardModel {
	m.state = s
	return m
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	width := m.width
	if width < 40 {
		width = 40
	}

	var sections []string
	sections = append(sections,
		HeaderStyle.Render("  Market")+"  "+SubtextStyle.Render("last update "+m.state.Snapshot.LastUpdate),
		RenderIndicatorGrid(m.state.Snapshot, width),
	)

	var cards []string
	cardWidth := width/2 - 2
	for _, asset := range domain.TrackedAssets {
		if sig, ok := m.state.SignalFor(asset); ok {
			cards = append(cards, RenderSignalCard(sig, cardWidth))
		}
	}
	if len(cards) == 0 {
		sections = append(sections, SubtextStyle.Render("  No signals yet. Press r to refresh."))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	intervention := HeaderStyle.Render("BCB intervention") + "\n" +
		lipgloss.NewStyle().Width(width-6).Render(m.state.InterventionText())
	sections = append(sections, BorderStyle.Width(width-2).Render(intervention))

	return strings.Join(sections, "\n")
}

// SetSize updates the model dimensions.
func (m *DashboardModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// State returns the rendered state (for testing).
func (m DashboardModel) State() domain.DashboardState { return m.state }
