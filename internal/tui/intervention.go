package tui

import (
	"tradeguard/internal/domain"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InterventionModel shows the full narrative and cited sources in a scrollable pane.
type InterventionModel struct {
	state    domain.DashboardState
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func NewInterventionModel() InterventionModel {
	return InterventionModel{}
}

func (m InterventionModel) SetState(s domain.DashboardState) InterventionModel {
	m.state = s
	if m.ready {
		m.viewport.SetContent(m.content())
	}
	return m
}

func (m InterventionModel) Update(msg tea.Msg) (InterventionModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m InterventionModel) View() string {
	if !m.ready {
		return m.content()
	}
	return m.viewport.View()
}

func (m *InterventionModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if w <= 0 || h <= 0 {
		return
	}
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.viewport.SetContent(m.content())
}

func (m InterventionModel) content() string {
	width := m.width - 4
	if width < 30 {
		width = 30
	}
	s := m.state.Snapshot
	swaps := SubtextStyle.Render("no swap auction detected")
	if s.HasSwaps() {
		swaps = SwapActiveStyle.Render(addCommas(formatInt(s.SwapContracts)) + " swap contracts")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("  BCB Intervention"),
		SubtextStyle.Render("  WDO R$ ")+ValueStyle.Render(formatDollar(s.Dollar))+"  "+swaps,
		"",
		lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(m.state.InterventionText()),
		"",
		HeaderStyle.Render("  Sources"),
		lipgloss.NewStyle().PaddingLeft(2).Render(RenderSources(s.Sources)),
	)
}
