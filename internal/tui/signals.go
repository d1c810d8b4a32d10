package tui

import (
	"strings"

	"tradeguard/internal/domain"
)

// SignalsModel lists every signal of the current set, in model order.
type SignalsModel struct {
	signals []domain.TradingSignal
	width   int
	height  int
}

func NewSignalsModel() SignalsModel {
	return SignalsModel{}
}

func (m SignalsModel) SetSignals(signals []domain.TradingSignal) SignalsModel {
	m.signals = signals
	return m
}

func (m SignalsModel) View() string {
	lines := []string{HeaderStyle.Render("  Trading Signals")}
	if len(m.signals) == 0 {
		lines = append(lines, SubtextStyle.Render("  No signals in the current set"))
		return strings.Join(lines, "\n")
	}
	width := m.width - 2
	if width < 30 {
		width = 30
	}
	for _, s := range m.signals {
		lines = append(lines, RenderSignalCard(s, width))
	}
	return strings.Join(lines, "\n")
}

func (m *SignalsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Signals returns the current signals (for testing).
func (m SignalsModel) Signals() []domain.TradingSignal { return m.signals }
