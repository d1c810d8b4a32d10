package tui

import (
	"fmt"
	"math"
	"strings"

	"tradeguard/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

// MaxSources caps the citations listed under the intervention panel.
const MaxSources = 4

type indicator struct {
	label string
	value string
	hint  string
	style lipgloss.Style
}

func indicators(s domain.MarketSnapshot) []indicator {
	swaps := indicator{label: "BCB SWAPS", value: addCommas(fmt.Sprintf("%d", s.SwapContracts)), hint: "no auction detected", style: ValueStyle}
	if s.HasSwaps() {
		swaps.hint = "central bank active"
		swaps.style = SwapActiveStyle
	}
	return []indicator{
		{label: "VIX", value: fmt.Sprintf("%.2f", s.VIX), hint: "global fear", style: ValueStyle},
		{label: "DXY", value: fmt.Sprintf("%.2f", s.DXY), hint: "dollar strength", style: ValueStyle},
		{label: "DI1F29", value: fmt.Sprintf("%.2f%%", s.DIRate), hint: "cost of money", style: ValueStyle},
		{label: "WIN", value: addCommas(fmt.Sprintf("%.0f", s.Index)) + " pts", hint: "mini index", style: ValueStyle},
		{label: "WDO", value: fmt.Sprintf("R$ %.3f", s.Dollar), hint: "mini dollar", style: ValueStyle},
		swaps,
	}
}

// RenderIndicatorCard renders one boxed indicator.
func RenderIndicatorCard(label, value, hint string, valueStyle lipgloss.Style, width int) string {
	body := strings.Join([]string{
		SubtextStyle.Render(label),
		valueStyle.Render(value),
		SubtextStyle.Render(hint),
	}, "\n")
	return BorderStyle.Width(width).Render(body)
}

// RenderIndicatorGrid lays the six indicators out in rows that fit width.
func RenderIndicatorGrid(s domain.MarketSnapshot, width int) string {
	cardWidth := 22
	cols := width / (cardWidth + 2)
	if cols < 1 {
		cols = 1
	}

	var rows []string
	var row []string
	items := indicators(s)
	for i, ind := range items {
		row = append(row, RenderIndicatorCard(ind.label, ind.value, ind.hint, ind.style, cardWidth))
		if (i+1)%cols == 0 || i == len(items)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return strings.Join(rows, "\n")
}

// RenderConfidenceBar renders confidence in [0,1] as a filled bar with a percentage.
func RenderConfidenceBar(confidence float64, barWidth int) string {
	if barWidth <= 0 {
		barWidth = 20
	}
	filled := int(math.Round(confidence * float64(barWidth)))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := ConfidenceFillStyle.Render(strings.Repeat("█", filled)) +
		ConfidenceEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %d%%", bar, int(confidence*100+0.5))
}

func actionStyle(a domain.Action) lipgloss.Style {
	switch a {
	case domain.ActionBuy:
		return ActionBuyStyle
	case domain.ActionSell:
		return ActionSellStyle
	default:
		return ActionNeutralStyle
	}
}

// RenderSignalCard renders a signal with its badge, reasoning and confidence bar.
func RenderSignalCard(s domain.TradingSignal, width int) string {
	if width < 30 {
		width = 30
	}
	title := HeaderStyle.Render(string(s.Asset)) + "  " + actionStyle(s.Action).Render(string(s.Action))
	if s.IsHighConfidence() {
		title += "  " + HighProbabilityStyle.Render("HIGH PROBABILITY")
	}
	lines := []string{
		title,
		lipgloss.NewStyle().Width(width - 4).Render(s.Reasoning),
		RenderConfidenceBar(s.Confidence, width/2),
		SubtextStyle.Render("at " + s.Timestamp),
	}
	return BorderStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// RenderSources lists up to MaxSources citations.
func RenderSources(sources []domain.Source) string {
	if len(sources) == 0 {
		return SubtextStyle.Render("No sources reported")
	}
	n := len(sources)
	if n > MaxSources {
		n = MaxSources
	}
	lines := make([]string, 0, n)
	for _, src := range sources[:n] {
		lines = append(lines, fmt.Sprintf("• %s %s", src.Title, SubtextStyle.Render(src.URI)))
	}
	return strings.Join(lines, "\n")
}

func addCommas(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var result strings.Builder
	if neg {
		result.WriteByte('-')
	}
	for i, ch := range s {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(ch)
	}
	return result.String()
}

func formatInt(v int64) string {
	return fmt.Sprintf("%d", v)
}

func formatDollar(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
