package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2563EB"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#64748B"))

	// Signal action colors
	ActionBuyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	ActionSellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	ActionNeutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))

	HighProbabilityStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#111111")).
				Background(lipgloss.Color("#F59E0B")).
				Bold(true).
				Padding(0, 1)

	// Confidence bar
	ConfidenceFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	ConfidenceEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F2937"))

	// Swap auction indicator
	SwapActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Bold(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#052E16")).
			Background(lipgloss.Color("#10B981")).
			Bold(true).
			Padding(0, 2)

	// General styles
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	ValueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E2E8F0"))
	SubtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	BorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#334155"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	SpinnerColor = lipgloss.Color("#2563EB")
)
