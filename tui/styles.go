package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F8FAFC")
	colorDim     = lipgloss.Color("#64748B")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true)

	lineStyle = lipgloss.NewStyle().
			Foreground(colorText)

	posStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	filterOnStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	filterOffStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

func keyHint(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpStyle.Render(desc)
}

func filterMark(name string, on bool) string {
	if on {
		return filterOnStyle.Render(name)
	}

	return filterOffStyle.Render(name)
}
