package tui

import "github.com/charmbracelet/lipgloss"

var (
	panelBorder     = lipgloss.Color("#2D6A80")
	accentPrimary   = lipgloss.Color("#50E3C2")
	accentSecondary = lipgloss.Color("#F6AE2D")
	mutedText       = lipgloss.Color("#8CA1AE")
	warningText     = lipgloss.Color("#FF6B6B")
	skeletonText    = lipgloss.Color("#2B4C5B")
)

var (
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(accentPrimary)

	sectionStyle = lipgloss.NewStyle().
			Foreground(accentSecondary).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(accentPrimary).
				Bold(true)

	ownerStyle = lipgloss.NewStyle().
			Foreground(mutedText)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedText)

	errorStyle = lipgloss.NewStyle().
			Foreground(warningText).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(accentSecondary).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(accentPrimary).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelBorder)

	lineStyle = lipgloss.NewStyle().
			Foreground(accentPrimary)

	indicatorStyle = lipgloss.NewStyle().
			Foreground(accentSecondary)

	skeletonStyle = lipgloss.NewStyle().
			Foreground(skeletonText)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedText)
)
