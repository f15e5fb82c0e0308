package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#3b82f6")
	green   = lipgloss.Color("#22c55e")
	red     = lipgloss.Color("#ef4444")
	yellow  = lipgloss.Color("#eab308")
	muted   = lipgloss.Color("#9ca3af")
	surface = lipgloss.Color("#1f2937")
)

type styles struct {
	header     lipgloss.Style
	title      lipgloss.Style
	separator  lipgloss.Style
	footer     lipgloss.Style
	muted      lipgloss.Style
	statCard   lipgloss.Style
	statLabel  lipgloss.Style
	statValue  lipgloss.Style
	phaseDone  lipgloss.Style
	phaseNow   lipgloss.Style
	phaseNext  lipgloss.Style
	inputPanel lipgloss.Style
	chatPanel  lipgloss.Style
	chatUser   lipgloss.Style
	chatAgent  lipgloss.Style
	notes      map[string]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		title:     lipgloss.NewStyle().Bold(true),
		separator: lipgloss.NewStyle().Foreground(surface),
		footer:    lipgloss.NewStyle().Foreground(muted),
		muted:     lipgloss.NewStyle().Foreground(muted),
		statCard: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(surface).
			Padding(0, 2),
		statLabel: lipgloss.NewStyle().Foreground(muted),
		statValue: lipgloss.NewStyle().Bold(true),
		phaseDone: lipgloss.NewStyle().Foreground(green),
		phaseNow:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		phaseNext: lipgloss.NewStyle().Foreground(muted),
		inputPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		chatPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(surface).
			Padding(0, 1),
		chatUser:  lipgloss.NewStyle().Foreground(accent),
		chatAgent: lipgloss.NewStyle().Foreground(green),
		notes: map[string]lipgloss.Style{
			"success": lipgloss.NewStyle().Foreground(green),
			"error":   lipgloss.NewStyle().Foreground(red),
			"warning": lipgloss.NewStyle().Foreground(yellow),
			"info":    lipgloss.NewStyle().Foreground(accent),
		},
	}
}
