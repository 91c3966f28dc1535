package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, tuned to resemble ink on paper.
var (
	Primary   = lipgloss.Color("#2563EB") // Ink Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Worksheet blocks
var (
	Section = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Instruction = lipgloss.NewStyle().
			Foreground(TextDim)

	Footer = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Sheet = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Underline(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Notice = lipgloss.NewStyle().
		Foreground(Success)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)
