package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by all dashboard components.
var (
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("42")
	ColorRed    = lipgloss.Color("196")
	ColorOrange = lipgloss.Color("208")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("7")
	ColorPurple = lipgloss.Color("135")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	activeSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBlue).
				Padding(0, 1)

	pinnedSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorOrange).
				Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	gainStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	lossStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	esgStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	statusLiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	statusDegradedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorOrange)

	questionStyle = lipgloss.NewStyle().
			Foreground(ColorPurple)
)
