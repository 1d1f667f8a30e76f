package ui

import "github.com/charmbracelet/lipgloss"

var (
	PanelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	URLStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111")).
			Underline(true)

	DefinedBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("150"))

	DimText = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
)
