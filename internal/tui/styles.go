package tui

import "github.com/charmbracelet/lipgloss"

var (
	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingRight(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	criticalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	overlayStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// badgeStyles maps run-state tones to badge rendering.
var badgeStyles = map[string]lipgloss.Style{
	"neutral": lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("255")).Padding(0, 1),
	"info":    lipgloss.NewStyle().Background(lipgloss.Color("25")).Foreground(lipgloss.Color("255")).Padding(0, 1),
	"success": lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1),
	"warning": lipgloss.NewStyle().Background(lipgloss.Color("172")).Foreground(lipgloss.Color("232")).Padding(0, 1),
	"danger":  lipgloss.NewStyle().Background(lipgloss.Color("124")).Foreground(lipgloss.Color("255")).Padding(0, 1),
}

func badgeStyle(tone string) lipgloss.Style {
	if s, ok := badgeStyles[tone]; ok {
		return s
	}
	return badgeStyles["neutral"]
}
