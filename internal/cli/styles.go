package cli

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func Success(msg string) string { return SuccessStyle.Render("✓ " + msg) }
func Warning(msg string) string { return WarningStyle.Render("⚠ " + msg) }
func Failure(msg string) string { return ErrorStyle.Render("❌ " + msg) }
