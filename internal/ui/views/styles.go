package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("63")
	ColorSuccess = lipgloss.Color("42")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("241")
)

var (
	PermissionBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	InfoStyle    = lipgloss.NewStyle().Foreground(ColorPrimary)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StatusStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	ToolStyle    = lipgloss.NewStyle().Foreground(ColorPrimary).Faint(true)
	ToolOKStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	HintStyle    = lipgloss.NewStyle().Faint(true)
	PromptStyle  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	ThoughtStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)
