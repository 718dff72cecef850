package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const menuHint = "↑/↓: Navigate  Enter: Select  Esc: Cancel"

// RenderMenu renders a selection box. The option at cursor is
// highlighted; an out-of-range cursor highlights nothing.
func RenderMenu(title string, options []string, cursor int) string {
	if len(options) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(title))
	lines = append(lines, "")

	for i, opt := range options {
		if i == cursor {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Render(fmt.Sprintf("▸ %s", opt)))
		} else {
			lines = append(lines, fmt.Sprintf("  %s", opt))
		}
	}

	lines = append(lines, "")
	lines = append(lines, HintStyle.Render(menuHint))

	return PermissionBoxStyle.Render(strings.Join(lines, "\n"))
}

// RenderChoice is what stays on screen after a menu closes.
func RenderChoice(title, choice string) string {
	first, _, _ := strings.Cut(title, "\n")
	return fmt.Sprintf("%s %s", HintStyle.Render(first), PromptStyle.Render(choice))
}
