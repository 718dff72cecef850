package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/projectgen/internal/ui/views"
)

// menuModel lets the operator pick one option.
type menuModel struct {
	title     string
	options   []string
	cursor    int
	chosen    int
	cancelled bool
}

func newMenuModel(title string, options []string, cursor int) menuModel {
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return menuModel{title: title, options: options, cursor: cursor, chosen: -1}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.cursor
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	default:
		// Digits pick an option directly.
		if s := key.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if i := int(s[0] - '1'); i < len(m.options) {
				m.cursor = i
				m.chosen = i
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m menuModel) View() string {
	if m.chosen >= 0 {
		return views.RenderChoice(m.title, m.options[m.chosen]) + "\n"
	}
	if m.cancelled {
		return ""
	}
	return views.RenderMenu(m.title, m.options, m.cursor) + "\n"
}
