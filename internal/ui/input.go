package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cyclone1070/projectgen/internal/ui/views"
)

// inputModel reads a single line.
type inputModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
	eof       bool
}

func newInputModel(prompt string, width int) inputModel {
	ti := textinput.New()
	ti.Prompt = views.PromptStyle.Render(prompt)
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 0
	if width > 0 {
		ti.Width = width
	}
	ti.Focus()
	return inputModel{input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.eof = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done || m.cancelled || m.eof {
		m.input.Placeholder = ""
		m.input.Blur()
		return m.input.View() + "\n"
	}
	return m.input.View()
}

func (m inputModel) Value() string {
	return m.input.Value()
}
