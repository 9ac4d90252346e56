package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptModel is a one-line text input shown in a centered box.
type PromptModel struct {
	input  textinput.Model
	title  string
	hint   string
	width  int
	height int
	theme  Theme

	// Result
	submitted bool
	cancelled bool
}

// NewPromptModel creates a focused prompt.
func NewPromptModel(title, placeholder string, theme Theme) PromptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 30
	ti.Focus()

	return PromptModel{
		input: ti,
		title: title,
		hint:  "enter: confirm | esc: cancel",
		theme: theme,
	}
}

// SetSize updates the area the prompt is centered in
func (m *PromptModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles a key while the prompt is open.
func (m PromptModel) Update(msg tea.Msg) (PromptModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			m.cancelled = true
			return m, nil
		case tea.KeyEnter:
			if strings.TrimSpace(m.input.Value()) == "" {
				m.cancelled = true
			} else {
				m.submitted = true
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the trimmed input.
func (m PromptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Done reports whether the prompt was submitted or cancelled.
func (m PromptModel) Done() bool {
	return m.submitted || m.cancelled
}

// Submitted reports whether the user confirmed a non-empty value.
func (m PromptModel) Submitted() bool {
	return m.submitted
}

// View renders the prompt overlay
func (m PromptModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 40
	if m.width < 50 {
		boxWidth = m.width - 10
	}
	if boxWidth < 25 {
		boxWidth = 25
	}

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)

	lines := []string{
		titleStyle.Render(m.title),
		"",
		m.input.View(),
		"",
		footerStyle.Render(m.hint),
	}

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}
