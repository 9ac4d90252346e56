package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// helpSection groups bindings under a heading in the help overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k KeyMap) helpSections() []helpSection {
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown}},
		{"Tree", []key.Binding{k.Left, k.Right, k.Toggle, k.Select}},
		{"Edit", []key.Binding{k.Add, k.Delete, k.Copy}},
		{"Search", []key.Binding{k.Search, k.Next}},
		{"General", []key.Binding{k.Help, k.Quit}},
	}
}

// RenderHelp renders the key reference modal, centered in width x height.
// It reflects any rebinding applied to keys.
func RenderHelp(keys KeyMap, theme Theme, width, height int) string {
	r := theme.Renderer

	// Modal dimensions - compact
	modalWidth := 44
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 24 {
		modalWidth = 24
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)
	sectionStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Secondary)
	keyStyle := r.NewStyle().
		Foreground(theme.Highlight)
	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Muted).Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n")
	for _, section := range keys.helpSections() {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-8s", h.Key)), h.Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Press any key to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	if width <= 0 || height <= 0 {
		return modalStyle.Render(b.String())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(b.String()))
}
