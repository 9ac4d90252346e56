package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/config"
)

// Theme holds the colors and styles used by the tree renderer and model.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style // Row of the selected item
	Cursor   lipgloss.Style // Row under the keyboard cursor
	Status   lipgloss.Style // Bottom status line
}

// DefaultTheme returns the Dracula-inspired default palette.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#3E5A99", Dark: "#6272A4"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#8BE9FD"},
		Danger:    lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5555"},
	}
	t.restyle(lipgloss.AdaptiveColor{Light: "#E0E0F0", Dark: "#44475A"})
	return t
}

// ThemeFromConfig applies color overrides on top of the default theme.
func ThemeFromConfig(r *lipgloss.Renderer, cfg config.ThemeConfig) Theme {
	t := DefaultTheme(r)
	override := func(dst *lipgloss.AdaptiveColor, value string) {
		if value == "" {
			return
		}
		light, dark := config.ColorPair(value)
		*dst = lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}
	override(&t.Primary, cfg.Primary)
	override(&t.Secondary, cfg.Secondary)
	override(&t.Muted, cfg.Muted)
	override(&t.Highlight, cfg.Highlight)

	selectedBg := lipgloss.AdaptiveColor{Light: "#E0E0F0", Dark: "#44475A"}
	override(&selectedBg, cfg.Selected)
	t.restyle(selectedBg)
	return t
}

func (t *Theme) restyle(selectedBg lipgloss.AdaptiveColor) {
	r := t.Renderer
	t.Base = r.NewStyle()
	t.Selected = r.NewStyle().Background(selectedBg).Foreground(t.Primary).Bold(true)
	t.Cursor = r.NewStyle().Reverse(true)
	t.Status = r.NewStyle().Foreground(t.Muted).Italic(true)
}
