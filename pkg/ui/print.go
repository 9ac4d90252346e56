package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// PrintOptions controls PrintTree.
type PrintOptions struct {
	Width   int  // Label truncation width; 0 means 80
	ShowIDs bool // Append "#id" to each label
}

// PrintTree writes every item of view to w, one per line, fully expanded.
// Colors are only emitted when w is a terminal.
func PrintTree(w io.Writer, view *TreeView, opts PrintOptions) error {
	theme := DefaultTheme(lipgloss.NewRenderer(w))
	r := NewTermRenderer(theme)
	r.SetWidth(opts.Width)
	r.SetShowIDs(opts.ShowIDs)
	r.HideCursor()

	r.BeginFrame()
	view.Draw(r)
	r.EndFrame()

	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("print tree: %w", err)
		}
	}
	return nil
}
