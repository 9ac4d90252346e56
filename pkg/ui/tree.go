// tree.go - Terminal renderer for the tree control
package ui

import (
	"log"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// treeRow is one emitted line of the last frame.
type treeRow struct {
	id     model.ID
	label  string
	prefix string // Indentation and branch characters
	leaf   bool
	open   bool
}

// TermRenderer renders a TreeView pass as lines of text. Expand state,
// the keyboard cursor and pending clicks survive between frames; rows are
// rebuilt every frame.
type TermRenderer struct {
	theme  Theme
	width  int
	ids    bool // Append "#id" to labels
	cursor int  // Row index in the last frame
	hidden bool

	// Explicit expand state; ids not present use the node's default.
	expanded         map[model.ID]bool
	defaultCollapsed bool

	// Frame state
	rows      []treeRow
	lastAt    []bool // lastAt[d] is true when the open ancestor at depth d is a last child
	highlight [2]int // Highlighted rows [start, end)
	depth     int    // Open BeginNode calls without EndNode
	clicked   bool

	// One-shot requests applied to the cursor row during the next frame
	activate bool
	toggle   bool
	focus    model.ID
}

// NewTermRenderer creates a renderer with every branch open by default.
func NewTermRenderer(theme Theme) *TermRenderer {
	return &TermRenderer{
		theme:    theme,
		width:    80,
		expanded: make(map[model.ID]bool),
		focus:    model.NoID,
	}
}

// SetWidth sets the line width used to truncate labels.
func (r *TermRenderer) SetWidth(width int) {
	if width > 0 {
		r.width = width
	}
}

// SetShowIDs toggles "#id" suffixes on labels.
func (r *TermRenderer) SetShowIDs(show bool) { r.ids = show }

// SetDefaultCollapsed makes branches without explicit state start closed.
func (r *TermRenderer) SetDefaultCollapsed(collapsed bool) { r.defaultCollapsed = collapsed }

// HideCursor disables cursor styling, for non-interactive output.
func (r *TermRenderer) HideCursor() { r.hidden = true }

// BeginFrame resets per-frame state. Call before TreeView.Draw.
func (r *TermRenderer) BeginFrame() {
	r.rows = r.rows[:0]
	r.lastAt = r.lastAt[:0]
	r.highlight = [2]int{-1, -1}
	r.depth = 0
	r.clicked = false
}

// EndFrame settles the cursor after TreeView.Draw returns. Requests that
// did not match a row are dropped.
func (r *TermRenderer) EndFrame() {
	if r.depth != 0 {
		log.Printf("warning: tree frame ended with %d unclosed nodes", r.depth)
	}
	if r.focus.Valid() {
		for i, row := range r.rows {
			if row.id == r.focus {
				r.cursor = i
				break
			}
		}
		r.focus = model.NoID
	}
	r.clampCursor()
	r.activate = false
	r.toggle = false
}

func (r *TermRenderer) clampCursor() {
	if r.cursor >= len(r.rows) {
		r.cursor = len(r.rows) - 1
	}
	if r.cursor < 0 {
		r.cursor = 0
	}
}

// LineHeight implements Renderer. Every row is one line.
func (r *TermRenderer) LineHeight() int { return 1 }

// CursorY implements Renderer.
func (r *TermRenderer) CursorY() int { return len(r.rows) }

// Highlight implements Renderer.
func (r *TermRenderer) Highlight(y, height int) {
	r.highlight = [2]int{y, y + height}
}

// BeginNode implements Renderer.
func (r *TermRenderer) BeginNode(n model.Node, flags NodeFlags) bool {
	y := len(r.rows)
	leaf := flags&NodeLeaf != 0

	r.clicked = false
	if y == r.cursor {
		if r.activate {
			r.clicked = true
			r.activate = false
			if !leaf {
				r.expanded[n.ID] = !r.isOpen(n.ID, flags)
			}
		} else if r.toggle && !leaf {
			r.expanded[n.ID] = !r.isOpen(n.ID, flags)
			r.toggle = false
		}
	}

	open := leaf || r.isOpen(n.ID, flags)
	r.rows = append(r.rows, treeRow{
		id:     n.ID,
		label:  n.Label,
		prefix: r.buildTreePrefix(n),
		leaf:   leaf,
		open:   open,
	})
	if open {
		r.depth++
	}
	return open
}

// Clicked implements Renderer.
func (r *TermRenderer) Clicked() bool { return r.clicked }

// EndNode implements Renderer.
func (r *TermRenderer) EndNode() {
	if r.depth > 0 {
		r.depth--
	}
}

func (r *TermRenderer) isOpen(id model.ID, flags NodeFlags) bool {
	if v, ok := r.expanded[id]; ok {
		return v
	}
	return flags&NodeDefaultOpen != 0 && !r.defaultCollapsed
}

// buildTreePrefix builds the indentation and branch characters for a node.
func (r *TermRenderer) buildTreePrefix(n model.Node) string {
	r.lastAt = append(r.lastAt[:n.Depth], n.Last)
	if n.Depth == 0 {
		return "" // Top-level nodes have no prefix
	}

	var sb strings.Builder
	// For each ancestor level below the top, draw a vertical line while
	// that ancestor still has siblings below it.
	for d := 1; d < n.Depth; d++ {
		if r.lastAt[d] {
			sb.WriteString("    ")
		} else {
			sb.WriteString("│   ")
		}
	}
	if n.Last {
		sb.WriteString("└── ")
	} else {
		sb.WriteString("├── ")
	}
	return sb.String()
}

// getExpandIndicator returns the expand/collapse indicator for a row.
func getExpandIndicator(row treeRow) string {
	if row.leaf {
		return "•" // Leaf node
	}
	if row.open {
		return "▾" // Expanded
	}
	return "▸" // Collapsed
}

// truncateLabel truncates a label to the given display width with an ellipsis.
func truncateLabel(label string, maxWidth int) string {
	if maxWidth <= 1 {
		return "…"
	}
	return runewidth.Truncate(label, maxWidth, "…")
}

// Lines renders the rows of the last frame.
func (r *TermRenderer) Lines() []string {
	rs := r.theme.Renderer
	treeStyle := rs.NewStyle().Foreground(r.theme.Muted)
	indicatorStyle := rs.NewStyle().Foreground(r.theme.Secondary)
	idStyle := rs.NewStyle().Foreground(r.theme.Highlight)

	lines := make([]string, 0, len(r.rows))
	for i, row := range r.rows {
		var suffix string
		if r.ids {
			suffix = " " + row.id.String()
		}

		avail := r.width - runewidth.StringWidth(row.prefix) - 2 - runewidth.StringWidth(suffix)
		if avail < 10 {
			avail = 10
		}
		label := truncateLabel(row.label, avail)

		switch {
		case i >= r.highlight[0] && i < r.highlight[1]:
			label = r.theme.Selected.Render(label)
		case i == r.cursor && !r.hidden:
			label = r.theme.Cursor.Render(label)
		}

		var sb strings.Builder
		sb.WriteString(treeStyle.Render(row.prefix))
		sb.WriteString(indicatorStyle.Render(getExpandIndicator(row)))
		sb.WriteString(" ")
		sb.WriteString(label)
		if suffix != "" {
			sb.WriteString(idStyle.Render(suffix))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// RowCount returns the number of rows drawn in the last frame.
func (r *TermRenderer) RowCount() int { return len(r.rows) }

// Cursor returns the cursor row.
func (r *TermRenderer) Cursor() int { return r.cursor }

// CursorID returns the item under the cursor, or NoID when the tree is empty.
func (r *TermRenderer) CursorID() model.ID {
	if r.cursor >= 0 && r.cursor < len(r.rows) {
		return r.rows[r.cursor].id
	}
	return model.NoID
}

// HighlightedRow returns the highlighted row of the last frame, or -1.
func (r *TermRenderer) HighlightedRow() int { return r.highlight[0] }

// MoveDown moves the cursor down one row.
func (r *TermRenderer) MoveDown() {
	if r.cursor < len(r.rows)-1 {
		r.cursor++
	}
}

// MoveUp moves the cursor up one row.
func (r *TermRenderer) MoveUp() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// JumpToTop moves the cursor to the first row.
func (r *TermRenderer) JumpToTop() { r.cursor = 0 }

// JumpToBottom moves the cursor to the last row.
func (r *TermRenderer) JumpToBottom() {
	if len(r.rows) > 0 {
		r.cursor = len(r.rows) - 1
	}
}

// PageDown moves the cursor down by size rows.
func (r *TermRenderer) PageDown(size int) {
	if size < 1 {
		size = 5
	}
	r.cursor += size
	r.clampCursor()
}

// PageUp moves the cursor up by size rows.
func (r *TermRenderer) PageUp(size int) {
	if size < 1 {
		size = 5
	}
	r.cursor -= size
	r.clampCursor()
}

// Activate clicks the cursor row during the next frame.
func (r *TermRenderer) Activate() { r.activate = true }

// Toggle expands or collapses the cursor row during the next frame.
func (r *TermRenderer) Toggle() { r.toggle = true }

// Focus moves the cursor to id once the next frame has drawn it.
func (r *TermRenderer) Focus(id model.ID) { r.focus = id }

// SetExpanded records an explicit expand state for id.
func (r *TermRenderer) SetExpanded(id model.ID, open bool) { r.expanded[id] = open }

// Expanded returns the explicit expand state of id, if any.
func (r *TermRenderer) Expanded(id model.ID) (open, ok bool) {
	open, ok = r.expanded[id]
	return open, ok
}

// IsOpen reports whether id was drawn open in the last frame.
func (r *TermRenderer) IsOpen(id model.ID) bool {
	for _, row := range r.rows {
		if row.id == id {
			return row.open
		}
	}
	return false
}

// Forget drops expand state for ids that no longer exist.
func (r *TermRenderer) Forget(live func(model.ID) bool) {
	for id := range r.expanded {
		if !live(id) {
			delete(r.expanded, id)
		}
	}
}

// visibleRange returns the rows [start, end) that fit in height lines with
// the cursor kept in view, starting from offset.
func (r *TermRenderer) visibleRange(offset, height int) (start, end int) {
	if len(r.rows) == 0 {
		return 0, 0
	}
	if height <= 0 {
		height = 20 // Default
	}
	start = offset
	if r.cursor < start {
		start = r.cursor
	}
	if r.cursor >= start+height {
		start = r.cursor - height + 1
	}
	end = start + height
	if end > len(r.rows) {
		end = len(r.rows)
		start = end - height
	}
	if start < 0 {
		start = 0
	}
	return start, end
}
