package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

func newTreeTestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(nil))
}

// drawFrame runs one full frame the way TreeModel does.
func drawFrame(v *TreeView, r *TermRenderer) DrawResult {
	r.BeginFrame()
	res := v.Draw(r)
	r.EndFrame()
	return res
}

// deepView builds:
//
//	Scene
//	├── Ground
//	└── Trees
//	    ├── Oak
//	    └── Pine
//	Cameras
func deepView() (*TreeView, map[string]model.ID) {
	v := NewTreeView(tree.WithAllocator(tree.NewCounter(0)))
	ids := make(map[string]model.ID)
	ids["Scene"] = v.Insert(v.Root(), "Scene")
	ids["Ground"] = v.Insert(ids["Scene"], "Ground")
	ids["Trees"] = v.Insert(ids["Scene"], "Trees")
	ids["Oak"] = v.Insert(ids["Trees"], "Oak")
	ids["Pine"] = v.Insert(ids["Trees"], "Pine")
	ids["Cameras"] = v.Insert(v.Root(), "Cameras")
	return v, ids
}

// TestTermRendererLines verifies prefixes and indicators for a nested tree
func TestTermRendererLines(t *testing.T) {
	v, _ := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	r.HideCursor()

	drawFrame(v, r)

	want := []string{
		"▾ Scene",
		"├── • Ground",
		"└── ▾ Trees",
		"    ├── • Oak",
		"    └── • Pine",
		"• Cameras",
	}
	got := r.Lines()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestTermRendererVerticalLines verifies continuation bars for non-last ancestors
func TestTermRendererVerticalLines(t *testing.T) {
	v := NewTreeView(tree.WithAllocator(tree.NewCounter(0)))
	a := v.Insert(v.Root(), "A")
	b := v.Insert(a, "B")
	v.Insert(b, "B1")
	v.Insert(a, "C")

	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	lines := r.Lines()
	if lines[2] != "│   └── • B1" {
		t.Errorf("expected a bar under non-last B, got %q", lines[2])
	}
}

// TestTermRendererShowIDs verifies the id suffix
func TestTermRendererShowIDs(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	r.SetShowIDs(true)
	drawFrame(v, r)

	if want := "▾ Scene " + ids["Scene"].String(); r.Lines()[0] != want {
		t.Errorf("expected %q, got %q", want, r.Lines()[0])
	}
}

// TestTermRendererTruncate verifies long labels are cut to the width
func TestTermRendererTruncate(t *testing.T) {
	v := NewTreeView(tree.WithAllocator(tree.NewCounter(0)))
	v.Insert(v.Root(), strings.Repeat("x", 100))

	r := NewTermRenderer(newTreeTestTheme())
	r.SetWidth(30)
	drawFrame(v, r)

	line := r.Lines()[0]
	if lipgloss.Width(line) != 30 {
		t.Errorf("expected line width 30, got %d (%q)", lipgloss.Width(line), line)
	}
	if !strings.HasSuffix(line, "…") {
		t.Errorf("expected ellipsis, got %q", line)
	}
}

// TestTruncateLabel verifies display-width aware truncation
func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"anything", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncateLabel(tt.label, tt.width); got != tt.want {
			t.Errorf("truncateLabel(%q, %d) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
	}
}

// TestTermRendererNavigation verifies cursor movement is clamped to the rows
func TestTermRendererNavigation(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	if r.CursorID() != ids["Scene"] {
		t.Errorf("expected cursor on Scene, got %d", r.CursorID())
	}
	r.MoveUp()
	if r.Cursor() != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", r.Cursor())
	}
	r.MoveDown()
	r.MoveDown()
	if r.CursorID() != ids["Trees"] {
		t.Errorf("expected cursor on Trees, got %d", r.CursorID())
	}
	r.JumpToBottom()
	if r.CursorID() != ids["Cameras"] {
		t.Errorf("expected cursor on Cameras, got %d", r.CursorID())
	}
	r.MoveDown()
	if r.Cursor() != 5 {
		t.Errorf("expected cursor to stay at 5, got %d", r.Cursor())
	}
	r.PageUp(3)
	if r.Cursor() != 2 {
		t.Errorf("expected cursor at 2 after PageUp(3), got %d", r.Cursor())
	}
	r.PageUp(10)
	if r.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", r.Cursor())
	}
	r.PageDown(10)
	if r.Cursor() != 5 {
		t.Errorf("expected cursor clamped to 5, got %d", r.Cursor())
	}
	r.JumpToTop()
	if r.Cursor() != 0 {
		t.Errorf("expected cursor at 0, got %d", r.Cursor())
	}
}

// TestTermRendererToggle verifies collapsing hides children and keeps state
func TestTermRendererToggle(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	r.MoveDown()
	r.MoveDown() // Trees
	r.Toggle()
	drawFrame(v, r)

	if r.RowCount() != 4 {
		t.Errorf("expected 4 rows with Trees collapsed, got %d", r.RowCount())
	}
	if r.IsOpen(ids["Trees"]) {
		t.Error("expected Trees closed")
	}
	if open, ok := r.Expanded(ids["Trees"]); !ok || open {
		t.Errorf("expected explicit collapsed state, got open=%v ok=%v", open, ok)
	}
	if r.Lines()[2] != "└── ▸ Trees" {
		t.Errorf("expected collapsed indicator, got %q", r.Lines()[2])
	}

	drawFrame(v, r)
	if r.RowCount() != 4 {
		t.Errorf("expected toggle to be one-shot, got %d rows", r.RowCount())
	}
}

// TestTermRendererToggleLeafIgnored verifies leaves cannot be collapsed
func TestTermRendererToggleLeafIgnored(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	r.MoveDown() // Ground
	r.Toggle()
	drawFrame(v, r)

	if _, ok := r.Expanded(ids["Ground"]); ok {
		t.Error("expected no expand state for a leaf")
	}
	if r.RowCount() != 6 {
		t.Errorf("expected all 6 rows, got %d", r.RowCount())
	}
}

// TestTermRendererActivateLeaf verifies only an explicit Activate clicks the cursor row
func TestTermRendererActivateLeaf(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	var got []string
	v.SetOnSelectionChanged(func(label string, _ model.ID) { got = append(got, label) })

	r.MoveDown() // Ground
	if res := drawFrame(v, r); res != DrawNone {
		t.Errorf("expected DrawNone without Activate, got %v", res)
	}
	if len(got) != 0 {
		t.Fatalf("expected no selection before Activate, got %v", got)
	}

	r.Activate()
	drawFrame(v, r)
	if len(got) != 1 || got[0] != "Ground" {
		t.Errorf("expected Ground selected, got %v", got)
	}
	if v.Selected() != ids["Ground"] {
		t.Errorf("expected selected id %d, got %d", ids["Ground"], v.Selected())
	}
}

// TestTermRendererClickSelectsThenHighlights verifies the two-frame selection flow
func TestTermRendererClickSelectsThenHighlights(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	var got []model.ID
	v.SetOnSelectionChanged(func(_ string, id model.ID) { got = append(got, id) })

	r.JumpToBottom() // Cameras
	r.Activate()
	if res := drawFrame(v, r); res != DrawRedraw {
		t.Fatalf("expected DrawRedraw, got %v", res)
	}
	if r.HighlightedRow() != -1 {
		t.Errorf("expected no highlight in the clicking frame, got row %d", r.HighlightedRow())
	}
	if len(got) != 1 || got[0] != ids["Cameras"] {
		t.Fatalf("expected Cameras notified once, got %v", got)
	}

	if res := drawFrame(v, r); res != DrawNone {
		t.Errorf("expected the follow-up frame to settle, got %v", res)
	}
	if r.HighlightedRow() != 5 {
		t.Errorf("expected row 5 highlighted, got %d", r.HighlightedRow())
	}
}

// TestTermRendererActivateBranchToggles verifies clicking a branch expands or collapses it
func TestTermRendererActivateBranchToggles(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	r.Activate() // Scene
	if res := drawFrame(v, r); res != DrawNone {
		t.Errorf("expected no selection for a branch, got %v", res)
	}
	if r.IsOpen(ids["Scene"]) || r.RowCount() != 2 {
		t.Errorf("expected Scene collapsed leaving 2 rows, got %d", r.RowCount())
	}
}

// TestTermRendererDefaultCollapsed verifies the collapsed default and explicit overrides
func TestTermRendererDefaultCollapsed(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	r.SetDefaultCollapsed(true)
	drawFrame(v, r)

	if r.RowCount() != 2 {
		t.Errorf("expected only top-level rows, got %d", r.RowCount())
	}

	r.SetExpanded(ids["Scene"], true)
	drawFrame(v, r)
	if r.RowCount() != 4 {
		t.Errorf("expected Scene's children shown with Trees still closed, got %d", r.RowCount())
	}
}

// TestTermRendererFocus verifies Focus moves the cursor once the row is drawn
func TestTermRendererFocus(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	r.Focus(ids["Pine"])
	drawFrame(v, r)
	if r.CursorID() != ids["Pine"] {
		t.Errorf("expected cursor on Pine, got %d", r.CursorID())
	}

	r.Focus(9999)
	drawFrame(v, r)
	if r.CursorID() != ids["Pine"] {
		t.Errorf("expected unknown focus to be dropped, got %d", r.CursorID())
	}
}

// TestTermRendererCursorClampedAfterRemove verifies the cursor follows a shrinking tree
func TestTermRendererCursorClampedAfterRemove(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)
	r.JumpToBottom()

	v.Remove(ids["Cameras"])
	v.Remove(ids["Trees"])
	drawFrame(v, r)

	if r.CursorID() != ids["Ground"] {
		t.Errorf("expected cursor clamped to Ground, got %d", r.CursorID())
	}

	v.Clear()
	drawFrame(v, r)
	if r.CursorID() != model.NoID {
		t.Errorf("expected NoID on an empty tree, got %d", r.CursorID())
	}
}

// TestTermRendererForget verifies expand state of removed items is dropped
func TestTermRendererForget(t *testing.T) {
	v, ids := deepView()
	r := NewTermRenderer(newTreeTestTheme())
	r.SetExpanded(ids["Trees"], false)

	v.Remove(ids["Trees"])
	r.Forget(v.Store().Contains)

	if _, ok := r.Expanded(ids["Trees"]); ok {
		t.Error("expected state for removed Trees to be forgotten")
	}
}

// TestVisibleRange verifies the window follows the cursor
func TestVisibleRange(t *testing.T) {
	v := NewTreeView(tree.WithAllocator(tree.NewCounter(0)))
	for i := 0; i < 50; i++ {
		v.Insert(v.Root(), "item")
	}
	r := NewTermRenderer(newTreeTestTheme())
	drawFrame(v, r)

	tests := []struct {
		name               string
		cursor, offset     int
		height             int
		wantStart, wantEnd int
	}{
		{"top", 0, 0, 10, 0, 10},
		{"cursor inside window", 5, 0, 10, 0, 10},
		{"cursor below window", 15, 0, 10, 6, 16},
		{"cursor above window", 3, 20, 10, 3, 13},
		{"clamped at end", 49, 45, 10, 40, 50},
		{"default height", 0, 0, 0, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.cursor = tt.cursor
			start, end := r.visibleRange(tt.offset, tt.height)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("expected [%d, %d), got [%d, %d)", tt.wantStart, tt.wantEnd, start, end)
			}
		})
	}
}
