// Package ui provides the tree-structured list control and its terminal
// front end.
package ui

import (
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/selection"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// NodeFlags describe a node to the renderer.
type NodeFlags uint8

const (
	NodeLeaf        NodeFlags = 1 << iota // No children; nothing to expand
	NodeDefaultOpen                       // Branch starts expanded
	NodeSelected                          // Node is the committed selection
)

// Renderer is the immediate-mode drawing backend driven by TreeView.Draw.
//
// For every visited node Draw calls Highlight (selected node only), then
// BeginNode, then Clicked. When BeginNode returns true the node's children
// are visited and EndNode is called afterwards.
type Renderer interface {
	// LineHeight is the height of one row, used for the highlight rectangle.
	LineHeight() int
	// CursorY is the vertical position of the next row.
	CursorY() int
	// Highlight marks the rows [y, y+height) as selected.
	Highlight(y, height int)
	// BeginNode emits a row for n and reports whether it is open.
	BeginNode(n model.Node, flags NodeFlags) bool
	// Clicked reports whether the row begun last was just activated.
	Clicked() bool
	// EndNode closes the node opened by the matching BeginNode.
	EndNode()
}

// DrawResult tells the caller whether another frame is needed.
type DrawResult int

const (
	DrawNone   DrawResult = iota
	DrawRedraw            // A selection was committed; draw again to show it
)

// TreeView is a tree-structured list control: an item store plus the
// selection controller that tracks which leaf the user picked.
type TreeView struct {
	store *tree.Store
	sel   *selection.Controller
}

// NewTreeView returns an empty control. Options are passed to the store.
func NewTreeView(opts ...tree.Option) *TreeView {
	s := tree.New(opts...)
	return &TreeView{store: s, sel: selection.New(s)}
}

// Store exposes the underlying item store for queries.
func (v *TreeView) Store() *tree.Store { return v.store }

// Root returns the hidden root's identifier.
func (v *TreeView) Root() model.ID { return v.store.Root() }

// Insert appends a child labeled label under parent.
func (v *TreeView) Insert(parent model.ID, label string) model.ID {
	return v.store.Insert(parent, label)
}

// Remove deletes id and its subtree.
func (v *TreeView) Remove(id model.ID) { v.store.Remove(id) }

// Clear removes every item but the root.
func (v *TreeView) Clear() { v.store.Clear() }

// Children returns id's own children.
func (v *TreeView) Children(id model.ID) []model.ID { return v.store.Children(id) }

// Siblings returns the children of id's parent.
func (v *TreeView) Siblings(id model.ID) []model.ID { return v.store.Siblings(id) }

// Selected returns the selected item, or the root when there is none.
func (v *TreeView) Selected() model.ID { return v.sel.Selected() }

// SetSelected overwrites the selection without notifying.
func (v *TreeView) SetSelected(id model.ID) { v.sel.SetSelected(id) }

// SetOnSelectionChanged registers the selection listener. It runs after the
// draw pass, so it may insert or remove items.
func (v *TreeView) SetOnSelectionChanged(fn selection.Listener) {
	v.sel.SetOnSelectionChanged(fn)
}

// Activate selects a leaf directly, outside of any draw pass.
func (v *TreeView) Activate(id model.ID) bool { return v.sel.Activate(id) }

// Draw runs one pass over the tree against r. Selection changes caused by
// clicks are committed, and the listener called, after the walk returns.
func (v *TreeView) Draw(r Renderer) DrawResult {
	v.sel.BeginPass()
	v.store.Walk(&drawVisitor{view: v, r: r})
	if v.sel.EndPass() {
		return DrawRedraw
	}
	return DrawNone
}

type drawVisitor struct {
	view *TreeView
	r    Renderer
}

func (d *drawVisitor) Enter(n model.Node) bool {
	flags := NodeDefaultOpen
	if n.Leaf {
		flags = NodeLeaf
	}
	if d.view.sel.IsHighlighted(n.ID) {
		d.r.Highlight(d.r.CursorY(), d.r.LineHeight())
		flags |= NodeSelected
	}
	open := d.r.BeginNode(n, flags)
	if d.r.Clicked() && n.Leaf {
		d.view.sel.Activate(n.ID)
	}
	return open
}

func (d *drawVisitor) Leave(model.Node) {
	d.r.EndNode()
}
