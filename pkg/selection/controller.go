// Package selection tracks the selected item of a tree control and tells a
// listener about changes once the traversal that caused them has finished.
package selection

import (
	"log"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// Source is the part of the item store the controller needs.
type Source interface {
	Root() model.ID
	IsLeaf(id model.ID) bool
	Label(id model.ID) (string, bool)
}

// Listener receives the label and id of a newly selected item.
type Listener func(label string, id model.ID)

// Controller holds the committed selection and at most one pending one.
//
// A traversal pass is bracketed by BeginPass and EndPass. Activations during
// the pass are only recorded; EndPass commits the last of them and invokes
// the listener once, after the walk has unwound, so the listener is free to
// mutate the tree.
type Controller struct {
	src      Source
	listener Listener

	selected model.ID // NoSelection until something is selected
	pending  model.ID // Leaf activated during the current pass

	passes    int      // Nesting depth of BeginPass/EndPass
	committed model.ID // selected as of the outermost BeginPass
}

// New returns a controller with nothing selected.
func New(src Source) *Controller {
	return &Controller{
		src:       src,
		selected:  model.NoSelection,
		pending:   model.NoSelection,
		committed: model.NoSelection,
	}
}

// Selected returns the selected id, or the root's id when nothing has been
// selected yet.
func (c *Controller) Selected() model.ID {
	if !c.selected.Valid() {
		return c.src.Root()
	}
	return c.selected
}

// SetSelected overwrites the selection without validating id and without
// notifying the listener. Passing NoSelection resets to the default.
func (c *Controller) SetSelected(id model.ID) {
	c.selected = id
}

// SetOnSelectionChanged registers the listener, replacing any previous one.
func (c *Controller) SetOnSelectionChanged(fn Listener) {
	c.listener = fn
}

// BeginPass starts a traversal pass. Highlight decisions made during the
// pass use the selection committed at this point.
func (c *Controller) BeginPass() {
	if c.passes == 0 {
		c.committed = c.selected
		c.pending = model.NoSelection
	}
	c.passes++
}

// InPass reports whether a pass is outstanding.
func (c *Controller) InPass() bool {
	return c.passes > 0
}

// IsHighlighted reports whether id should be drawn as selected.
func (c *Controller) IsHighlighted(id model.ID) bool {
	if !id.Valid() {
		return false
	}
	if c.passes > 0 {
		return id == c.committed
	}
	return id == c.selected
}

// Activate handles a user interaction with id. Only leaves are selectable;
// activating anything else returns false and changes nothing. Inside a pass
// the leaf becomes the pending selection; outside one it is committed and
// notified at once. Activating the leaf that is already selected counts as
// a selection and notifies the listener again.
func (c *Controller) Activate(id model.ID) bool {
	if id == c.src.Root() || !c.src.IsLeaf(id) {
		return false
	}
	if c.passes == 0 {
		return c.commit(id)
	}
	c.pending = id
	return true
}

// Pending returns the leaf recorded during the current pass, if any.
func (c *Controller) Pending() model.ID {
	return c.pending
}

// EndPass closes a pass. Closing the outermost pass commits the pending
// selection and notifies the listener; the return value reports whether a
// selection was committed, i.e. whether the control needs a redraw. A
// pending item that was removed or gained children meanwhile is dropped.
func (c *Controller) EndPass() bool {
	if c.passes == 0 {
		return false
	}
	c.passes--
	if c.passes > 0 || !c.pending.Valid() {
		return false
	}
	id := c.pending
	c.pending = model.NoSelection
	if !c.src.IsLeaf(id) {
		if _, live := c.src.Label(id); live {
			log.Printf("warning: selected item %d gained children before it could be committed", id)
			return false
		}
	}
	return c.commit(id)
}

func (c *Controller) commit(id model.ID) bool {
	label, ok := c.src.Label(id)
	if !ok {
		log.Printf("warning: selected item %d was removed before it could be committed", id)
		return false
	}
	c.selected = id
	if c.listener != nil {
		c.listener(label, id)
	}
	return true
}
