// Package tree implements the item store behind the tree control: an
// identity-stable hierarchy of labeled items addressed by model.ID.
//
// The store is driven from a single goroutine (the UI loop) and does no
// locking of its own. Only the Allocator is safe for concurrent use, so that
// several stores may share one.
package tree

import (
	"sync/atomic"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// Allocator hands out identifiers. Implementations must never return the
// same value twice.
type Allocator interface {
	Next() model.ID
}

// Counter is a monotonic Allocator.
type Counter struct {
	next atomic.Int64
}

// NewCounter returns a Counter whose first identifier is start.
func NewCounter(start model.ID) *Counter {
	c := &Counter{}
	c.next.Store(int64(start))
	return c
}

// Next returns the next identifier.
func (c *Counter) Next() model.ID {
	return model.ID(c.next.Add(1) - 1)
}

// DefaultAllocator is shared by every store built without WithAllocator, so
// identifiers from independently created stores never collide.
var DefaultAllocator Allocator = NewCounter(0)
