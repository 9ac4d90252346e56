package tree

import (
	"slices"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// item is one node of the tree. Items live on the heap and are referenced by
// pointer from their parent and from the lookup table, so a pointer to an
// item stays valid across any mutation that does not remove that item.
type item struct {
	id       model.ID
	label    string
	parent   *item   // Non-owning back reference; nil for the root
	children []*item // Owned, insertion order
}

// Store owns a tree of items rooted at a hidden root item.
type Store struct {
	alloc Allocator
	root  *item
	items map[model.ID]*item // Every live item, root included

	// Traversal state. Structural edits requested while walking > 0 are
	// queued and applied when the outermost walk returns.
	walking int
	queue   []intent
}

// Option configures a Store.
type Option func(*Store)

// WithAllocator makes the store draw identifiers from a. Stores that must
// not collide should share the same allocator.
func WithAllocator(a Allocator) Option {
	return func(s *Store) {
		if a != nil {
			s.alloc = a
		}
	}
}

// New creates a store holding only its root.
func New(opts ...Option) *Store {
	s := &Store{
		alloc: DefaultAllocator,
		items: make(map[model.ID]*item),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.root = &item{id: s.alloc.Next()}
	s.items[s.root.id] = s.root
	return s
}

// Root returns the root's identifier. The root is never removed.
func (s *Store) Root() model.ID {
	return s.root.id
}

// Insert appends a new item labeled label as the last child of parent and
// returns its identifier. An unknown parent puts the item under the root.
//
// During a walk the identifier is returned at once but the item is attached
// only after the walk finishes.
func (s *Store) Insert(parent model.ID, label string) model.ID {
	id := s.alloc.Next()
	if s.walking > 0 {
		s.queue = append(s.queue, intent{op: opInsert, id: id, parent: parent, label: label})
		return id
	}
	s.attach(id, parent, label)
	return id
}

func (s *Store) attach(id, parentID model.ID, label string) {
	parent, ok := s.items[parentID]
	if !ok {
		parent = s.root
	}
	it := &item{id: id, label: label, parent: parent}
	parent.children = append(parent.children, it)
	s.items[id] = it
}

// Remove deletes the item and its whole subtree. Unknown ids and the root
// are ignored. During a walk the removal is deferred until the walk ends.
func (s *Store) Remove(id model.ID) {
	if s.walking > 0 {
		s.queue = append(s.queue, intent{op: opRemove, id: id})
		return
	}
	it, ok := s.items[id]
	if !ok || it == s.root {
		return
	}
	s.remove(it)
}

// remove unregisters it before touching its children, so nothing reached
// during teardown can resolve it as live. Children are taken one at a time
// from the front because each recursive call unlinks itself from it.
func (s *Store) remove(it *item) {
	delete(s.items, it.id)

	for len(it.children) > 0 {
		s.remove(it.children[0])
	}

	if p := it.parent; p != nil {
		for i, sibling := range p.children {
			if sibling.id == it.id {
				p.children = slices.Delete(p.children, i, i+1)
				break
			}
		}
	}
	it.parent = nil
}

// Clear removes every item except the root. During a walk the clear is
// queued like any other edit, so items inserted earlier in the same walk are
// cleared too.
func (s *Store) Clear() {
	if s.walking > 0 {
		s.queue = append(s.queue, intent{op: opClear})
		return
	}
	s.clear()
}

func (s *Store) clear() {
	for len(s.root.children) > 0 {
		s.remove(s.root.children[0])
	}
}

// Children returns the identifiers of id's own children in insertion order.
// Unknown ids yield an empty slice.
func (s *Store) Children(id model.ID) []model.ID {
	it, ok := s.items[id]
	if !ok {
		return nil
	}
	return ids(it.children)
}

// Siblings returns the children of id's parent, id included. The root and
// unknown ids yield an empty slice.
func (s *Store) Siblings(id model.ID) []model.ID {
	it, ok := s.items[id]
	if !ok || it.parent == nil {
		return nil
	}
	return ids(it.parent.children)
}

func ids(items []*item) []model.ID {
	out := make([]model.ID, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}

// Label returns the item's label.
func (s *Store) Label(id model.ID) (string, bool) {
	it, ok := s.items[id]
	if !ok {
		return "", false
	}
	return it.label, true
}

// Parent returns the parent of id. The root has no parent.
func (s *Store) Parent(id model.ID) (model.ID, bool) {
	it, ok := s.items[id]
	if !ok || it.parent == nil {
		return model.NoID, false
	}
	return it.parent.id, true
}

// Ancestors returns id's ancestors from the topmost visible one down to its
// parent. The root is not included.
func (s *Store) Ancestors(id model.ID) []model.ID {
	it, ok := s.items[id]
	if !ok {
		return nil
	}
	var out []model.ID
	for p := it.parent; p != nil && p != s.root; p = p.parent {
		out = append(out, p.id)
	}
	slices.Reverse(out)
	return out
}

// IsLeaf reports whether id is a live item without children.
func (s *Store) IsLeaf(id model.ID) bool {
	it, ok := s.items[id]
	return ok && len(it.children) == 0
}

// Contains reports whether id is live.
func (s *Store) Contains(id model.ID) bool {
	_, ok := s.items[id]
	return ok
}

// Len returns the number of live items, root included.
func (s *Store) Len() int {
	return len(s.items)
}

// Depth returns 0 for children of the root, 1 for their children and so on.
// The root and unknown ids return -1.
func (s *Store) Depth(id model.ID) int {
	it, ok := s.items[id]
	if !ok {
		return -1
	}
	depth := -1
	for p := it.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Node returns a view of id. The root is not viewable.
func (s *Store) Node(id model.ID) (model.Node, bool) {
	it, ok := s.items[id]
	if !ok || it.parent == nil {
		return model.Node{}, false
	}
	siblings := it.parent.children
	index := slices.Index(siblings, it)
	return s.view(it, s.Depth(id), index, len(siblings)), true
}

func (s *Store) view(it *item, depth, index, count int) model.Node {
	parent := model.NoID
	if it.parent != nil {
		parent = it.parent.id
	}
	return model.Node{
		ID:     it.id,
		Label:  it.label,
		Parent: parent,
		Depth:  depth,
		Index:  index,
		Last:   index == count-1,
		Leaf:   len(it.children) == 0,
	}
}
