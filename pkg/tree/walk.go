package tree

import "github.com/vanderheijden86/treeview/pkg/model"

// Visitor is driven by Walk. Enter is called for every visited node in
// pre-order and returns whether to descend into its children. Leave is
// called after the children of a node whose Enter returned true.
type Visitor interface {
	Enter(n model.Node) bool
	Leave(n model.Node)
}

// VisitFunc adapts a plain function to Visitor. Leave is a no-op.
type VisitFunc func(n model.Node) bool

func (f VisitFunc) Enter(n model.Node) bool { return f(n) }
func (f VisitFunc) Leave(model.Node)        {}

type intentOp int

const (
	opInsert intentOp = iota
	opRemove
	opClear
)

// intent is a structural edit requested while a walk was outstanding.
type intent struct {
	op     intentOp
	id     model.ID
	parent model.ID
	label  string
}

// Walk visits the tree depth-first in pre-order, starting at the root's
// children. Insert, Remove and Clear calls made by the visitor (directly or
// through callbacks) are queued and applied, in call order, once the
// outermost Walk returns, so the walk always sees the structure it started
// with. Walks may nest.
func (s *Store) Walk(v Visitor) {
	s.walking++
	defer func() {
		s.walking--
		if s.walking == 0 {
			s.drain()
		}
	}()
	s.walkChildren(s.root, 0, v)
}

func (s *Store) walkChildren(parent *item, depth int, v Visitor) {
	children := parent.children
	for i, it := range children {
		n := s.view(it, depth, i, len(children))
		if v.Enter(n) {
			s.walkChildren(it, depth+1, v)
			v.Leave(n)
		}
	}
}

// Nodes returns a view of every item in walk order.
func (s *Store) Nodes() []model.Node {
	out := make([]model.Node, 0, len(s.items))
	s.Walk(VisitFunc(func(n model.Node) bool {
		out = append(out, n)
		return true
	}))
	return out
}

// Traversing reports whether a walk is outstanding.
func (s *Store) Traversing() bool {
	return s.walking > 0
}

// Pending returns the number of queued structural edits.
func (s *Store) Pending() int {
	return len(s.queue)
}

func (s *Store) drain() {
	for len(s.queue) > 0 {
		in := s.queue[0]
		s.queue = s.queue[1:]
		switch in.op {
		case opInsert:
			s.attach(in.id, in.parent, in.label)
		case opRemove:
			if it, ok := s.items[in.id]; ok && it != s.root {
				s.remove(it)
			}
		case opClear:
			s.clear()
		}
	}
	s.queue = nil
}
