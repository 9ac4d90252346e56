package tree

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// IntegrityError reports the first structural invariant Check found broken.
type IntegrityError struct {
	ID      model.ID
	Problem string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("tree integrity: item %d: %s", e.ID, e.Problem)
}

// Check verifies that every live item is reachable from the root exactly
// once, that parent links match the children lists, and that the lookup
// table holds exactly the reachable items.
func (s *Store) Check() error {
	if s.items[s.root.id] != s.root {
		return &IntegrityError{ID: s.root.id, Problem: "root missing from lookup table"}
	}
	if s.root.parent != nil {
		return &IntegrityError{ID: s.root.id, Problem: "root has a parent"}
	}

	seen := map[*item]bool{s.root: true}
	stack := []*item{s.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range n.children {
			switch {
			case seen[child]:
				return &IntegrityError{ID: child.id, Problem: "reachable more than once"}
			case child.parent != n:
				return &IntegrityError{ID: child.id, Problem: fmt.Sprintf("parent link does not point at %d", n.id)}
			case s.items[child.id] != child:
				return &IntegrityError{ID: child.id, Problem: "reachable but not in lookup table"}
			}
			seen[child] = true
			stack = append(stack, child)
		}
	}

	if len(seen) != len(s.items) {
		ids := make([]model.ID, 0, len(s.items))
		for id, it := range s.items {
			if !seen[it] {
				ids = append(ids, id)
			}
		}
		slices.Sort(ids)
		return &IntegrityError{ID: ids[0], Problem: "in lookup table but unreachable"}
	}
	return nil
}
