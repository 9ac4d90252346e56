package model

import "strconv"

// ID identifies one tree item for as long as the allocator that issued it
// lives. IDs are never reused, not even after the item is removed.
type ID int64

// NoID is the reserved sentinel for "no item". The root has NoID as parent.
const NoID ID = -1

// NoSelection is the selection value of a tree nobody has clicked yet.
const NoSelection = NoID

// Valid reports whether the ID could have been issued by an allocator.
// It says nothing about whether the item is still live.
func (id ID) Valid() bool {
	return id >= 0
}

// String renders the ID the way the UI shows it, e.g. "#12".
func (id ID) String() string {
	if !id.Valid() {
		return "#none"
	}
	return "#" + strconv.FormatInt(int64(id), 10)
}

// Node is a read-only view of one item handed to traversal visitors and
// renderers. It is a copy: holding a Node never keeps an item alive.
type Node struct {
	ID     ID     `json:"id"`
	Label  string `json:"label"`
	Parent ID     `json:"parent"`
	Depth  int    `json:"depth"` // 0 for children of the root
	Index  int    `json:"index"` // Position among siblings
	Last   bool   `json:"last"`  // Last among siblings
	Leaf   bool   `json:"leaf"`  // No children at the time the view was taken
}
