package ui

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// TreeState is the persisted expand/collapse state of the tree view,
// saved to .treeview/tree-state.json.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "Scene / Trees": false,   // explicitly collapsed
//	    "Cameras": true           // explicitly expanded
//	  }
//	}
//
// Items get fresh identifiers on every run, so nodes are keyed by their
// label path. Only explicit user changes are stored; a missing or corrupt
// file means defaults.
type TreeState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// TreeStateVersion is the current schema version for tree persistence
const TreeStateVersion = 1

// treeStateFileName is the filename for persisted tree state
const treeStateFileName = "tree-state.json"

// TreeStatePath returns the tree state file inside stateDir.
func TreeStatePath(stateDir string) string {
	if stateDir == "" {
		stateDir = ".treeview"
	}
	return filepath.Join(stateDir, treeStateFileName)
}

// labelPath returns id's labels from the top-level ancestor down.
func labelPath(s *tree.Store, id model.ID) string {
	var parts []string
	for _, a := range s.Ancestors(id) {
		label, _ := s.Label(a)
		parts = append(parts, label)
	}
	label, _ := s.Label(id)
	parts = append(parts, label)
	return strings.Join(parts, " / ")
}

// captureState collects the explicit expand state of live items.
func captureState(s *tree.Store, r *TermRenderer) *TreeState {
	state := &TreeState{Version: TreeStateVersion, Expanded: make(map[string]bool)}
	for _, n := range s.Nodes() {
		if open, ok := r.Expanded(n.ID); ok && !n.Leaf {
			state.Expanded[labelPath(s, n.ID)] = open
		}
	}
	return state
}

// applyState sets expand state on nodes matching a stored label path.
// Unknown paths are ignored.
func applyState(s *tree.Store, r *TermRenderer, state *TreeState) {
	if state == nil || len(state.Expanded) == 0 {
		return
	}
	for _, n := range s.Nodes() {
		if open, ok := state.Expanded[labelPath(s, n.ID)]; ok {
			r.SetExpanded(n.ID, open)
		}
	}
}

// saveState persists state. Errors are logged but do not interrupt the
// user experience.
func saveState(stateDir string, state *TreeState) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal tree state: %v", err)
		return
	}

	path := TreeStatePath(stateDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("warning: failed to create state directory %s: %v", filepath.Dir(path), err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("warning: failed to write tree state to %s: %v", path, err)
	}
}

// loadState reads the persisted state. A missing file yields nil silently.
func loadState(stateDir string) *TreeState {
	data, err := os.ReadFile(TreeStatePath(stateDir))
	if err != nil {
		return nil
	}
	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid tree state file, using defaults: %v", err)
		return nil
	}
	if state.Version != TreeStateVersion {
		log.Printf("warning: tree state version %d not supported, using defaults", state.Version)
		return nil
	}
	return &state
}
