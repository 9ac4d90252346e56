// Package outline reads outline files used to seed a tree at start-up.
//
// Three formats are understood, chosen by file extension:
//
//	.yaml/.yml  a sequence; scalars are leaves, single-key mappings are
//	            branches whose value is the sequence of children
//	.json       [{"label": "...", "children": [...]}, ...]
//	other       indented text, one label per line, two spaces or a tab per
//	            level, "#" comments and blank lines ignored
//
// Outlines are only ever read; the tree is never written back.
package outline

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/model"
)

// Entry is one outline line and its nested entries.
type Entry struct {
	Label    string  `json:"label" yaml:"label"`
	Children []Entry `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of entries in the forest, nested ones included.
func Count(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += 1 + Count(e.Children)
	}
	return n
}

// ParseError describes where an outline could not be read.
type ParseError struct {
	Path string
	Line int // 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads and parses the outline at path.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse parses data, picking the format from name's extension.
func Parse(name string, data []byte) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return parseYAML(name, data)
	case ".json":
		return parseJSON(name, data)
	default:
		return parseText(name, data)
	}
}

func parseYAML(name string, data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil // Empty document
	}
	return yamlSequence(name, doc.Content[0])
}

func yamlSequence(name string, n *yaml.Node) ([]Entry, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, &ParseError{Path: name, Line: n.Line, Err: fmt.Errorf("expected a list of items")}
	}
	entries := make([]Entry, 0, len(n.Content))
	for _, c := range n.Content {
		switch c.Kind {
		case yaml.ScalarNode:
			entries = append(entries, Entry{Label: c.Value})
		case yaml.MappingNode:
			if len(c.Content) != 2 {
				return nil, &ParseError{Path: name, Line: c.Line, Err: fmt.Errorf("a branch must have exactly one label")}
			}
			children, err := yamlSequence(name, c.Content[1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Label: c.Content[0].Value, Children: children})
		default:
			return nil, &ParseError{Path: name, Line: c.Line, Err: fmt.Errorf("unexpected nested list")}
		}
	}
	return entries, nil
}

func parseJSON(name string, data []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	return entries, nil
}

func parseText(name string, data []byte) ([]Entry, error) {
	var roots []Entry
	// path[i] is the index chain to the most recent entry at depth i.
	var path []int

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		depth, err := indentDepth(raw)
		if err != nil {
			return nil, &ParseError{Path: name, Line: lineNo, Err: err}
		}
		if depth > len(path) {
			return nil, &ParseError{Path: name, Line: lineNo, Err: fmt.Errorf("indentation skips %d level(s)", depth-len(path))}
		}

		path = path[:depth]
		siblings := &roots
		for _, idx := range path {
			siblings = &(*siblings)[idx].Children
		}
		*siblings = append(*siblings, Entry{Label: trimmed})
		path = append(path, len(*siblings)-1)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	return roots, nil
}

// indentDepth counts leading tabs and space pairs.
func indentDepth(line string) (int, error) {
	depth, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			if spaces%2 != 0 {
				return 0, fmt.Errorf("odd indentation")
			}
			depth++
		case ' ':
			spaces++
			if spaces%2 == 0 {
				depth++
			}
		default:
			if spaces%2 != 0 {
				return 0, fmt.Errorf("odd indentation")
			}
			return depth, nil
		}
	}
	return depth, nil
}

// Inserter is the part of the item store Seed needs.
type Inserter interface {
	Insert(parent model.ID, label string) model.ID
}

// Seed inserts entries depth-first under parent and returns how many items
// were created.
func Seed(s Inserter, parent model.ID, entries []Entry) int {
	n := 0
	for _, e := range entries {
		id := s.Insert(parent, e.Label)
		n += 1 + Seed(s, id, e.Children)
	}
	return n
}
