package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the tree model's key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Toggle   key.Binding
	Add      key.Binding
	Delete   key.Binding
	Search   key.Binding
	Next     key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns vim-style bindings plus the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("ctrl+u", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("ctrl+d", "page down")),
		Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
		Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "toggle")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy label")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"up":        &k.Up,
		"down":      &k.Down,
		"top":       &k.Top,
		"bottom":    &k.Bottom,
		"page_up":   &k.PageUp,
		"page_down": &k.PageDown,
		"left":      &k.Left,
		"right":     &k.Right,
		"select":    &k.Select,
		"toggle":    &k.Toggle,
		"add":       &k.Add,
		"delete":    &k.Delete,
		"search":    &k.Search,
		"next":      &k.Next,
		"copy":      &k.Copy,
		"help":      &k.Help,
		"quit":      &k.Quit,
	}
}

// Apply rebinds actions by name, e.g. {"up": ["k", "up"]}. Unknown action
// names are reported and leave the map unchanged.
func (k *KeyMap) Apply(overrides map[string][]string) error {
	bindings := k.bindings()
	var unknown []string
	for action, keys := range overrides {
		if _, ok := bindings[action]; !ok {
			unknown = append(unknown, action)
		} else if len(keys) == 0 {
			return fmt.Errorf("key action %s has no keys", action)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown key actions: %s", strings.Join(unknown, ", "))
	}
	for action, keys := range overrides {
		b := bindings[action]
		b.SetKeys(keys...)
		b.SetHelp(keys[0], b.Help().Desc)
	}
	return nil
}

// ShortHelp renders a one-line key summary for the status bar.
func (k KeyMap) ShortHelp() string {
	var parts []string
	for _, b := range []key.Binding{k.Select, k.Toggle, k.Add, k.Delete, k.Search, k.Help, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
