package ui

import (
	"strings"
	"testing"
)

func TestRenderHelpListsBindings(t *testing.T) {
	out := RenderHelp(DefaultKeyMap(), newTreeTestTheme(), 80, 40)
	for _, want := range []string{"Quick Reference", "Navigation", "add child", "next match", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestRenderHelpReflectsOverrides(t *testing.T) {
	keys := DefaultKeyMap()
	if err := keys.Apply(map[string][]string{"add": {"+"}}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	out := RenderHelp(keys, newTreeTestTheme(), 80, 0)
	if !strings.Contains(out, "+        add child") {
		t.Errorf("expected rebound key in help output:\n%s", out)
	}
}
