package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vanderheijden86/treeview/pkg/model"
)

func TestPrintTree(t *testing.T) {
	v, _ := deepView()
	var buf bytes.Buffer
	if err := PrintTree(&buf, v, PrintOptions{}); err != nil {
		t.Fatalf("PrintTree error: %v", err)
	}

	want := strings.Join([]string{
		"▾ Scene",
		"├── • Ground",
		"└── ▾ Trees",
		"    ├── • Oak",
		"    └── • Pine",
		"• Cameras",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestPrintTreeShowIDs(t *testing.T) {
	v, ids := deepView()
	var buf bytes.Buffer
	if err := PrintTree(&buf, v, PrintOptions{ShowIDs: true}); err != nil {
		t.Fatalf("PrintTree error: %v", err)
	}
	if want := "Oak " + ids["Oak"].String(); !strings.Contains(buf.String(), want) {
		t.Errorf("expected %q in output:\n%s", want, buf.String())
	}
}

func TestPrintTreeDoesNotSelect(t *testing.T) {
	v, _ := deepView()
	notified := false
	v.SetOnSelectionChanged(func(string, model.ID) { notified = true })
	var buf bytes.Buffer
	if err := PrintTree(&buf, v, PrintOptions{}); err != nil {
		t.Fatalf("PrintTree error: %v", err)
	}
	if notified {
		t.Error("expected printing not to activate anything")
	}
}

func TestPrintTreeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTree(&buf, NewTreeView(), PrintOptions{}); err != nil {
		t.Fatalf("PrintTree error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
