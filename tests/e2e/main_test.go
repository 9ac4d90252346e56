package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// buildTreeviewBinary compiles cmd/treeview into a temp dir.
func buildTreeviewBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e build in short mode")
	}

	name := "treeview"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)

	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/treeview")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Build failed: %v\n%s", err, out)
	}
	return binPath
}

// prepareProject creates a project dir with .treeview/config.yaml pointing
// at an indented-text outline.
func prepareProject(t *testing.T, outlineText string) string {
	t.Helper()
	envDir := filepath.Join(t.TempDir(), "env")
	if err := os.MkdirAll(filepath.Join(envDir, ".treeview"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(envDir, "scene.txt"), []byte(outlineText), 0644); err != nil {
		t.Fatal(err)
	}
	config := "outline: scene.txt\ntree:\n  show_ids: true\n"
	if err := os.WriteFile(filepath.Join(envDir, ".treeview", "config.yaml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	return envDir
}

func run(t *testing.T, dir, bin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestEndToEndVersion(t *testing.T) {
	binPath := buildTreeviewBinary(t)
	envDir := prepareProject(t, "Scene\n")

	out, err := run(t, envDir, binPath, "--version")
	if err != nil {
		t.Fatalf("Execution failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "treeview ") {
		t.Errorf("unexpected version output: %q", out)
	}
	if !strings.Contains(out, filepath.Join(".treeview", "config.yaml")) {
		t.Errorf("expected discovered config in output: %q", out)
	}
}

func TestEndToEndPrint(t *testing.T) {
	binPath := buildTreeviewBinary(t)
	envDir := prepareProject(t, "Scene\n  Ground\n  Trees\n    Oak\n    Pine\nCameras\n")

	out, err := run(t, envDir, binPath, "--print")
	if err != nil {
		t.Fatalf("Execution failed: %v\n%s", err, out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), out)
	}
	wantPrefixes := []string{"▾ Scene #", "├── • Ground #", "└── ▾ Trees #", "    ├── • Oak #", "    └── • Pine #", "• Cameras #"}
	for i, want := range wantPrefixes {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d: expected prefix %q, got %q", i, want, lines[i])
		}
	}
}

func TestEndToEndPrintOutlineFlagOverridesConfig(t *testing.T) {
	binPath := buildTreeviewBinary(t)
	envDir := prepareProject(t, "Scene\n")
	other := filepath.Join(envDir, "other.json")
	if err := os.WriteFile(other, []byte(`[{"label": "Lights"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, envDir, binPath, "--print", "--outline", other)
	if err != nil {
		t.Fatalf("Execution failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "• Lights #") || strings.Contains(out, "Scene") {
		t.Errorf("expected only the flag's outline, got %q", out)
	}
}

func TestEndToEndCheck(t *testing.T) {
	binPath := buildTreeviewBinary(t)
	envDir := prepareProject(t, "Scene\n  Ground\n")
	extra := filepath.Join(envDir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("- Cameras:\n    - Main\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, envDir, binPath, "--check", extra)
	if err != nil {
		t.Fatalf("Execution failed: %v\n%s", err, out)
	}
	if strings.Count(out, ": ok (2 items)") != 2 {
		t.Errorf("expected both outlines ok with 2 items, got %q", out)
	}
}

func TestEndToEndCheckFailsOnBadOutline(t *testing.T) {
	binPath := buildTreeviewBinary(t)
	envDir := prepareProject(t, "Scene\n   Odd\n")

	out, err := run(t, envDir, binPath, "--check")
	if err == nil {
		t.Fatalf("expected non-zero exit, got output %q", out)
	}
	if !strings.Contains(out, "odd indentation") {
		t.Errorf("expected the parse error in output, got %q", out)
	}
}

func TestEndToEndBadConfig(t *testing.T) {
	binPath := buildTreeviewBinary(t)
	envDir := prepareProject(t, "Scene\n")
	cfg := filepath.Join(envDir, ".treeview", "config.yaml")
	if err := os.WriteFile(cfg, []byte("unknown_field: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, envDir, binPath, "--print")
	if err == nil {
		t.Fatalf("expected non-zero exit, got output %q", out)
	}
	if !strings.Contains(out, "Error loading config") {
		t.Errorf("unexpected output %q", out)
	}
}
