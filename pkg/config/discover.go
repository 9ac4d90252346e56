package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir and File locate the configuration relative to a project directory.
const (
	Dir  = ".treeview"
	File = "config.yaml"
)

// Discover walks up from the current directory looking for
// .treeview/config.yaml and returns its path.
func Discover() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findConfig(dir)
}

// findConfig walks up from dir looking for .treeview/config.yaml.
func findConfig(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		path := filepath.Join(dir, Dir, File)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// Resolve loads the configuration for a run. An explicit path must exist;
// otherwise the discovered file is used, and defaults when none is found.
// Relative outline and log paths are made relative to the project directory
// that holds .treeview/.
func Resolve(explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		found, ok := Discover()
		if !ok {
			return Default(), "", nil
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit == "" && errors.Is(err, os.ErrNotExist) {
			return Default(), "", nil
		}
		return cfg, path, err
	}

	base := filepath.Dir(path)
	if filepath.Base(base) == Dir {
		base = filepath.Dir(base)
	}
	cfg.Outline = resolvePath(base, cfg.Outline)
	cfg.LogFile = resolvePath(base, cfg.LogFile)
	return cfg, path, nil
}

func resolvePath(base, p string) string {
	p = expandHome(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Describe returns a one-line summary for --version style output.
func Describe(path string) string {
	if path == "" {
		return "config: defaults"
	}
	return fmt.Sprintf("config: %s", path)
}
