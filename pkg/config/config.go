// Package config loads treeview settings from .treeview/config.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a treeview configuration file (.treeview/config.yaml)
type Config struct {
	// Outline is the outline file used to seed the tree (yaml, json or text)
	Outline string `yaml:"outline,omitempty" json:"outline,omitempty"`

	// Watch reloads the tree when the outline file changes
	Watch bool `yaml:"watch,omitempty" json:"watch,omitempty"`

	// DebounceMS coalesces bursts of file events (default: 200)
	DebounceMS int `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty"`

	// LogFile receives log output in interactive mode (default: discarded)
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`

	// Tree controls presentation of the tree
	Tree TreeConfig `yaml:"tree,omitempty" json:"tree,omitempty"`

	// Theme overrides the default colors
	Theme ThemeConfig `yaml:"theme,omitempty" json:"theme,omitempty"`

	// Keys rebinds actions, e.g. {"up": ["k", "up"]}
	Keys map[string][]string `yaml:"keys,omitempty" json:"keys,omitempty"`
}

// TreeConfig controls how nodes are drawn
type TreeConfig struct {
	// Collapsed starts branches collapsed instead of open
	Collapsed bool `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`

	// ShowIDs appends each item's identifier to its label
	ShowIDs bool `yaml:"show_ids,omitempty" json:"show_ids,omitempty"`
}

// ThemeConfig holds color overrides. Values are "#rrggbb" or ANSI numbers;
// a light/dark pair may be given as "light,dark".
type ThemeConfig struct {
	Primary   string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Muted     string `yaml:"muted,omitempty" json:"muted,omitempty"`
	Highlight string `yaml:"highlight,omitempty" json:"highlight,omitempty"`
	Selected  string `yaml:"selected,omitempty" json:"selected,omitempty"`
}

// DefaultDebounce is used when DebounceMS is unset
const DefaultDebounce = 200 * time.Millisecond

// Default returns the configuration used when no file is found
func Default() Config {
	return Config{DebounceMS: int(DefaultDebounce / time.Millisecond)}
}

// Debounce returns the effective debounce delay
func (c Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return DefaultDebounce
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|#[0-9a-fA-F]{3}|[0-9]{1,3})$`)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	if c.Watch && c.Outline == "" {
		return fmt.Errorf("watch requires an outline file")
	}

	colors := map[string]string{
		"primary":   c.Theme.Primary,
		"secondary": c.Theme.Secondary,
		"muted":     c.Theme.Muted,
		"highlight": c.Theme.Highlight,
		"selected":  c.Theme.Selected,
	}
	for name, value := range colors {
		if value == "" {
			continue
		}
		for _, part := range splitPair(value) {
			if !colorPattern.MatchString(part) {
				return fmt.Errorf("theme.%s: invalid color %q", name, part)
			}
		}
	}

	for action, keys := range c.Keys {
		if len(keys) == 0 {
			return fmt.Errorf("keys.%s: at least one key is required", action)
		}
	}
	return nil
}

// splitPair splits "light,dark" into its halves; a single value is returned as is.
func splitPair(value string) []string {
	for i := 0; i < len(value); i++ {
		if value[i] == ',' {
			return []string{value[:i], value[i+1:]}
		}
	}
	return []string{value}
}

// ColorPair returns the light and dark variants of a theme value.
func ColorPair(value string) (light, dark string) {
	parts := splitPair(value)
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return parts[0], parts[1]
}

// Load reads and validates the configuration at path. Unknown fields are
// rejected so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
