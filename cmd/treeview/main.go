package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/outline"
	"github.com/vanderheijden86/treeview/pkg/tree"
	"github.com/vanderheijden86/treeview/pkg/ui"
	"github.com/vanderheijden86/treeview/pkg/version"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file (default: discover .treeview/config.yaml)")
	outlinePath := flag.String("outline", "", "Outline file to seed the tree (yaml, json or indented text)")
	watch := flag.Bool("watch", false, "Reload the tree when the outline file changes")
	printTree := flag.Bool("print", false, "Print the seeded tree with item ids and exit")
	check := flag.Bool("check", false, "Seed the outline (and any extra outline arguments) and verify tree integrity")
	logFile := flag.String("log", "", "Write log output to this file in interactive mode")
	flag.Parse()

	if *help {
		fmt.Println("Usage: treeview [options] [outline...]")
		fmt.Println("\nA terminal tree view over an identity-stable item store.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, cfgPath, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *versionFlag {
		fmt.Printf("treeview %s\n", version.Version)
		fmt.Println(config.Describe(cfgPath))
		os.Exit(0)
	}

	// Flags take precedence over the config file
	if *outlinePath != "" {
		cfg.Outline = *outlinePath
	}
	if *watch {
		cfg.Watch = true
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	if *check {
		paths := flag.Args()
		if cfg.Outline != "" {
			paths = append([]string{cfg.Outline}, paths...)
		}
		results, err := checkOutlines(context.Background(), paths)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}
		for _, r := range results {
			fmt.Printf("%s: ok (%d items)\n", r.Path, r.Items)
		}
		os.Exit(0)
	}

	view, err := seedView(cfg.Outline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading outline: %v\n", err)
		os.Exit(1)
	}

	if *printTree {
		opts := ui.PrintOptions{Width: terminalWidth(os.Stdout), ShowIDs: true}
		if err := ui.PrintTree(os.Stdout, view, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing tree: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := runInteractive(cfg, cfgPath, view); err != nil {
		fmt.Printf("Error running treeview: %v\n", err)
		os.Exit(1)
	}
}

// runInteractive runs the bubbletea program until the user quits.
func runInteractive(cfg config.Config, cfgPath string, view *ui.TreeView) error {
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "treeview")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		// The alternate screen owns the terminal
		log.SetOutput(io.Discard)
	}

	keys := ui.DefaultKeyMap()
	if err := keys.Apply(cfg.Keys); err != nil {
		log.Printf("warning: ignoring key overrides: %v", err)
		keys = ui.DefaultKeyMap()
	}

	var stateDir string
	if cfgPath != "" {
		stateDir = filepath.Dir(cfgPath)
	}

	m := ui.NewTreeModel(view, ui.ModelOptions{
		Theme:            ui.ThemeFromConfig(lipgloss.DefaultRenderer(), cfg.Theme),
		Keys:             keys,
		ShowIDs:          cfg.Tree.ShowIDs,
		DefaultCollapsed: cfg.Tree.Collapsed,
		StateDir:         stateDir,
	})
	m.OnSelect(func(label string, id model.ID) {
		log.Printf("selected %q (%s)", label, id)
	})

	p := tea.NewProgram(m, tea.WithAltScreen())

	if cfg.Watch && cfg.Outline != "" {
		w, err := ui.NewOutlineWatcher(ui.WatchConfig{
			Path:          cfg.Outline,
			DebounceDelay: cfg.Debounce(),
			Sender:        p,
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			log.Printf("warning: live reload disabled: %v", err)
		}
		defer w.Stop()
	}

	_, err := p.Run()
	return err
}

// seedView builds a tree control from the outline at path. An empty path
// yields an empty tree.
func seedView(path string) (*ui.TreeView, error) {
	view := ui.NewTreeView()
	if path == "" {
		return view, nil
	}
	entries, err := outline.Load(path)
	if err != nil {
		return nil, err
	}
	outline.Seed(view.Store(), view.Root(), entries)
	return view, nil
}

// checkResult summarizes one verified outline.
type checkResult struct {
	Path  string
	Items int
	ids   []model.ID
}

// checkOutlines seeds every outline into its own store and verifies each
// store's integrity. The stores share the default allocator, so no
// identifier may appear in more than one of them.
func checkOutlines(ctx context.Context, paths []string) ([]checkResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no outline to check")
	}

	results := make([]checkResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := outline.Load(path)
			if err != nil {
				return err
			}
			s := tree.New()
			n := outline.Seed(s, s.Root(), entries)
			if err := s.Check(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			ids := []model.ID{s.Root()}
			for _, node := range s.Nodes() {
				ids = append(ids, node.ID)
			}
			results[i] = checkResult{Path: path, Items: n, ids: ids}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	owner := make(map[model.ID]string)
	for _, r := range results {
		for _, id := range r.ids {
			if other, dup := owner[id]; dup {
				return nil, fmt.Errorf("identifier %s issued to both %s and %s", id, other, r.Path)
			}
			owner[id] = r.Path
		}
	}
	return results, nil
}

// terminalWidth returns the width of f when it is a terminal, else 0 so
// the renderer default applies.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
