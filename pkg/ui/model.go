package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/outline"
	"github.com/vanderheijden86/treeview/pkg/selection"
)

// maxRedraws bounds the frames drawn for one update. A committed selection
// needs one extra frame to show its highlight.
const maxRedraws = 3

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptSearch
)

// ModelOptions configures a TreeModel.
type ModelOptions struct {
	Theme            Theme
	Keys             KeyMap
	ShowIDs          bool
	DefaultCollapsed bool
	// StateDir holds tree-state.json; empty disables persistence.
	StateDir string
	// Clipboard receives copied labels; defaults to the system clipboard.
	Clipboard func(string) error
}

// TreeModel is the bubbletea front end of a TreeView.
type TreeModel struct {
	view     *TreeView
	term     *TermRenderer
	viewport viewport.Model
	keys     KeyMap
	theme    Theme
	width    int
	height   int

	prompt     PromptModel
	promptKind promptKind
	showHelp   bool

	// Search state
	matches    []model.ID
	matchIndex int

	status     string
	statusErr  bool
	stateDir   string
	stateDirty bool // Expand state changed; saved after the next frame
	clipboard  func(string) error

	listener selection.Listener // Caller's listener, run after ours
}

// NewTreeModel wraps view. The model installs its own selection listener;
// use OnSelect to observe selections.
func NewTreeModel(view *TreeView, opts ModelOptions) *TreeModel {
	if opts.Theme.Renderer == nil {
		log.Printf("warning: tree model created without a theme renderer")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if len(opts.Keys.Quit.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}

	term := NewTermRenderer(opts.Theme)
	term.SetShowIDs(opts.ShowIDs)
	term.SetDefaultCollapsed(opts.DefaultCollapsed)

	m := &TreeModel{
		view:      view,
		term:      term,
		viewport:  viewport.New(80, 20),
		keys:      opts.Keys,
		theme:     opts.Theme,
		stateDir:  opts.StateDir,
		clipboard: opts.Clipboard,
	}
	view.SetOnSelectionChanged(m.onSelectionChanged)
	if m.stateDir != "" {
		applyState(view.Store(), term, loadState(m.stateDir))
	}
	m.frame()
	return m
}

// OnSelect registers a listener called after the model has handled a
// selection change.
func (m *TreeModel) OnSelect(fn selection.Listener) {
	m.listener = fn
}

func (m *TreeModel) onSelectionChanged(label string, id model.ID) {
	m.setStatus(fmt.Sprintf("selected %s", label), false)
	if m.listener != nil {
		m.listener(label, id)
	}
}

// Init implements tea.Model
func (m *TreeModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the available dimensions. One line is kept for the
// status bar.
func (m *TreeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)
	m.term.SetWidth(width)
	m.prompt.SetSize(width, height)
	m.frame()
}

// Update implements tea.Model
func (m *TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case OutlineReloadedMsg:
		m.Reload(msg.Entries)
		m.setStatus(fmt.Sprintf("reloaded %d items", outline.Count(msg.Entries)), false)

	case OutlineErrorMsg:
		m.setStatus(fmt.Sprintf("outline error: %v", msg.Err), true)

	case tea.KeyMsg:
		if m.showHelp {
			// Any key closes the help overlay
			m.showHelp = false
			break
		}
		if m.promptKind != promptNone {
			cmd = m.updatePrompt(msg)
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			m.saveState()
			return m, tea.Quit
		}
		m.handleKey(msg)
	}

	m.frame()
	if m.stateDirty {
		m.saveState()
		m.stateDirty = false
	}
	return m, cmd
}

func (m *TreeModel) handleKey(msg tea.KeyMsg) {
	s := m.view.Store()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.term.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.term.MoveDown()
	case key.Matches(msg, m.keys.Top):
		m.term.JumpToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.term.JumpToBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.term.PageUp(m.viewport.Height / 2)
	case key.Matches(msg, m.keys.PageDown):
		m.term.PageDown(m.viewport.Height / 2)
	case key.Matches(msg, m.keys.Select):
		m.term.Activate()
		m.stateDirty = !s.IsLeaf(m.term.CursorID())
	case key.Matches(msg, m.keys.Toggle):
		m.term.Toggle()
		m.stateDirty = true
	case key.Matches(msg, m.keys.Left):
		m.collapseOrJumpToParent()
	case key.Matches(msg, m.keys.Right):
		m.expandOrMoveToChild()
	case key.Matches(msg, m.keys.Add):
		m.openPrompt(promptAdd, "Add item", "label")
	case key.Matches(msg, m.keys.Delete):
		m.deleteCursor()
	case key.Matches(msg, m.keys.Search):
		m.openPrompt(promptSearch, "Search", "fuzzy label match")
	case key.Matches(msg, m.keys.Next):
		m.nextMatch()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
}

// collapseOrJumpToParent handles the ← / h key:
// - If node has children and is expanded: collapse it
// - Otherwise: jump to parent
func (m *TreeModel) collapseOrJumpToParent() {
	id := m.term.CursorID()
	s := m.view.Store()
	if !s.IsLeaf(id) && m.term.IsOpen(id) {
		m.term.SetExpanded(id, false)
		m.stateDirty = true
		return
	}
	if parent, ok := s.Parent(id); ok && parent != s.Root() {
		m.term.Focus(parent)
	}
}

// expandOrMoveToChild handles the → / l key:
// - If node has children and is collapsed: expand it
// - If node has children and is expanded: move to first child
// - If node is a leaf: do nothing
func (m *TreeModel) expandOrMoveToChild() {
	id := m.term.CursorID()
	children := m.view.Children(id)
	if len(children) == 0 {
		return
	}
	if !m.term.IsOpen(id) {
		m.term.SetExpanded(id, true)
		m.stateDirty = true
		return
	}
	m.term.Focus(children[0])
}

func (m *TreeModel) openPrompt(kind promptKind, title, placeholder string) {
	m.prompt = NewPromptModel(title, placeholder, m.theme)
	m.prompt.SetSize(m.width, m.height)
	m.promptKind = kind
}

func (m *TreeModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if !m.prompt.Done() {
		return cmd
	}

	kind := m.promptKind
	m.promptKind = promptNone
	if !m.prompt.Submitted() {
		return nil
	}
	switch kind {
	case promptAdd:
		m.AddChild(m.prompt.Value())
	case promptSearch:
		m.Search(m.prompt.Value())
	}
	return nil
}

// AddChild inserts label under the cursor item, or at the top level when
// the tree is empty, and moves the cursor to it.
func (m *TreeModel) AddChild(label string) model.ID {
	parent := m.term.CursorID()
	if !parent.Valid() {
		parent = m.view.Root()
	}
	id := m.view.Insert(parent, label)
	if parent != m.view.Root() {
		m.term.SetExpanded(parent, true)
	}
	m.term.Focus(id)
	m.setStatus(fmt.Sprintf("added %s", label), false)
	return id
}

func (m *TreeModel) deleteCursor() {
	id := m.term.CursorID()
	label, ok := m.view.Store().Label(id)
	if !ok {
		return
	}
	m.view.Remove(id)
	m.term.Forget(m.view.Store().Contains)
	m.setStatus(fmt.Sprintf("deleted %s", label), false)
}

// Search moves the cursor to the best fuzzy match for query, expanding its
// ancestors. Further matches are reached with the Next key.
func (m *TreeModel) Search(query string) bool {
	nodes := m.view.Store().Nodes()
	labels := make([]string, len(nodes))
	for i, n := range nodes {
		labels[i] = n.Label
	}

	found := fuzzy.Find(query, labels)
	m.matches = m.matches[:0]
	for _, match := range found {
		m.matches = append(m.matches, nodes[match.Index].ID)
	}
	m.matchIndex = 0
	if len(m.matches) == 0 {
		m.setStatus(fmt.Sprintf("no match for %q", query), true)
		return false
	}
	m.reveal(m.matches[0])
	m.setStatus(fmt.Sprintf("match 1/%d", len(m.matches)), false)
	return true
}

func (m *TreeModel) nextMatch() {
	if len(m.matches) == 0 {
		return
	}
	s := m.view.Store()
	for range m.matches {
		m.matchIndex = (m.matchIndex + 1) % len(m.matches)
		if id := m.matches[m.matchIndex]; s.Contains(id) {
			m.reveal(id)
			m.setStatus(fmt.Sprintf("match %d/%d", m.matchIndex+1, len(m.matches)), false)
			return
		}
	}
}

func (m *TreeModel) reveal(id model.ID) {
	for _, a := range m.view.Store().Ancestors(id) {
		m.term.SetExpanded(a, true)
	}
	m.term.Focus(id)
}

func (m *TreeModel) copySelected() {
	id := m.view.Selected()
	label, ok := m.view.Store().Label(id)
	if !ok || id == m.view.Root() {
		m.setStatus("nothing selected", true)
		return
	}
	if err := m.clipboard(label); err != nil {
		log.Printf("warning: clipboard: %v", err)
		m.setStatus(fmt.Sprintf("copy failed: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("copied %s", label), false)
}

// Reload replaces the tree with entries, keeping expand state for items
// whose label path survives.
func (m *TreeModel) Reload(entries []outline.Entry) {
	s := m.view.Store()
	state := captureState(s, m.term)
	m.view.Clear()
	outline.Seed(s, s.Root(), entries)
	m.term.Forget(s.Contains)
	applyState(s, m.term, state)
	m.matches = m.matches[:0]
}

func (m *TreeModel) saveState() {
	if m.stateDir == "" {
		return
	}
	saveState(m.stateDir, captureState(m.view.Store(), m.term))
}

func (m *TreeModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// frame draws the tree, repeating while the control asks for a redraw,
// and scrolls the viewport to keep the cursor visible.
func (m *TreeModel) frame() {
	for i := 0; i < maxRedraws; i++ {
		m.term.BeginFrame()
		result := m.view.Draw(m.term)
		m.term.EndFrame()
		if result != DrawRedraw {
			break
		}
	}

	start, _ := m.term.visibleRange(m.viewport.YOffset, m.viewport.Height)
	m.viewport.SetContent(strings.Join(m.term.Lines(), "\n"))
	m.viewport.SetYOffset(start)
}

// View implements tea.Model
func (m *TreeModel) View() string {
	if m.showHelp {
		return RenderHelp(m.keys, m.theme, m.width, m.height)
	}
	if m.promptKind != promptNone {
		return m.prompt.View()
	}

	var body string
	if m.term.RowCount() == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.viewport.View()
	}

	statusStyle := m.theme.Status
	if m.statusErr {
		statusStyle = statusStyle.Foreground(m.theme.Danger)
	}
	status := m.status
	if status == "" {
		status = m.keys.ShortHelp()
	}
	return body + "\n" + statusStyle.Render(status)
}

// renderEmptyState renders the view when there are no items.
func (m *TreeModel) renderEmptyState() string {
	r := m.theme.Renderer
	titleStyle := r.NewStyle().Foreground(m.theme.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(m.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Tree View"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("No items to display."))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("Press a to add an item, or start with --outline <file>."))
	return sb.String()
}

// Status returns the status line text.
func (m *TreeModel) Status() string { return m.status }

// Renderer returns the terminal renderer, for inspection.
func (m *TreeModel) Renderer() *TermRenderer { return m.term }

// TreeView returns the tree control.
func (m *TreeModel) TreeView() *TreeView { return m.view }

// ShowingHelp reports whether the help overlay is open.
func (m *TreeModel) ShowingHelp() bool { return m.showHelp }

// Prompting reports whether a text prompt is open.
func (m *TreeModel) Prompting() bool { return m.promptKind != promptNone }
