// This file implements the OutlineWatcher, which reloads the seed outline
// off the UI thread when it changes on disk.

package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/treeview/pkg/outline"
)

// WatchState represents the current state of the outline watcher.
type WatchState int

const (
	// WatchIdle means the watcher is waiting for file changes.
	WatchIdle WatchState = iota
	// WatchProcessing means the watcher is parsing the outline.
	WatchProcessing
	// WatchStopped means the watcher has been stopped.
	WatchStopped
)

// WatchError wraps errors with phase and retry context.
type WatchError struct {
	Phase   string    // "read" or "parse"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Consecutive failures including this one
}

func (e WatchError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WatchError) Unwrap() error {
	return e.Cause
}

// Sender delivers messages to the UI. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// OutlineReloadedMsg is sent when the outline changed and parsed cleanly.
type OutlineReloadedMsg struct {
	Path    string
	Entries []outline.Entry
	Hash    string
}

// OutlineErrorMsg is sent when the changed outline could not be loaded.
type OutlineErrorMsg struct {
	Err         error
	Recoverable bool // True if we expect to recover on next file change
}

// OutlineWatcher watches an outline file and sends parsed contents to the
// UI whenever they change.
type OutlineWatcher struct {
	// Configuration
	path          string
	debounceDelay time.Duration

	// State
	mu         sync.RWMutex
	state      WatchState
	dirty      bool // True if a change came in while processing
	started    bool
	lastHash   string
	lastError  *WatchError
	errorCount int
	timer      *time.Timer
	seq        uint64

	// Components
	watcher *fsnotify.Watcher
	sender  Sender

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WatchConfig configures the OutlineWatcher.
type WatchConfig struct {
	Path          string
	DebounceDelay time.Duration
	Sender        Sender
}

// NewOutlineWatcher creates a watcher for cfg.Path. The current contents
// count as already loaded, so an unchanged file never triggers a reload.
func NewOutlineWatcher(cfg WatchConfig) (*OutlineWatcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("outline watcher: no path")
	}
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = 200 * time.Millisecond
	}

	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("outline watcher: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &OutlineWatcher{
		path:          path,
		debounceDelay: cfg.DebounceDelay,
		sender:        cfg.Sender,
		state:         WatchIdle,
		watcher:       fw,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	if data, err := os.ReadFile(path); err == nil {
		w.lastHash = contentHash(data)
	}
	return w, nil
}

// SetSender sets the message destination. Used when the program is created
// after the watcher.
func (w *OutlineWatcher) SetSender(s Sender) {
	w.mu.Lock()
	w.sender = s
	w.mu.Unlock()
}

// Start begins watching. Editors often replace files instead of writing
// them, so the containing directory is watched and events are filtered.
// Start is idempotent.
func (w *OutlineWatcher) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		close(w.done)
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	go w.watchLoop()
	return nil
}

// Stop halts the watcher. Stop is idempotent.
func (w *OutlineWatcher) Stop() {
	w.mu.Lock()
	if w.state == WatchStopped {
		w.mu.Unlock()
		return
	}
	w.state = WatchStopped
	wasStarted := w.started
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	w.cancel()
	w.watcher.Close()

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
			// Timeout waiting for graceful shutdown
		}
	}
}

// Refresh reloads the outline now, bypassing the debounce. Unchanged
// content is still skipped. Has no effect once stopped.
func (w *OutlineWatcher) Refresh() {
	go w.process()
}

// State returns the current watcher state.
func (w *OutlineWatcher) State() WatchState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// LastError returns the most recent error (nil if the last load succeeded).
func (w *OutlineWatcher) LastError() *WatchError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// LastHash returns the content hash of the last loaded outline.
func (w *OutlineWatcher) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// watchLoop filters file system events and schedules reloads.
func (w *OutlineWatcher) watchLoop() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Only reload on content changes (not chmod, etc)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("warning: outline watcher: %v", err)
		}
	}
}

// trigger schedules process after the debounce delay. Only the most recent
// schedule runs.
func (w *OutlineWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == WatchStopped {
		return
	}
	w.seq++
	seq := w.seq
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		current := seq == w.seq
		if current {
			w.timer = nil
		}
		w.mu.Unlock()
		if current {
			w.process()
		}
	})
}

// process reads and parses the outline and notifies the UI.
func (w *OutlineWatcher) process() {
	w.mu.Lock()
	if w.state != WatchIdle {
		if w.state == WatchProcessing {
			// Mark dirty so the current run repeats when done
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WatchProcessing
	w.dirty = false
	w.mu.Unlock()

	msg := w.load()

	w.mu.Lock()
	if w.state == WatchStopped {
		w.mu.Unlock()
		return
	}
	wasDirty := w.dirty
	w.state = WatchIdle
	sender := w.sender
	w.mu.Unlock()

	if sender != nil && msg != nil {
		sender.Send(msg)
	}
	if wasDirty {
		go w.process()
	}
}

// load returns the message to send, or nil when the content is unchanged.
func (w *OutlineWatcher) load() tea.Msg {
	start := time.Now()

	data, err := os.ReadFile(w.path)
	if err != nil {
		werr := w.recordError("read", err)
		log.Printf("warning: reading outline %s: %v", w.path, werr)
		return OutlineErrorMsg{Err: werr, Recoverable: true}
	}

	hash := contentHash(data)
	if hash == w.LastHash() {
		w.recordError("", nil)
		return nil
	}

	var entries []outline.Entry
	if werr := w.safeParse(data, &entries); werr != nil {
		log.Printf("warning: parsing outline %s: %v", w.path, werr)
		return OutlineErrorMsg{Err: werr, Recoverable: true}
	}

	w.recordError("", nil)
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	log.Printf("outline reloaded: %d items from %s (%v, hash=%s)",
		outline.Count(entries), w.path, time.Since(start), hashPrefix(hash))
	return OutlineReloadedMsg{Path: w.path, Entries: entries, Hash: hash}
}

// safeParse parses data and recovers from any panic in the parser.
func (w *OutlineWatcher) safeParse(data []byte, out *[]outline.Entry) (werr *WatchError) {
	defer func() {
		if r := recover(); r != nil {
			werr = w.recordError("parse", fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()
	entries, err := outline.Parse(w.path, data)
	if err != nil {
		return w.recordError("parse", err)
	}
	*out = entries
	return nil
}

// recordError tracks an error; a nil cause clears the error state.
func (w *OutlineWatcher) recordError(phase string, cause error) *WatchError {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cause == nil {
		w.lastError = nil
		w.errorCount = 0
		return nil
	}
	w.errorCount++
	w.lastError = &WatchError{Phase: phase, Cause: cause, Time: time.Now(), Retries: w.errorCount}
	return w.lastError
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashPrefix returns a safe prefix of the hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
