package project

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeOp is the kind of change a Watcher saw.
type ChangeOp int

const (
	// OpConfigChanged means a configuration file was written, created or
	// removed and the root was reloaded.
	OpConfigChanged ChangeOp = iota

	// OpProjectRemoved means the metadata directory itself went away and
	// the state was cleared.
	OpProjectRemoved
)

func (op ChangeOp) String() string {
	switch op {
	case OpConfigChanged:
		return "config changed"
	case OpProjectRemoved:
		return "project removed"
	default:
		return "unknown"
	}
}

// Change is one applied state update.
type Change struct {
	// Path is the file or directory that changed.
	Path string
	Op   ChangeOp

	// Root is the root installed by the change, nil after OpProjectRemoved.
	Root *Root
}

// watchedFiles are reloaded on change. config.local.toml is the engine's
// untracked per-clone override.
var watchedFiles = map[string]bool{
	ConfigFile:          true,
	"config.local.toml": true,
}

// Watcher keeps a State in sync with edits made to the project
// configuration by other processes. A Watcher is single-use: once stopped
// it cannot be started again.
type Watcher struct {
	watcher *fsnotify.Watcher
	state   *State
	changes chan Change
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	stopped bool
	dir     string
}

// NewWatcher returns an idle Watcher for state.
func NewWatcher(state *State) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher: w,
		state:   state,
		changes: make(chan Change, 16),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
	}, nil
}

// Start watches root's metadata directory.
func (w *Watcher) Start(root *Root) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return ErrWatcherStopped
	}
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if root == nil {
		return ErrNotInProject
	}
	if err := w.watcher.Add(root.MetadataPath()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root.MetadataPath(), err)
	}

	w.dir = root.MetadataPath()
	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop ends watching and waits for the event loop to exit. It is safe to
// call on a Watcher that never started.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	if wasRunning {
		close(w.done)
	}
	err := w.watcher.Close()
	w.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Changes reports applied updates. Updates are dropped when the channel
// is full, so readers only see recent activity.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors reports watch and reload failures, dropping them when full.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether Start succeeded and Stop has not been called.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := w.apply(event)
			if !ok {
				continue
			}
			select {
			case w.changes <- change:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// apply updates the state for one event. It only touches the state while
// it still holds the watched project.
func (w *Watcher) apply(event fsnotify.Event) (Change, bool) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return Change{}, false
	}

	var change Change
	switch {
	case filepath.Clean(event.Name) == w.dir && event.Has(fsnotify.Remove|fsnotify.Rename):
		change = Change{Path: event.Name, Op: OpProjectRemoved}
	case filepath.Dir(event.Name) == w.dir && watchedFiles[filepath.Base(event.Name)]:
		change = Change{Path: event.Name, Op: OpConfigChanged}
	default:
		return Change{}, false
	}

	applied := false
	err := w.state.Update(func(current *Root) (*Root, error) {
		if current == nil || current.MetadataPath() != w.dir {
			return current, nil
		}
		applied = true
		if change.Op == OpProjectRemoved {
			return nil, nil
		}
		return current.Refresh()
	})
	if err != nil {
		w.report(fmt.Errorf("reloading %s: %w", event.Name, err))
		return Change{}, false
	}
	if !applied {
		return Change{}, false
	}
	change.Root = w.state.Read()
	return change, true
}

func (w *Watcher) report(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
