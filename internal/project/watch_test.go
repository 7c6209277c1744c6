package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T) (*Watcher, *State, *Root) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, MetadataDir), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	root, err := Find(dir)
	if err != nil {
		t.Fatalf("Find() failed: %v", err)
	}
	state := NewState(root)

	w, err := NewWatcher(state)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	if err := w.Start(root); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return w, state, root
}

func waitChange(t *testing.T, w *Watcher, op ChangeOp) Change {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c := <-w.Changes():
			if c.Op == op {
				return c
			}
		case err := <-w.Errors():
			t.Logf("watcher error: %v", err)
		case <-timeout:
			t.Fatalf("no %s change within timeout", op)
		}
	}
}

func TestWatcherReloadsConfig(t *testing.T) {
	w, state, root := startWatcher(t)

	if err := os.WriteFile(root.ConfigPath(), []byte("[core]\nguid = \"abc123\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		waitChange(t, w, OpConfigChanged)
		if state.Read().Config.Core.GUID == "abc123" {
			return
		}
	}
	t.Fatalf("GUID = %q after config write, want abc123", state.Read().Config.Core.GUID)
}

func TestWatcherClearsRemovedProject(t *testing.T) {
	w, state, root := startWatcher(t)

	if err := os.RemoveAll(root.MetadataPath()); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	c := waitChange(t, w, OpProjectRemoved)
	if c.Root != nil || state.InProject() {
		t.Errorf("state still holds a root after removal: %+v", state.Read())
	}
}

func TestWatcherIgnoresOtherProjects(t *testing.T) {
	w, state, root := startWatcher(t)

	other := &Root{Dir: t.TempDir()}
	state.Replace(other)

	if err := os.WriteFile(root.ConfigPath(), []byte("[core]\nguid = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	select {
	case c := <-w.Changes():
		t.Errorf("unexpected change %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
	if state.Read() != other {
		t.Error("watcher replaced a root it does not watch")
	}
}

func TestWatcherStartStop(t *testing.T) {
	w, _, root := startWatcher(t)
	if !w.IsRunning() {
		t.Fatal("watcher not running after Start()")
	}
	if err := w.Start(root); err == nil {
		t.Error("second Start() succeeded")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if w.IsRunning() {
		t.Error("watcher running after Stop()")
	}
	if err := w.Start(root); !errors.Is(err, ErrWatcherStopped) {
		t.Errorf("Start() after Stop() error = %v, want ErrWatcherStopped", err)
	}
}

func TestWatcherStartWithoutProject(t *testing.T) {
	w, err := NewWatcher(NewState(nil))
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()
	if err := w.Start(nil); !errors.Is(err, ErrNotInProject) {
		t.Errorf("Start(nil) error = %v, want ErrNotInProject", err)
	}
}
