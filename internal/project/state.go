package project

import "sync"

// State is the session-owned project root container. Any number of
// readers may take snapshots concurrently; Replace and Update are
// exclusive.
type State struct {
	mu   sync.RWMutex
	root *Root
}

// NewState returns a State holding root, which may be nil.
func NewState(root *Root) *State {
	return &State{root: root}
}

// NewStateFromDir probes dir for a project. Not finding one is not an
// error; the state simply starts empty.
func NewStateFromDir(dir string) (*State, error) {
	root, err := Probe(dir)
	if err != nil {
		return nil, err
	}
	return NewState(root), nil
}

// Read returns the current root snapshot.
func (s *State) Read() *Root {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// InProject reports whether a root is present.
func (s *State) InProject() bool {
	return s.Read() != nil
}

// Replace installs root.
func (s *State) Replace(root *Root) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

// Update holds the write lock while fn runs and installs its result. The
// current root is kept when fn returns an error.
func (s *State) Update(fn func(current *Root) (*Root, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.root)
	if err != nil {
		return err
	}
	s.root = next
	return nil
}
