// Package project locates xvc projects on disk and holds the per-session
// project root state.
//
// A project is a directory containing an .xvc metadata directory. Find
// walks up from a starting directory the same way git finds .git, so any
// path inside a project resolves to its root.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetadataDir is the name of the directory marking a project root.
const MetadataDir = ".xvc"

// ConfigFile is the project configuration file inside MetadataDir.
const ConfigFile = "config.toml"

// Root describes a located, initialized project. A nil *Root means "not
// inside a project".
type Root struct {
	// Dir is the absolute project root directory.
	Dir string

	// Config is the decoded .xvc/config.toml, with defaults applied.
	Config Config

	// LoadedAt is when Config was last read from disk.
	LoadedAt time.Time
}

// MetadataPath returns the .xvc directory path.
func (r *Root) MetadataPath() string {
	return filepath.Join(r.Dir, MetadataDir)
}

// ConfigPath returns the project configuration file path.
func (r *Root) ConfigPath() string {
	return filepath.Join(r.Dir, MetadataDir, ConfigFile)
}

// Refresh re-reads the project configuration and returns the updated
// root. The receiver is not modified, so snapshots held by other calls
// stay consistent.
func (r *Root) Refresh() (*Root, error) {
	if _, err := os.Stat(r.MetadataPath()); err != nil {
		return nil, fmt.Errorf("project metadata at %s: %w", r.MetadataPath(), ErrNotInProject)
	}
	cfg, err := LoadConfig(r.ConfigPath())
	if err != nil {
		return nil, err
	}
	return &Root{Dir: r.Dir, Config: cfg, LoadedAt: time.Now()}, nil
}

// Find walks up from path until it finds a directory containing .xvc.
// Returns ErrNotInProject when the filesystem root is reached first.
func Find(path string) (*Root, error) {
	if path == "" {
		path = "."
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	current := absPath
	for {
		marker := filepath.Join(current, MetadataDir)
		if info, err := os.Stat(marker); err == nil && info.IsDir() {
			root := &Root{Dir: normalizeDir(current)}
			cfg, err := LoadConfig(root.ConfigPath())
			if err != nil {
				return nil, err
			}
			root.Config = cfg
			root.LoadedAt = time.Now()
			return root, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, ErrNotInProject
		}
		current = parent
	}
}

// Probe is Find for callers that treat "no project" as a valid state: it
// returns nil, nil when no project is found.
func Probe(path string) (*Root, error) {
	root, err := Find(path)
	if err == ErrNotInProject {
		return nil, nil
	}
	return root, err
}

// normalizeDir resolves symlinks so that roots found through different
// paths compare equal.
func normalizeDir(path string) string {
	path = filepath.FromSlash(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path
}
