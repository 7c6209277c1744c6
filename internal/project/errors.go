package project

import "errors"

var (
	// ErrNotInProject is returned by Find when no .xvc directory exists at
	// or above the starting path.
	ErrNotInProject = errors.New("not inside an xvc project")

	// ErrRequiresProject is reported when a command that needs a project
	// root runs without one.
	ErrRequiresProject = errors.New("this command requires to run in an xvc repository; run xvc init first")

	// ErrWatcherStopped is returned by Watcher.Start after Stop.
	ErrWatcherStopped = errors.New("watcher stopped")
)
