package xvc

import (
	"context"

	"github.com/xvc-go/xvcgo/internal/args"
)

// File runs "xvc file" sub-commands.
type File struct {
	s *Session
}

func (f *File) run(ctx context.Context, action string, values args.Values, targets []string) (string, error) {
	return f.s.invoke(ctx, []string{"file", action}, "file "+action, values, targets)
}

// TrackOptions are the options of "xvc file track".
type TrackOptions struct {
	// RecheckMethod is how tracked files are linked back from the cache:
	// copy, hardlink, symlink or reflink.
	RecheckMethod string

	// NoCommit records the files without copying them to the cache.
	NoCommit bool

	// TextOrBinary selects how digests are calculated: auto, text or
	// binary.
	TextOrBinary string

	Force      bool
	NoParallel bool
	Help       bool
}

// Track adds targets to the project. No targets tracks everything not
// ignored.
func (f *File) Track(ctx context.Context, targets []string, opts TrackOptions) (string, error) {
	return f.run(ctx, "track", args.Values{
		"help":           opts.Help,
		"recheck-method": opts.RecheckMethod,
		"no-commit":      opts.NoCommit,
		"text-or-binary": opts.TextOrBinary,
		"force":          opts.Force,
		"no-parallel":    opts.NoParallel,
	}, targets)
}

// HashOptions are the options of "xvc file hash".
type HashOptions struct {
	// Algorithm is blake3, blake2s, sha2 or sha3.
	Algorithm    string
	TextOrBinary string
	Help         bool
}

// Hash prints the digests of targets.
func (f *File) Hash(ctx context.Context, targets []string, opts HashOptions) (string, error) {
	return f.run(ctx, "hash", args.Values{
		"help":           opts.Help,
		"algorithm":      opts.Algorithm,
		"text-or-binary": opts.TextOrBinary,
	}, targets)
}

// CarryInOptions are the options of "xvc file carry-in".
type CarryInOptions struct {
	TextOrBinary string
	Force        bool
	NoParallel   bool
	Help         bool
}

// CarryIn copies changed tracked files to the cache.
func (f *File) CarryIn(ctx context.Context, targets []string, opts CarryInOptions) (string, error) {
	return f.run(ctx, "carry-in", args.Values{
		"help":           opts.Help,
		"text-or-binary": opts.TextOrBinary,
		"force":          opts.Force,
		"no-parallel":    opts.NoParallel,
	}, targets)
}

// RecheckOptions are the options of "xvc file recheck".
type RecheckOptions struct {
	RecheckMethod string
	Force         bool
	NoParallel    bool
	Help          bool
}

// Recheck restores targets from the cache.
func (f *File) Recheck(ctx context.Context, targets []string, opts RecheckOptions) (string, error) {
	return f.run(ctx, "recheck", args.Values{
		"help":           opts.Help,
		"recheck-method": opts.RecheckMethod,
		"force":          opts.Force,
		"no-parallel":    opts.NoParallel,
	}, targets)
}

// ListOptions are the options of "xvc file list".
type ListOptions struct {
	// Format is a row template such as "{{name}} {{size}}".
	Format string

	// Sort is one of the engine's sort criteria, e.g. "name-asc".
	Sort string

	NoSummary bool
	Help      bool
}

// List prints tracked and untracked files under targets.
func (f *File) List(ctx context.Context, targets []string, opts ListOptions) (string, error) {
	return f.run(ctx, "list", args.Values{
		"help":       opts.Help,
		"format":     opts.Format,
		"sort":       opts.Sort,
		"no-summary": opts.NoSummary,
	}, targets)
}

// SendOptions are the options of "xvc file send".
type SendOptions struct {
	// Remote is the storage name or guid.
	Remote string
	Force  bool
	Help   bool
}

// Send uploads the cached versions of targets to a storage.
func (f *File) Send(ctx context.Context, targets []string, opts SendOptions) (string, error) {
	return f.run(ctx, "send", args.Values{
		"help":   opts.Help,
		"remote": opts.Remote,
		"force":  opts.Force,
	}, targets)
}

// BringOptions are the options of "xvc file bring".
type BringOptions struct {
	Remote    string
	Force     bool
	NoRecheck bool

	// RecheckAs overrides the recheck method of brought files.
	RecheckAs string

	Help bool
}

// Bring downloads targets from a storage and rechecks them.
func (f *File) Bring(ctx context.Context, targets []string, opts BringOptions) (string, error) {
	return f.run(ctx, "bring", args.Values{
		"help":       opts.Help,
		"remote":     opts.Remote,
		"force":      opts.Force,
		"no-recheck": opts.NoRecheck,
		"recheck-as": opts.RecheckAs,
	}, targets)
}

// CopyOptions are the options of "xvc file copy" and "xvc file move".
type CopyOptions struct {
	RecheckMethod string
	Force         bool
	NoRecheck     bool
	Help          bool
}

func (o CopyOptions) values() args.Values {
	return args.Values{
		"help":           o.Help,
		"recheck-method": o.RecheckMethod,
		"force":          o.Force,
		"no-recheck":     o.NoRecheck,
	}
}

// Copy duplicates a tracked file or directory without copying its cached
// content.
func (f *File) Copy(ctx context.Context, source, destination string, opts CopyOptions) (string, error) {
	return f.run(ctx, "copy", opts.values(), []string{source, destination})
}

// Move renames a tracked file or directory.
func (f *File) Move(ctx context.Context, source, destination string, opts CopyOptions) (string, error) {
	return f.run(ctx, "move", opts.values(), []string{source, destination})
}

// UntrackOptions are the options of "xvc file untrack".
type UntrackOptions struct {
	// RestoreVersions copies every cached version of the targets into this
	// directory before they are removed.
	RestoreVersions string
	Help            bool
}

// Untrack stops tracking targets.
func (f *File) Untrack(ctx context.Context, targets []string, opts UntrackOptions) (string, error) {
	return f.run(ctx, "untrack", args.Values{
		"help":             opts.Help,
		"restore-versions": opts.RestoreVersions,
	}, targets)
}

// RemoveOptions are the options of "xvc file remove".
type RemoveOptions struct {
	Force       bool
	FromCache   bool
	FromStorage string
	AllVersions bool
	OnlyVersion string
	Help        bool
}

// Remove deletes cached or stored content of targets.
func (f *File) Remove(ctx context.Context, targets []string, opts RemoveOptions) (string, error) {
	return f.run(ctx, "remove", args.Values{
		"help":         opts.Help,
		"force":        opts.Force,
		"from-cache":   opts.FromCache,
		"from-storage": opts.FromStorage,
		"all-versions": opts.AllVersions,
		"only-version": opts.OnlyVersion,
	}, targets)
}

// ShareOptions are the options of "xvc file share".
type ShareOptions struct {
	Remote string

	// Duration is how long the link stays valid, e.g. "24h".
	Duration string

	Help bool
}

// Share prints a time-limited URL for target in a storage.
func (f *File) Share(ctx context.Context, target string, opts ShareOptions) (string, error) {
	return f.run(ctx, "share", args.Values{
		"help":     opts.Help,
		"remote":   opts.Remote,
		"duration": opts.Duration,
	}, []string{target})
}
