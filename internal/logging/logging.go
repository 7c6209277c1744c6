// Package logging builds the binding's internal slog loggers.
//
// Engine output goes to the caller through the output channel; this
// package is for the binding's own diagnostics. The handler level follows
// the session verbosity, and debug sessions additionally write every
// record, down to TRACE, to a size-rotated file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/xvc-go/xvcgo/internal/output"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// Options configures New.
type Options struct {
	// Level is the session verbosity.
	Level output.Level

	// Writer receives records at Level. Nil means os.Stderr.
	Writer io.Writer

	// DebugFile, when set, receives every record down to TRACE.
	DebugFile string

	// MaxSizeMB and MaxBackups bound the rotated debug files.
	MaxSizeMB  int
	MaxBackups int
}

// SlogLevel maps a session verbosity to the minimum slog level.
func SlogLevel(l output.Level) slog.Level {
	switch l {
	case output.LevelWarn:
		return slog.LevelWarn
	case output.LevelInfo:
		return slog.LevelInfo
	case output.LevelDebug:
		return slog.LevelDebug
	case output.LevelTrace:
		return LevelTrace
	default:
		return slog.LevelError
	}
}

// New returns a logger for opts. The returned closer flushes and closes
// the debug file, if any.
func New(opts Options) (*slog.Logger, io.Closer) {
	var handlers []slog.Handler

	if opts.Level != output.LevelQuiet {
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       SlogLevel(opts.Level),
			ReplaceAttr: replaceLevel,
		}))
	}

	var closer io.Closer = nopCloser{}
	if opts.DebugFile != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		backups := opts.MaxBackups
		if backups <= 0 {
			backups = 3
		}
		lj := &lumberjack.Logger{
			Filename:   opts.DebugFile,
			MaxSize:    maxSize,
			MaxBackups: backups,
		}
		closer = lj
		handlers = append(handlers, slog.NewJSONHandler(lj, &slog.HandlerOptions{
			Level:       LevelTrace,
			AddSource:   true,
			ReplaceAttr: replaceLevel,
		}))
	}

	switch len(handlers) {
	case 0:
		return Discard(), closer
	case 1:
		return slog.New(handlers[0]), closer
	default:
		return slog.New(fanout(handlers)), closer
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Trace logs at LevelTrace.
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// DefaultDebugFile is $XDG_CACHE_HOME/xvcgo/debug.log, or the user cache
// directory equivalent.
func DefaultDebugFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "xvcgo", "debug.log")
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
