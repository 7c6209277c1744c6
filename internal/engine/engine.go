// Package engine executes parsed commands with the xvc engine.
//
// Binary runs the installed xvc executable. Git automation is never left
// to the engine: the dispatcher performs it, so every engine run gets
// --skip-git and never sees --from-ref or --to-branch.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/xvc-go/xvcgo/internal/cli"
	"github.com/xvc-go/xvcgo/internal/logging"
	"github.com/xvc-go/xvcgo/internal/output"
	"github.com/xvc-go/xvcgo/internal/project"
)

// DefaultBinary is the executable looked up in PATH.
const DefaultBinary = "xvc"

// Executor runs one parsed command against the current project root and
// returns the root to install afterwards.
type Executor interface {
	Execute(ctx context.Context, cmd *cli.Command, root *project.Root, sink output.Sink) (*project.Root, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, cmd *cli.Command, root *project.Root, sink output.Sink) (*project.Root, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, cmd *cli.Command, root *project.Root, sink output.Sink) (*project.Root, error) {
	return f(ctx, cmd, root, sink)
}

// Binary runs the xvc executable.
type Binary struct {
	path    string
	timeout time.Duration
	env     []string
	logger  *slog.Logger
}

// Option configures a Binary.
type Option func(*Binary)

// WithPath sets the executable. A bare name is looked up in PATH.
func WithPath(path string) Option {
	return func(b *Binary) {
		if path != "" {
			b.path = path
		}
	}
}

// WithTimeout bounds each run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(b *Binary) {
		b.timeout = d
	}
}

// WithEnv appends KEY=VALUE pairs to the engine's environment.
func WithEnv(env ...string) Option {
	return func(b *Binary) {
		b.env = append(b.env, env...)
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binary) {
		b.logger = l
	}
}

// NewBinary returns a Binary running DefaultBinary unless configured
// otherwise.
func NewBinary(opts ...Option) *Binary {
	b := &Binary{path: DefaultBinary}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.OrDiscard(b.logger)
	return b
}

// Path returns the configured executable.
func (b *Binary) Path() string {
	return b.path
}

// Execute runs cmd and streams its output into sink. Init returns the
// newly created root; every other command returns root unchanged. On
// failure the input root is returned alongside the error.
func (b *Binary) Execute(ctx context.Context, cmd *cli.Command, root *project.Root, sink output.Sink) (*project.Root, error) {
	workDir, err := workDirFor(cmd)
	if err != nil {
		return root, err
	}
	argv := engineArgv(cmd, workDir)

	b.logger.Debug("running engine", "command", cmd.Name(), "dir", workDir)
	logging.Trace(b.logger, "engine argv", "argv", argv)

	if err := b.run(ctx, argv, sink); err != nil {
		return root, err
	}

	if cmd.Kind != cli.KindInit {
		return root, nil
	}
	target := workDir
	if p, ok := cmd.Lookup("path"); ok && p != "" {
		if filepath.IsAbs(p) {
			target = p
		} else {
			target = filepath.Join(workDir, p)
		}
	}
	created, err := project.Find(target)
	if err != nil {
		return root, fmt.Errorf("locating initialized project: %w", err)
	}
	return created, nil
}

// run starts the engine in the caller's directory; argv carries -C.
func (b *Binary) run(ctx context.Context, argv []string, sink output.Sink) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, b.path, argv...)
	if len(b.env) > 0 {
		c.Env = append(c.Environ(), b.env...)
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return err
	}

	if err := c.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, exec.ErrDot) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrEngineNotAvailable, b.path)
		}
		return err
	}

	var wg conc.WaitGroup
	wg.Go(func() { forwardStdout(stdout, sink) })
	wg.Go(func() { forwardStderr(stderr, sink) })
	wg.Wait()

	err = c.Wait()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w after %s", ErrTimeout, b.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: commandName(argv), Code: exitErr.ExitCode()}
		}
		return err
	}
	return nil
}

// engineArgv rebuilds the command line the engine receives. The engine
// finds the project root from workDir on its own, so relative targets stay
// relative to the session directory.
func engineArgv(cmd *cli.Command, workDir string) []string {
	g := cmd.Global
	g.SkipGit = true
	g.FromRef = ""
	g.ToBranch = ""
	g.Workdir = workDir
	return append(g.Tokens(), cmd.SubcommandTokens()...)
}

// workDirFor returns the session directory as an absolute path.
func workDirFor(cmd *cli.Command) (string, error) {
	dir := cmd.Global.Workdir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving working directory %s: %w", dir, err)
	}
	return abs, nil
}

// commandName returns the first non-option token of argv.
func commandName(argv []string) string {
	skipValue := false
	for _, a := range argv {
		if skipValue {
			skipValue = false
			continue
		}
		switch {
		case a == "-C" || a == "--config" || a == "--from-ref" || a == "--to-branch":
			skipValue = true
		case strings.HasPrefix(a, "-"):
		default:
			return a
		}
	}
	return ""
}

// forwardStdout sends stdout as Output lines. Lines after the first carry
// their leading newline so the collected text keeps its line structure.
func forwardStdout(r io.Reader, sink output.Sink) {
	first := true
	scan(r, func(line string) {
		if first {
			first = false
			output.Outputf(sink, "%s", line)
			return
		}
		output.Outputf(sink, "\n%s", line)
	})
}

// forwardStderr maps "[LEVEL] message" lines to their severity. Untagged
// lines are informational.
func forwardStderr(r io.Reader, sink output.Sink) {
	scan(r, func(line string) {
		if sink == nil {
			return
		}
		sev, body, ok := output.SplitTag(line)
		if !ok {
			sev = output.SeverityInfo
		}
		sink.Send(output.Line{Severity: sev, Body: body + "\n"})
	})
}

func scan(r io.Reader, fn func(string)) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for s.Scan() {
		fn(s.Text())
	}
	// drain whatever the scanner refused so the process never blocks on a
	// full pipe
	_, _ = io.Copy(io.Discard, r)
}
