package xvc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xvc-go/xvcgo/internal/args"
	"github.com/xvc-go/xvcgo/internal/dispatch"
	"github.com/xvc-go/xvcgo/internal/engine"
	"github.com/xvc-go/xvcgo/internal/gitops"
	"github.com/xvc-go/xvcgo/internal/logging"
	"github.com/xvc-go/xvcgo/internal/output"
	"github.com/xvc-go/xvcgo/internal/project"
)

// Session runs commands with one set of global options against one
// project root. The root is found when the session is created and
// replaced when Init succeeds; commands may run from several goroutines.
type Session struct {
	cfg        Config
	state      *project.State
	dispatcher *dispatch.Dispatcher
	binary     *engine.Binary
	logger     *slog.Logger
	closer     io.Closer

	// watcher is nil unless WithConfigWatch was given.
	watcher *project.Watcher
}

// New returns a Session for cfg. It looks for a project in cfg.Workdir
// (or the working directory) and its parents; not finding one is fine
// for Init and Aliases and reported by every other command.
func New(cfg Config, opts ...Option) (*Session, error) {
	var st settings
	for _, opt := range opts {
		opt(&st)
	}

	logger, closer := st.newLogger(cfg)

	dir := cfg.Workdir
	if dir == "" {
		dir = "."
	}
	state, err := project.NewStateFromDir(dir)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("looking for an xvc project in %s: %w", dir, err)
	}

	binary := engine.NewBinary(
		engine.WithPath(st.enginePath),
		engine.WithTimeout(st.engineTimeout),
		engine.WithEnv(st.engineEnv...),
		engine.WithLogger(logger),
	)
	if st.minVersion != "" {
		v, err := binary.CheckVersion(context.Background(), st.minVersion)
		if err != nil {
			_ = closer.Close()
			return nil, err
		}
		logger.Debug("engine version ok", "version", v, "minimum", st.minVersion)
	}

	var executor engine.Executor = binary
	if st.executor != nil {
		executor = st.executor
	}

	var automation dispatch.Automation
	switch {
	case st.noAutomation:
	case st.automation != nil:
		automation = st.automation
	default:
		automation = gitops.New(logger)
	}

	s := &Session{
		cfg:   cfg,
		state: state,
		dispatcher: dispatch.New(dispatch.Config{
			Executor:   executor,
			Automation: automation,
			Policy:     st.policy,
			Bound:      st.bound,
			Logger:     logger,
		}),
		binary: binary,
		logger: logger,
		closer: closer,
	}
	if root := state.Read(); root != nil {
		logger.Debug("session opened in project", "root", root.Dir)
	} else {
		logger.Debug("session opened outside a project", "dir", dir)
	}

	if st.watch {
		if s.watcher, err = project.NewWatcher(state); err != nil {
			_ = closer.Close()
			return nil, err
		}
		s.watch()
	}
	return s, nil
}

// watch starts the config watcher once the session has a root.
func (s *Session) watch() {
	root := s.state.Read()
	if s.watcher == nil || root == nil || s.watcher.IsRunning() {
		return
	}
	if err := s.watcher.Start(root); err != nil {
		s.logger.Warn("config watch not started", "error", err)
	}
}

func (st *settings) newLogger(cfg Config) (*slog.Logger, io.Closer) {
	if st.logger != nil {
		return st.logger, nopCloser{}
	}
	opts := logging.Options{
		Level:      output.LevelFromFlags(cfg.Quiet, cfg.Verbosity),
		Writer:     st.logWriter,
		MaxSizeMB:  st.maxSizeMB,
		MaxBackups: st.maxBackups,
	}
	if cfg.Debug {
		opts.DebugFile = st.debugFile
		if opts.DebugFile == "" {
			opts.DebugFile = logging.DefaultDebugFile()
		}
	}
	return logging.New(opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Close stops the config watcher and releases the debug log file.
func (s *Session) Close() error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Debug("stopping config watch", "error", err)
		}
	}
	return s.closer.Close()
}

// Config returns the session's global options.
func (s *Session) Config() Config {
	return s.cfg
}

// InProject reports whether the session currently has a project root.
func (s *Session) InProject() bool {
	return s.state.InProject()
}

// ProjectDir returns the project root directory, or "" outside a project.
func (s *Session) ProjectDir() string {
	if root := s.state.Read(); root != nil {
		return root.Dir
	}
	return ""
}

// Dispatch runs a full command line, program name first, and returns the
// classified result. The error is non-nil only for git automation failures
// under FailOnAutomationError.
func (s *Session) Dispatch(ctx context.Context, tokens []string) (Result, error) {
	return s.dispatcher.Dispatch(ctx, s.state, tokens)
}

// Exec runs the sub-command named by command ("file track", "storage new
// s3") with loosely typed options. Unknown option names are ignored; a
// value of the wrong type fails before anything runs.
func (s *Session) Exec(ctx context.Context, command string, values Values, targets ...string) (string, error) {
	path := strings.Fields(command)
	return s.invoke(ctx, path, joinPath(path), values, targets)
}

// invoke runs the command line built by commandLine.
func (s *Session) invoke(ctx context.Context, path []string, name string, values args.Values, targets []string) (string, error) {
	tokens, err := s.commandLine(path, name, values, targets)
	if err != nil {
		return "", err
	}
	return s.text(s.Dispatch(ctx, tokens))
}

// commandLine translates values with the table registered under name and
// returns the session prefix, path, flags and targets.
func (s *Session) commandLine(path []string, name string, values args.Values, targets []string) ([]string, error) {
	// unknown commands have no table; the parser reports them
	flags, err := args.Translate(values, tables[name], targets...)
	if err != nil {
		return nil, fmt.Errorf("xvc %s: %w", name, err)
	}

	tokens := s.cfg.Tokens()
	tokens = append(tokens, path...)
	return append(tokens, flags...), nil
}

func (s *Session) text(res Result, err error) (string, error) {
	if res.Outcome != OutcomeOK {
		s.logger.Debug("command did not succeed", "outcome", res.Outcome.String(), "error", res.Err)
	}
	return res.Output, err
}

// InitOptions are the options of "xvc init".
type InitOptions struct {
	// Path is the directory to initialize. Empty means the session's
	// working directory.
	Path string

	// NoGit allows initializing outside a git repository.
	NoGit bool

	// Force reinitializes an existing project.
	Force bool

	Help bool
}

// Init creates a project and makes it the session's root.
func (s *Session) Init(ctx context.Context, opts InitOptions) (string, error) {
	out, err := s.invoke(ctx, []string{"init"}, "init", args.Values{
		"help":   opts.Help,
		"path":   opts.Path,
		"no-git": opts.NoGit,
		"force":  opts.Force,
	}, nil)
	s.watch()
	return out, err
}

// Root prints the project root directory, relative unless absolute.
func (s *Session) Root(ctx context.Context, absolute bool) (string, error) {
	return s.invoke(ctx, []string{"root"}, "root", args.Values{"absolute": absolute}, nil)
}

// CheckIgnoreOptions are the options of "xvc check-ignore".
type CheckIgnoreOptions struct {
	// Details shows the matching pattern with each path.
	Details bool

	// IgnoreFilename reads rules from this file instead of .xvcignore.
	IgnoreFilename string

	// NonMatching also lists targets no pattern matches.
	NonMatching bool

	Help bool
}

// CheckIgnore reports which targets the project's ignore rules exclude.
func (s *Session) CheckIgnore(ctx context.Context, targets []string, opts CheckIgnoreOptions) (string, error) {
	return s.invoke(ctx, []string{"check-ignore"}, "check-ignore", args.Values{
		"help":            opts.Help,
		"details":         opts.Details,
		"ignore-filename": opts.IgnoreFilename,
		"non-matching":    opts.NonMatching,
	}, targets)
}

// Aliases prints shell aliases for xvc commands. It needs no project.
func (s *Session) Aliases(ctx context.Context) (string, error) {
	return s.invoke(ctx, []string{"aliases"}, "aliases", nil, nil)
}

// Help returns the top-level usage text.
func (s *Session) Help(ctx context.Context) (string, error) {
	return s.invoke(ctx, []string{"help"}, "help", nil, nil)
}

// EngineVersion returns the installed engine's version, e.g. "v0.6.17".
func (s *Session) EngineVersion(ctx context.Context) (string, error) {
	return s.binary.Version(ctx)
}

// File returns the file command façade.
func (s *Session) File() *File {
	return &File{s: s}
}

// Storage returns the storage command façade.
func (s *Session) Storage() *Storage {
	return &Storage{s: s}
}

// Pipeline returns the pipeline command façade. An empty name uses the
// project's default pipeline.
func (s *Session) Pipeline(name string) *Pipeline {
	return &Pipeline{s: s, name: name}
}
