package xvc

import (
	"io"
	"log/slog"
	"time"

	"github.com/xvc-go/xvcgo/internal/dispatch"
	"github.com/xvc-go/xvcgo/internal/engine"
)

// Option configures a Session.
type Option func(*settings)

type settings struct {
	executor      engine.Executor
	automation    dispatch.Automation
	noAutomation  bool
	policy        dispatch.AutomationPolicy
	logger        *slog.Logger
	logWriter     io.Writer
	enginePath    string
	engineTimeout time.Duration
	engineEnv     []string
	minVersion    string
	debugFile     string
	maxSizeMB     int
	maxBackups    int
	bound         int
	watch         bool
}

// WithExecutor replaces the xvc binary with another executor. Tests use it
// to record commands without running the engine.
func WithExecutor(e Executor) Option {
	return func(s *settings) { s.executor = e }
}

// WithAutomation replaces the go-git automation.
func WithAutomation(a Automation) Option {
	return func(s *settings) { s.automation = a }
}

// WithoutAutomation disables --from-ref checkouts and post-command commits
// for every command, as if --skip-git were always given.
func WithoutAutomation() Option {
	return func(s *settings) { s.noAutomation = true }
}

// WithPolicy sets how git automation failures are surfaced. The default is
// FailOnAutomationError.
func WithPolicy(p AutomationPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// WithLogger sets the binding's diagnostic logger. It takes precedence over
// WithLogWriter and WithDebugLog.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithLogWriter sends the binding's diagnostics to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(s *settings) { s.logWriter = w }
}

// WithEnginePath sets the xvc binary. Empty keeps the default lookup in
// PATH.
func WithEnginePath(path string) Option {
	return func(s *settings) { s.enginePath = path }
}

// WithEngineTimeout bounds every engine invocation. Zero means no limit.
func WithEngineTimeout(d time.Duration) Option {
	return func(s *settings) { s.engineTimeout = d }
}

// WithEngineEnv adds KEY=VALUE pairs to the engine's environment.
func WithEngineEnv(env ...string) Option {
	return func(s *settings) { s.engineEnv = append(s.engineEnv, env...) }
}

// WithMinEngineVersion makes New fail unless the engine reports at least
// this version.
func WithMinEngineVersion(v string) Option {
	return func(s *settings) { s.minVersion = v }
}

// WithDebugLog sets the file debug sessions log to. Empty path keeps the
// default under the user cache directory; zero sizes keep the defaults.
func WithDebugLog(path string, maxSizeMB, maxBackups int) Option {
	return func(s *settings) {
		s.debugFile = path
		s.maxSizeMB = maxSizeMB
		s.maxBackups = maxBackups
	}
}

// WithOutputBound sets the capacity of the per-call output channel.
func WithOutputBound(n int) Option {
	return func(s *settings) { s.bound = n }
}

// WithConfigWatch reloads the project configuration whenever another
// process edits .xvc/config.toml, and forgets the project if its .xvc
// directory is removed.
func WithConfigWatch() Option {
	return func(s *settings) { s.watch = true }
}
