package xvc

import (
	"fmt"

	"github.com/xvc-go/xvcgo/internal/cli"
	"github.com/xvc-go/xvcgo/internal/config"
	"github.com/xvc-go/xvcgo/internal/dispatch"
)

// Config holds the global options prepended to every command of a session.
// It is copied by New and never changes afterwards; build a new Session to
// run with different options.
type Config struct {
	// Verbosity is the number of -v flags. 0 shows errors and output only;
	// 4 and above show trace lines.
	Verbosity int

	// Quiet suppresses everything, including errors.
	Quiet bool

	// Debug turns on the engine's debug log and the binding's own debug
	// log file.
	Debug bool

	// Workdir runs commands as if started in this directory. Empty means
	// the process working directory.
	Workdir string

	// ConfigOverrides are section.key=value pairs passed with --config.
	ConfigOverrides []string

	NoSystemConfig  bool
	NoUserConfig    bool
	NoProjectConfig bool
	NoLocalConfig   bool
	NoEnvConfig     bool

	// SkipGit disables --from-ref checkouts and post-command git commits.
	SkipGit bool

	// FromRef is checked out before each command runs.
	FromRef string

	// ToBranch receives the automation commit after each command.
	ToBranch string
}

func (c Config) global() cli.Global {
	return cli.Global{
		Verbosity:       c.Verbosity,
		Quiet:           c.Quiet,
		Debug:           c.Debug,
		Workdir:         c.Workdir,
		Config:          append([]string(nil), c.ConfigOverrides...),
		NoSystemConfig:  c.NoSystemConfig,
		NoUserConfig:    c.NoUserConfig,
		NoProjectConfig: c.NoProjectConfig,
		NoLocalConfig:   c.NoLocalConfig,
		NoEnvConfig:     c.NoEnvConfig,
		SkipGit:         c.SkipGit,
		FromRef:         c.FromRef,
		ToBranch:        c.ToBranch,
	}
}

// Tokens returns the command prefix for this configuration: the program
// name followed by the global options.
func (c Config) Tokens() []string {
	return append([]string{cli.ProgramName}, c.global().Tokens()...)
}

// LoadSettings reads the binding settings file (see internal/config) and
// returns the session defaults and options it describes. An empty path
// searches the default locations and tolerates a missing file.
func LoadSettings(path string) (Config, []Option, error) {
	s, err := config.Load(path)
	if err != nil {
		return Config{}, nil, err
	}
	opts, err := settingsOptions(s)
	if err != nil {
		return Config{}, nil, err
	}
	return settingsConfig(s), opts, nil
}

func settingsConfig(s *config.Settings) Config {
	return Config{
		Verbosity: s.Session.Verbosity,
		Quiet:     s.Session.Quiet,
		Workdir:   s.Session.Workdir,
		SkipGit:   s.Session.SkipGit,
	}
}

func settingsOptions(s *config.Settings) ([]Option, error) {
	opts := []Option{
		WithEnginePath(s.Engine.Path),
		WithEngineTimeout(s.Engine.Timeout),
		WithDebugLog(s.Log.DebugFile, s.Log.MaxSizeMB, s.Log.MaxBackups),
	}
	if s.Engine.MinVersion != "" {
		opts = append(opts, WithMinEngineVersion(s.Engine.MinVersion))
	}
	if !s.Automation.Enabled {
		opts = append(opts, WithoutAutomation())
	}
	policy, err := dispatch.ParsePolicy(s.Automation.Policy)
	if err != nil {
		return nil, fmt.Errorf("automation settings: %w", err)
	}
	return append(opts, WithPolicy(policy)), nil
}
