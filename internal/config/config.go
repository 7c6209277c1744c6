// Package config loads binding-level settings: where the engine lives,
// how automation failures are treated, and defaults for new sessions.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML
// file ($XDG_CONFIG_HOME/xvcgo/config.yaml unless a path is given), and
// XVCGO_* environment variables (XVCGO_ENGINE_PATH for engine.path).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "XVCGO"

// Settings is the decoded configuration.
type Settings struct {
	Engine     EngineSettings     `mapstructure:"engine"`
	Automation AutomationSettings `mapstructure:"automation"`
	Log        LogSettings        `mapstructure:"log"`
	Session    SessionSettings    `mapstructure:"session"`
}

// EngineSettings locates and bounds the xvc binary.
type EngineSettings struct {
	Path       string        `mapstructure:"path"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MinVersion string        `mapstructure:"min_version"`
}

// AutomationSettings controls the git automation around commands.
type AutomationSettings struct {
	Enabled bool `mapstructure:"enabled"`

	// Policy is "fail" or "report".
	Policy string `mapstructure:"policy"`
}

// LogSettings configures the debug log file.
type LogSettings struct {
	DebugFile  string `mapstructure:"debug_file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// SessionSettings are defaults for sessions built from settings.
type SessionSettings struct {
	Verbosity int    `mapstructure:"verbosity"`
	Quiet     bool   `mapstructure:"quiet"`
	Workdir   string `mapstructure:"workdir"`
	SkipGit   bool   `mapstructure:"skip_git"`
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "xvcgo")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "xvcgo")
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine.path", "xvc")
	v.SetDefault("engine.timeout", time.Duration(0))
	v.SetDefault("engine.min_version", "")
	v.SetDefault("automation.enabled", true)
	v.SetDefault("automation.policy", "fail")
	v.SetDefault("log.debug_file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("session.verbosity", 0)
	v.SetDefault("session.quiet", false)
	v.SetDefault("session.workdir", "")
	v.SetDefault("session.skip_git", false)
}

// New returns a viper instance with defaults and environment binding.
// path, when set, is the config file to read; otherwise config.yaml is
// searched in ConfigDir and the working directory.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".xvcgo")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings. A missing config file is not an error unless path
// names it explicitly.
func Load(path string) (*Settings, error) {
	return Decode(New(path), path != "")
}

// Decode reads v's config file, if any, and decodes the result.
func Decode(v *viper.Viper, requireFile bool) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if requireFile || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values viper cannot type-check.
func (s *Settings) Validate() error {
	switch s.Automation.Policy {
	case "fail", "report":
	default:
		return fmt.Errorf("automation.policy must be fail or report, got %q", s.Automation.Policy)
	}
	if s.Engine.Timeout < 0 {
		return fmt.Errorf("engine.timeout must not be negative")
	}
	if s.Session.Verbosity < 0 {
		return fmt.Errorf("session.verbosity must not be negative")
	}
	return nil
}
