package project

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config is the subset of .xvc/config.toml the binding reads.
type Config struct {
	Core  CoreConfig  `toml:"core"`
	Git   GitConfig   `toml:"git"`
	Cache CacheConfig `toml:"cache"`
}

// CoreConfig holds the [core] section.
type CoreConfig struct {
	// GUID identifies the project across clones.
	GUID string `toml:"guid"`

	// Verbosity is the project's default output level name.
	Verbosity string `toml:"verbosity"`
}

// GitConfig holds the [git] section, which drives post-command automation.
type GitConfig struct {
	// UseGit enables git automation for this project.
	UseGit bool `toml:"use_git"`

	// Command is the git executable the engine uses.
	Command string `toml:"command"`

	// AutoCommit commits .xvc changes after every command.
	AutoCommit bool `toml:"auto_commit"`

	// AutoStage stages .xvc changes without committing.
	AutoStage bool `toml:"auto_stage"`
}

// CacheConfig holds the [cache] section.
type CacheConfig struct {
	// Algorithm is the content digest algorithm, e.g. "blake3".
	Algorithm string `toml:"algorithm"`
}

// DefaultConfig returns the values the engine uses when a key is missing.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{Verbosity: "error"},
		Git: GitConfig{
			UseGit:     true,
			Command:    "git",
			AutoCommit: true,
		},
		Cache: CacheConfig{Algorithm: "blake3"},
	}
}

// LoadConfig decodes path over DefaultConfig. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
