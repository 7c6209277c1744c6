// Package cli parses xvc command lines into structured commands.
//
// The grammar mirrors the engine's CLI: global options, then a sub-command
// path (file track, storage new s3, pipeline step dependency, ...), then
// the sub-command's options and positional targets. Parsing is done with
// cobra; each call builds a fresh command tree so parses never share flag
// state.
package cli

import (
	"strconv"
	"strings"
)

// ProgramName is the first token of every full command line.
const ProgramName = "xvc"

// Kind is the top-level sub-command family.
type Kind int

const (
	KindUnknown Kind = iota
	KindInit
	KindAliases
	KindRoot
	KindFile
	KindPipeline
	KindCheckIgnore
	KindStorage
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindInit:        "init",
	KindAliases:     "aliases",
	KindRoot:        "root",
	KindFile:        "file",
	KindPipeline:    "pipeline",
	KindCheckIgnore: "check-ignore",
	KindStorage:     "storage",
}

func (k Kind) String() string {
	return kindNames[k]
}

// KindOf returns the Kind named by a top-level sub-command token.
func KindOf(name string) Kind {
	for k, n := range kindNames {
		if n == name && k != KindUnknown {
			return k
		}
	}
	return KindUnknown
}

// RequiresProject reports whether commands of this kind need a project
// root. Only init (which creates one) and aliases run without.
func (k Kind) RequiresProject() bool {
	return k != KindInit && k != KindAliases
}

// Global holds the options accepted before any sub-command.
type Global struct {
	Verbosity       int      `yaml:"verbosity,omitempty"`
	Quiet           bool     `yaml:"quiet,omitempty"`
	Debug           bool     `yaml:"debug,omitempty"`
	Workdir         string   `yaml:"workdir,omitempty"`
	Config          []string `yaml:"config,omitempty"`
	NoSystemConfig  bool     `yaml:"no_system_config,omitempty"`
	NoUserConfig    bool     `yaml:"no_user_config,omitempty"`
	NoProjectConfig bool     `yaml:"no_project_config,omitempty"`
	NoLocalConfig   bool     `yaml:"no_local_config,omitempty"`
	NoEnvConfig     bool     `yaml:"no_env_config,omitempty"`
	SkipGit         bool     `yaml:"skip_git,omitempty"`
	FromRef         string   `yaml:"from_ref,omitempty"`
	ToBranch        string   `yaml:"to_branch,omitempty"`
}

// Tokens renders the global options in canonical order, without the
// program name.
func (g Global) Tokens() []string {
	var out []string
	if g.Verbosity > 0 {
		out = append(out, "-"+strings.Repeat("v", g.Verbosity))
	}
	if g.Quiet {
		out = append(out, "--quiet")
	}
	if g.Debug {
		out = append(out, "--debug")
	}
	if g.Workdir != "" {
		out = append(out, "-C", g.Workdir)
	}
	for _, c := range g.Config {
		out = append(out, "--config", c)
	}
	if g.NoSystemConfig {
		out = append(out, "--no-system-config")
	}
	if g.NoUserConfig {
		out = append(out, "--no-user-config")
	}
	if g.NoProjectConfig {
		out = append(out, "--no-project-config")
	}
	if g.NoLocalConfig {
		out = append(out, "--no-local-config")
	}
	if g.NoEnvConfig {
		out = append(out, "--no-env-config")
	}
	if g.SkipGit {
		out = append(out, "--skip-git")
	}
	if g.FromRef != "" {
		out = append(out, "--from-ref", g.FromRef)
	}
	if g.ToBranch != "" {
		out = append(out, "--to-branch", g.ToBranch)
	}
	return out
}

// Flag is one parsed sub-command option. Repeatable options appear once
// per value.
type Flag struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
	Bool  bool   `yaml:"bool,omitempty"`
}

// Tokens renders the flag as it appears on a command line.
func (f Flag) Tokens() []string {
	if f.Bool {
		return []string{"--" + f.Name}
	}
	return []string{"--" + f.Name, f.Value}
}

// Command is a parsed command line.
type Command struct {
	Global Global `yaml:"global"`
	Kind   Kind   `yaml:"-"`

	// Path is the sub-command path, e.g. ["storage", "new", "s3"].
	Path []string `yaml:"path"`

	// Flags holds the sub-command options in the order they were given.
	Flags []Flag `yaml:"flags,omitempty"`

	// Args are the positional targets, in caller order.
	Args []string `yaml:"args,omitempty"`

	// Line is the original command line joined with single spaces. It is
	// used in automation commit messages.
	Line string `yaml:"line"`
}

// Name returns the sub-command path joined with spaces.
func (c *Command) Name() string {
	return strings.Join(c.Path, " ")
}

// Lookup returns the last value given for the option name.
func (c *Command) Lookup(name string) (string, bool) {
	value, found := "", false
	for _, f := range c.Flags {
		if f.Name == name {
			value, found = f.Value, true
		}
	}
	return value, found
}

// Bool reports whether the boolean option name was set.
func (c *Command) Bool(name string) bool {
	v, ok := c.Lookup(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// Values returns every value given for a repeatable option.
func (c *Command) Values(name string) []string {
	var out []string
	for _, f := range c.Flags {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// SubcommandTokens renders the path, options and targets.
func (c *Command) SubcommandTokens() []string {
	out := make([]string, 0, len(c.Path)+len(c.Flags)*2+len(c.Args))
	out = append(out, c.Path...)
	for _, f := range c.Flags {
		out = append(out, f.Tokens()...)
	}
	out = append(out, c.Args...)
	return out
}

// Argv renders the full command line, program name first.
func (c *Command) Argv() []string {
	out := []string{ProgramName}
	out = append(out, c.Global.Tokens()...)
	return append(out, c.SubcommandTokens()...)
}
