package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Parser turns a token vector into a Command.
type Parser interface {
	Parse(tokens []string) (*Command, error)
}

// CobraParser parses with a freshly built cobra command tree.
type CobraParser struct {
	// Version is reported by --version. Empty disables the flag.
	Version string
}

// NewParser returns the default Parser.
func NewParser() *CobraParser {
	return &CobraParser{}
}

// Parse parses tokens, which may start with the program name. Malformed
// input, --help and --version all return a *ParseError carrying the text
// the engine would print.
func (p *CobraParser) Parse(tokens []string) (*Command, error) {
	line := strings.Join(tokens, " ")
	if len(tokens) > 0 && tokens[0] == ProgramName {
		tokens = tokens[1:]
	}

	var (
		global Global
		parsed *Command
		buf    bytes.Buffer
	)
	root := p.buildRoot(&global, func(c *cobra.Command, args []string) {
		parsed = capture(c, args, global)
		parsed.Line = line
	})
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{}, tokens...))

	found, err := root.ExecuteC()
	if err != nil {
		usage := ""
		if found != nil {
			usage = found.UseLine()
		}
		return nil, &ParseError{Message: err.Error(), Usage: usage}
	}
	if parsed == nil {
		// help, or version: cobra printed instead of running a leaf
		return nil, &ParseError{Help: true, Text: buf.String()}
	}
	return parsed, nil
}

func (p *CobraParser) buildRoot(g *Global, leaf func(*cobra.Command, []string)) *cobra.Command {
	root := &cobra.Command{
		Use:           ProgramName,
		Short:         "A fast and robust MLOps tool to manage data and pipelines",
		Version:       p.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE:          groupRun,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.SortFlags = false
	pf.CountVarP(&g.Verbosity, "verbose", "v", "Verbosity level. Use multiple times to increase")
	pf.BoolVar(&g.Quiet, "quiet", false, "Suppress all output")
	pf.BoolVar(&g.Debug, "debug", false, "Turn on all logging to $TMPDIR/xvc.log")
	pf.StringVarP(&g.Workdir, "chdir", "C", "", "Set the working directory to run the command as if it's in that directory")
	pf.StringArrayVarP(&g.Config, "config", "c", nil, "Configuration options set from the command line in the form section.key=value")
	pf.BoolVar(&g.NoSystemConfig, "no-system-config", false, "Ignore system configuration file")
	pf.BoolVar(&g.NoUserConfig, "no-user-config", false, "Ignore user configuration file")
	pf.BoolVar(&g.NoProjectConfig, "no-project-config", false, "Ignore project configuration file (.xvc/config)")
	pf.BoolVar(&g.NoLocalConfig, "no-local-config", false, "Ignore local (gitignored) configuration file (.xvc/config.local)")
	pf.BoolVar(&g.NoEnvConfig, "no-env-config", false, "Ignore configuration options obtained from environment variables")
	pf.BoolVar(&g.SkipGit, "skip-git", false, "Don't run automated Git operations for this command")
	pf.StringVar(&g.FromRef, "from-ref", "", "Checkout the given Git reference (branch, tag, commit etc.) before performing the Xvc operation")
	pf.StringVar(&g.ToBranch, "to-branch", "", "If given, create (or checkout) the given branch before committing results of the operation to Git")

	for _, spec := range grammar {
		root.AddCommand(spec.build(leaf))
	}
	return root
}

func (spec commandSpec) build(leaf func(*cobra.Command, []string)) *cobra.Command {
	c := &cobra.Command{
		Use:   spec.name,
		Short: spec.short,
	}
	c.Flags().SortFlags = false
	addFlags(c.PersistentFlags(), spec.persistent)
	addFlags(c.Flags(), spec.flags)

	if len(spec.children) > 0 {
		c.Args = cobra.ArbitraryArgs
		c.RunE = groupRun
		for _, child := range spec.children {
			c.AddCommand(child.build(leaf))
		}
		return c
	}

	c.Args = spec.args.validator()
	c.Run = leaf
	return c
}

func addFlags(fs *pflag.FlagSet, specs []flagSpec) {
	for _, f := range specs {
		switch f.kind {
		case boolValue:
			fs.BoolP(f.name, f.short, false, f.usage)
		case listValue:
			fs.StringArrayP(f.name, f.short, nil, f.usage)
		default:
			fs.StringP(f.name, f.short, "", f.usage)
		}
	}
}

// groupRun handles a group command invoked without a known sub-command.
func groupRun(c *cobra.Command, args []string) error {
	if len(args) > 0 {
		return unrecognizedSubcommand(args[0])
	}
	return missingSubcommand(c.CommandPath())
}

// capture builds a Command from the leaf cobra command that ran.
func capture(c *cobra.Command, args []string, g Global) *Command {
	var path []string
	for cur := c; cur.HasParent(); cur = cur.Parent() {
		path = append([]string{cur.Name()}, path...)
	}

	globals := c.Root().PersistentFlags()
	var flags []Flag
	fs := c.Flags()
	fs.SortFlags = false
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "help" || globals.Lookup(f.Name) == f {
			return
		}
		switch f.Value.Type() {
		case "bool":
			if f.Value.String() == "true" {
				flags = append(flags, Flag{Name: f.Name, Value: "true", Bool: true})
			}
		case "stringArray":
			for _, v := range f.Value.(pflag.SliceValue).GetSlice() {
				flags = append(flags, Flag{Name: f.Name, Value: v})
			}
		default:
			flags = append(flags, Flag{Name: f.Name, Value: f.Value.String()})
		}
	})

	kind := KindUnknown
	if len(path) > 0 {
		kind = KindOf(path[0])
	}
	return &Command{
		Global: g,
		Kind:   kind,
		Path:   path,
		Flags:  flags,
		Args:   append([]string(nil), args...),
	}
}
