package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFileTrack(t *testing.T) {
	p := NewParser()
	tokens := []string{"xvc", "-vv", "--skip-git", "file", "track", "--recheck-method", "copy", "--force", "a.txt", "b.txt"}

	cmd, err := p.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := &Command{
		Global: Global{Verbosity: 2, SkipGit: true},
		Kind:   KindFile,
		Path:   []string{"file", "track"},
		Flags: []Flag{
			{Name: "recheck-method", Value: "copy"},
			{Name: "force", Value: "true", Bool: true},
		},
		Args: []string{"a.txt", "b.txt"},
		Line: strings.Join(tokens, " "),
	}
	if diff := cmp.Diff(want, cmd); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if got := cmd.Argv(); !cmp.Equal(got, tokens) {
		t.Errorf("Argv() = %q, want %q", got, tokens)
	}
}

func TestParseGlobals(t *testing.T) {
	cmd, err := NewParser().Parse([]string{
		"xvc", "-vvvvv", "--quiet", "--debug", "-C", "/work",
		"-c", "core.verbosity=debug", "--config", "git.auto_commit=false",
		"--no-system-config", "--no-user-config", "--no-project-config",
		"--no-local-config", "--no-env-config",
		"--from-ref", "main", "--to-branch", "exp", "root",
	})
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := Global{
		Verbosity:       5,
		Quiet:           true,
		Debug:           true,
		Workdir:         "/work",
		Config:          []string{"core.verbosity=debug", "git.auto_commit=false"},
		NoSystemConfig:  true,
		NoUserConfig:    true,
		NoProjectConfig: true,
		NoLocalConfig:   true,
		NoEnvConfig:     true,
		FromRef:         "main",
		ToBranch:        "exp",
	}
	if diff := cmp.Diff(want, cmd.Global); diff != "" {
		t.Errorf("Global mismatch (-want +got):\n%s", diff)
	}
	if cmd.Kind != KindRoot {
		t.Errorf("Kind = %v, want root", cmd.Kind)
	}
	if len(cmd.Flags) != 0 {
		t.Errorf("Flags = %v, want none", cmd.Flags)
	}
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		tokens []string
		kind   Kind
		path   string
	}{
		{[]string{"init", "--no-git"}, KindInit, "init"},
		{[]string{"aliases"}, KindAliases, "aliases"},
		{[]string{"root", "--absolute"}, KindRoot, "root"},
		{[]string{"check-ignore", "--details", "x"}, KindCheckIgnore, "check-ignore"},
		{[]string{"file", "copy", "a", "b"}, KindFile, "file copy"},
		{[]string{"pipeline", "step", "list"}, KindPipeline, "pipeline step list"},
		{[]string{"storage", "new", "digital-ocean", "--name", "do"}, KindStorage, "storage new digital-ocean"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(strings.Join(tt.tokens, "_"), func(t *testing.T) {
			cmd, err := p.Parse(append([]string{"xvc"}, tt.tokens...))
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if cmd.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", cmd.Kind, tt.kind)
			}
			if cmd.Name() != tt.path {
				t.Errorf("Name() = %q, want %q", cmd.Name(), tt.path)
			}
		})
	}
}

func TestParseRepeatableAndPersistent(t *testing.T) {
	cmd, err := NewParser().Parse([]string{
		"xvc", "pipeline", "--pipeline-name", "train", "step", "dependency",
		"--step-name", "fit", "--file", "data.csv", "--param", "params.yaml::lr", "--file", "model.py",
	})
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if v, _ := cmd.Lookup("pipeline-name"); v != "train" {
		t.Errorf("pipeline-name = %q, want train", v)
	}
	if got := cmd.Values("file"); !cmp.Equal(got, []string{"data.csv", "model.py"}) {
		t.Errorf("Values(file) = %q", got)
	}
	if got := cmd.Values("param"); !cmp.Equal(got, []string{"params.yaml::lr"}) {
		t.Errorf("Values(param) = %q", got)
	}
}

func TestParseLastPipelineNameWins(t *testing.T) {
	cmd, err := NewParser().Parse([]string{"xvc", "pipeline", "-p", "a", "new", "--pipeline-name", "b"})
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if v, _ := cmd.Lookup("pipeline-name"); v != "b" {
		t.Errorf("pipeline-name = %q, want b", v)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"unknown group child", []string{"xvc", "file", "unknown-subcmd"}, "unrecognized subcommand 'unknown-subcmd'"},
		{"unknown top level", []string{"xvc", "frobnicate"}, "unrecognized subcommand 'frobnicate'"},
		{"missing subcommand", []string{"xvc", "storage"}, "requires a subcommand"},
		{"empty", []string{"xvc"}, "requires a subcommand"},
		{"unknown flag", []string{"xvc", "file", "track", "--bogus"}, "unknown flag: --bogus"},
		{"copy arity", []string{"xvc", "file", "copy", "only-one"}, "accepts 2 arg(s)"},
		{"unexpected target", []string{"xvc", "storage", "list", "extra"}, "unknown command"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.tokens)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if perr.Help {
				t.Fatal("error reported as help")
			}
			out := perr.Output()
			if !strings.HasPrefix(out, "error: ") {
				t.Errorf("Output() = %q, want error: prefix", out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Output() = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	p := NewParser()
	for _, tokens := range [][]string{
		{"xvc", "--help"},
		{"xvc", "file", "track", "--help"},
		{"xvc", "help", "storage"},
	} {
		_, err := p.Parse(tokens)
		var perr *ParseError
		if !errors.As(err, &perr) || !perr.Help {
			t.Fatalf("Parse(%q) error = %v, want help", tokens, err)
		}
		if !strings.Contains(perr.Output(), "Usage:") {
			t.Errorf("help output for %q lacks usage:\n%s", tokens, perr.Output())
		}
	}
}

func TestParseVersion(t *testing.T) {
	p := &CobraParser{Version: "0.6.17"}
	_, err := p.Parse([]string{"xvc", "--version"})
	var perr *ParseError
	if !errors.As(err, &perr) || !perr.Help {
		t.Fatalf("Parse() error = %v, want version text", err)
	}
	if !strings.Contains(perr.Output(), "0.6.17") {
		t.Errorf("version output = %q", perr.Output())
	}
}

func TestParseIsolation(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse([]string{"xvc", "-vvv", "file", "track", "--force", "a"}); err != nil {
		t.Fatalf("first Parse() failed: %v", err)
	}
	cmd, err := p.Parse([]string{"xvc", "file", "track", "b"})
	if err != nil {
		t.Fatalf("second Parse() failed: %v", err)
	}
	if cmd.Global.Verbosity != 0 || cmd.Bool("force") {
		t.Errorf("state leaked between parses: %+v", cmd)
	}
}

func TestGlobalTokens(t *testing.T) {
	tests := []struct {
		name string
		g    Global
		want []string
	}{
		{"zero", Global{}, nil},
		{"verbosity", Global{Verbosity: 3}, []string{"-vvv"}},
		{"workdir and refs", Global{Workdir: "d", FromRef: "r", ToBranch: "b"}, []string{"-C", "d", "--from-ref", "r", "--to-branch", "b"}},
		{"config overrides", Global{Config: []string{"a=1", "b=2"}}, []string{"--config", "a=1", "--config", "b=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.g.Tokens()); diff != "" {
				t.Errorf("Tokens() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKindRequiresProject(t *testing.T) {
	for _, k := range []Kind{KindRoot, KindFile, KindPipeline, KindCheckIgnore, KindStorage} {
		if !k.RequiresProject() {
			t.Errorf("%v.RequiresProject() = false", k)
		}
	}
	for _, k := range []Kind{KindInit, KindAliases} {
		if k.RequiresProject() {
			t.Errorf("%v.RequiresProject() = true", k)
		}
	}
}
