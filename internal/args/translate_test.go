package args

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var trackTable = Table{
	Flag("--help", "help"),
	Option("--recheck-method", "recheck-method"),
	Flag("--no-commit", "no-commit"),
	Option("--text-or-binary", "text-or-binary"),
	Flag("--force", "force"),
	Flag("--no-parallel", "no-parallel"),
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		values  Values
		targets []string
		want    []string
	}{
		{
			name: "empty",
			want: []string{},
		},
		{
			name:    "option and flag with targets",
			values:  Values{"recheck_method": "copy", "force": true},
			targets: []string{"a.txt", "b.txt"},
			want:    []string{"--recheck-method", "copy", "--force", "a.txt", "b.txt"},
		},
		{
			name:   "declared order wins over input order",
			values: Values{"no-parallel": true, "force": true, "help": true},
			want:   []string{"--help", "--force", "--no-parallel"},
		},
		{
			name:   "hyphen alias",
			values: Values{"recheck-method": "symlink"},
			want:   []string{"--recheck-method", "symlink"},
		},
		{
			name:   "case insensitive alias",
			values: Values{"Text_Or_Binary": "text"},
			want:   []string{"--text-or-binary", "text"},
		},
		{
			name:   "empty string is absent",
			values: Values{"recheck-method": ""},
			want:   []string{},
		},
		{
			name:   "nil value is absent",
			values: Values{"recheck-method": nil, "force": nil},
			want:   []string{},
		},
		{
			name:   "unknown keys are ignored",
			values: Values{"colour": "blue", "force": true},
			want:   []string{"--force"},
		},
		{
			name:    "targets keep caller order",
			targets: []string{"z", "a", "m"},
			want:    []string{"z", "a", "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.values, trackTable, tt.targets...)
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Translate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateFalseEqualsAbsent(t *testing.T) {
	for _, rule := range trackTable {
		if rule.Kind != KindFlag {
			continue
		}
		t.Run(rule.Flag, func(t *testing.T) {
			withFalse, err := Translate(Values{rule.Aliases[0]: false}, trackTable)
			if err != nil {
				t.Fatalf("Translate(false) error = %v", err)
			}
			absent, err := Translate(Values{}, trackTable)
			if err != nil {
				t.Fatalf("Translate(absent) error = %v", err)
			}
			if diff := cmp.Diff(absent, withFalse); diff != "" {
				t.Errorf("false and absent differ (-absent +false):\n%s", diff)
			}
		})
	}
}

func TestTranslateAliasEquivalence(t *testing.T) {
	table := Table{
		Option("--remote", "remote", "from"),
		Option("--processes", "processes", "max_processes"),
	}

	tests := []struct {
		name   string
		values Values
		want   []string
	}{
		{"primary alias", Values{"remote": "s3"}, []string{"--remote", "s3"}},
		{"secondary alias", Values{"from": "s3"}, []string{"--remote", "s3"}},
		{"secondary alias with swapped separator", Values{"max-processes": 4}, []string{"--processes", "4"}},
		{"first alias wins", Values{"remote": "a", "from": "b"}, []string{"--remote", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.values, table)
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Translate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslateDeterministic(t *testing.T) {
	values := Values{
		"no_parallel":    true,
		"force":          true,
		"no-commit":      true,
		"recheck_method": "hardlink",
		"text-or-binary": "binary",
		"help":           true,
	}
	first, err := Translate(values, trackTable, "x")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Translate(values, trackTable, "x")
		if err != nil {
			t.Fatalf("Translate() error = %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
	if first[len(first)-1] != "x" {
		t.Errorf("target not last: %v", first)
	}
}

func TestTranslatePairAndMulti(t *testing.T) {
	table := Table{
		Multi("--glob", "glob"),
		Pair("--param", "::", "param"),
	}

	got, err := Translate(Values{
		"glob":  []string{"src/*.py", "data/*.csv"},
		"param": [2]string{"params.yaml", "train.lr"},
	}, table)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := []string{"--glob", "src/*.py", "--glob", "data/*.csv", "--param", "params.yaml::train.lr"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Translate() mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateTypeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		values Values
		option string
	}{
		{"string for flag", Values{"force": "yes"}, "force"},
		{"bool for option", Values{"recheck_method": true}, "recheck_method"},
		{"float for option", Values{"text-or-binary": 1.5}, "text-or-binary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.values, trackTable, "a.txt")
			if err == nil {
				t.Fatalf("Translate() = %v, want error", got)
			}
			if got != nil {
				t.Errorf("Translate() returned tokens %v alongside error", got)
			}
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("error %v is not ErrTypeMismatch", err)
			}
			var tm *TypeMismatchError
			if !errors.As(err, &tm) {
				t.Fatalf("error %T is not *TypeMismatchError", err)
			}
			if tm.Option != tt.option {
				t.Errorf("Option = %q, want %q", tm.Option, tt.option)
			}
		})
	}
}

func TestTableValidate(t *testing.T) {
	if err := trackTable.Validate(); err != nil {
		t.Errorf("trackTable.Validate() = %v", err)
	}

	bad := Table{
		Option("--remote", "remote", "to"),
		Option("--destination", "to"),
	}
	err := bad.Validate()
	if !errors.Is(err, ErrAmbiguousAlias) {
		t.Errorf("Validate() = %v, want ErrAmbiguousAlias", err)
	}
}

func TestRuleAliasExpansion(t *testing.T) {
	r := Flag("--no-commit", "no-commit")
	want := []string{"no-commit", "no_commit"}
	if diff := cmp.Diff(want, r.Aliases); diff != "" {
		t.Errorf("Aliases mismatch (-want +got):\n%s", diff)
	}

	bare := Option("--url")
	if diff := cmp.Diff([]string{"url"}, bare.Aliases); diff != "" {
		t.Errorf("default alias mismatch (-want +got):\n%s", diff)
	}
}
