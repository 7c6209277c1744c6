package output

import (
	"testing"
)

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		quiet     bool
		verbosity int
		want      Level
	}{
		{false, 0, LevelDefault},
		{false, 1, LevelWarn},
		{false, 2, LevelInfo},
		{false, 3, LevelDebug},
		{false, 4, LevelTrace},
		{false, 9, LevelTrace},
		{false, -1, LevelDefault},
		{true, 0, LevelQuiet},
		{true, 4, LevelQuiet},
	}

	for _, tt := range tests {
		got := LevelFromFlags(tt.quiet, tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromFlags(%v, %d) = %v, want %v", tt.quiet, tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelAllows(t *testing.T) {
	all := []Severity{SeverityOutput, SeverityDebug, SeverityInfo, SeverityWarn, SeverityError, SeverityPanic}

	tests := []struct {
		level Level
		want  map[Severity]bool
	}{
		{LevelQuiet, map[Severity]bool{SeverityPanic: true}},
		{LevelDefault, map[Severity]bool{SeverityOutput: true, SeverityError: true, SeverityPanic: true}},
		{LevelWarn, map[Severity]bool{SeverityOutput: true, SeverityWarn: true, SeverityError: true, SeverityPanic: true}},
		{LevelInfo, map[Severity]bool{SeverityOutput: true, SeverityInfo: true, SeverityWarn: true, SeverityError: true, SeverityPanic: true}},
		{LevelDebug, map[Severity]bool{SeverityOutput: true, SeverityDebug: true, SeverityInfo: true, SeverityWarn: true, SeverityError: true, SeverityPanic: true}},
		{LevelTrace, map[Severity]bool{SeverityOutput: true, SeverityDebug: true, SeverityInfo: true, SeverityWarn: true, SeverityError: true, SeverityPanic: true}},
	}

	for _, tt := range tests {
		for _, sev := range all {
			if got := tt.level.Allows(sev); got != tt.want[sev] {
				t.Errorf("%v.Allows(%v) = %v, want %v", tt.level, sev, got, tt.want[sev])
			}
		}
	}
}

func TestCollect(t *testing.T) {
	ch := NewChannel(0)
	Outputf(ch, "hello")
	Infof(ch, "hidden at default")
	Errorf(ch, "bad %s", "thing")
	Debugf(ch, "hidden")
	Panicf(ch, "boom")
	Outputf(ch, "\nworld")
	ch.Close()
	ch.Close()

	got := Collect(ch.Lines(), LevelDefault)
	want := "hello[ERROR] bad thing[PANIC] boom\nworld"
	if got != want {
		t.Errorf("Collect() = %q, want %q", got, want)
	}
}

func TestCollectQuietKeepsPanics(t *testing.T) {
	ch := NewChannel(4)
	go func() {
		Outputf(ch, "payload")
		Errorf(ch, "err")
		Panicf(ch, "fatal")
		ch.Close()
	}()

	if got := Collect(ch.Lines(), LevelQuiet); got != "[PANIC] fatal" {
		t.Errorf("Collect() = %q", got)
	}
}

func TestSplitTag(t *testing.T) {
	tests := []struct {
		in     string
		sev    Severity
		body   string
		tagged bool
	}{
		{"[ERROR] no storage", SeverityError, "no storage", true},
		{"[WARN] careful", SeverityWarn, "careful", true},
		{"[info] lower", SeverityInfo, "lower", true},
		{"[TRACE] deep", SeverityDebug, "deep", true},
		{"plain text", SeverityOutput, "plain text", false},
		{"[not a tag] x", SeverityOutput, "[not a tag] x", false},
		{"[unclosed", SeverityOutput, "[unclosed", false},
	}

	for _, tt := range tests {
		sev, body, ok := SplitTag(tt.in)
		if sev != tt.sev || body != tt.body || ok != tt.tagged {
			t.Errorf("SplitTag(%q) = (%v, %q, %v), want (%v, %q, %v)",
				tt.in, sev, body, ok, tt.sev, tt.body, tt.tagged)
		}
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	Infof(&r, "one")
	Errorf(&r, "two")
	Infof(&r, "three")

	if got := len(r.Lines()); got != 3 {
		t.Fatalf("len(Lines()) = %d, want 3", got)
	}
	infos := r.Bodies(SeverityInfo)
	if len(infos) != 2 || infos[0] != "one" || infos[1] != "three" {
		t.Errorf("Bodies(Info) = %v", infos)
	}
}

func TestSendToNilSink(t *testing.T) {
	Errorf(nil, "ignored")
}
