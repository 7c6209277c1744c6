// Package output carries severity-tagged engine output from the goroutine
// executing a command to the goroutine collecting it.
//
// A command writes Lines into a Sink. The Sink wraps a bounded channel; the
// collector drains it until the channel is closed and keeps only the lines
// allowed by the configured Level.
package output

import (
	"fmt"
	"strings"
)

// Severity classifies a line of engine output.
type Severity int

const (
	// SeverityOutput is the primary payload. It is never prefixed.
	SeverityOutput Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError

	// SeverityPanic marks an unrecoverable engine condition. It is always
	// collected, even in quiet mode.
	SeverityPanic
)

var severityNames = map[Severity]string{
	SeverityOutput: "OUTPUT",
	SeverityDebug:  "DEBUG",
	SeverityInfo:   "INFO",
	SeverityWarn:   "WARN",
	SeverityError:  "ERROR",
	SeverityPanic:  "PANIC",
}

// String returns the tag name, e.g. "ERROR".
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Tag returns the bracketed prefix written before a line body, or "" for
// SeverityOutput.
func (s Severity) Tag() string {
	if s == SeverityOutput {
		return ""
	}
	return "[" + s.String() + "] "
}

// ParseSeverity maps a tag name such as "WARN" or "warning" to a Severity.
func ParseSeverity(name string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "OUTPUT":
		return SeverityOutput, true
	case "DEBUG", "TRACE":
		return SeverityDebug, true
	case "INFO":
		return SeverityInfo, true
	case "WARN", "WARNING":
		return SeverityWarn, true
	case "ERROR":
		return SeverityError, true
	case "PANIC":
		return SeverityPanic, true
	}
	return 0, false
}

// Line is one unit of engine output.
type Line struct {
	Severity Severity
	Body     string
}

// Format renders the line the way it appears in the collected output.
func (l Line) Format() string {
	return l.Severity.Tag() + l.Body
}

// SplitTag splits a "[TAG] body" string into its severity and body. ok is
// false when s carries no known tag.
func SplitTag(s string) (sev Severity, body string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return SeverityOutput, s, false
	}
	end := strings.Index(s, "]")
	if end < 0 {
		return SeverityOutput, s, false
	}
	sev, ok = ParseSeverity(s[1:end])
	if !ok {
		return SeverityOutput, s, false
	}
	return sev, strings.TrimPrefix(s[end+1:], " "), true
}
