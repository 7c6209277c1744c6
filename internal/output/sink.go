package output

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultBound is the capacity of the channel between the executing and
// the collecting goroutine.
const DefaultBound = 10000

// Sink accepts output lines. Implementations must be safe for concurrent
// use.
type Sink interface {
	Send(Line)
}

// Outputf sends a primary payload line.
func Outputf(s Sink, format string, args ...any) { send(s, SeverityOutput, format, args) }

// Debugf sends a debug line.
func Debugf(s Sink, format string, args ...any) { send(s, SeverityDebug, format, args) }

// Infof sends an info line.
func Infof(s Sink, format string, args ...any) { send(s, SeverityInfo, format, args) }

// Warnf sends a warning line.
func Warnf(s Sink, format string, args ...any) { send(s, SeverityWarn, format, args) }

// Errorf sends an error line.
func Errorf(s Sink, format string, args ...any) { send(s, SeverityError, format, args) }

// Panicf sends a panic line. It does not panic.
func Panicf(s Sink, format string, args ...any) { send(s, SeverityPanic, format, args) }

func send(s Sink, sev Severity, format string, args []any) {
	if s == nil {
		return
	}
	body := format
	if len(args) > 0 {
		body = fmt.Sprintf(format, args...)
	}
	s.Send(Line{Severity: sev, Body: body})
}

// Channel is a bounded Sink read by a single collector. Closing it is the
// end-of-output signal.
type Channel struct {
	ch        chan Line
	closeOnce sync.Once
}

// NewChannel returns a Channel holding up to bound buffered lines. A bound
// of zero or less uses DefaultBound.
func NewChannel(bound int) *Channel {
	if bound <= 0 {
		bound = DefaultBound
	}
	return &Channel{ch: make(chan Line, bound)}
}

// Send blocks while the buffer is full.
func (c *Channel) Send(l Line) {
	c.ch <- l
}

// Close signals the collector that no more lines follow. It is safe to
// call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() { close(c.ch) })
}

// Lines returns the receive side of the channel.
func (c *Channel) Lines() <-chan Line {
	return c.ch
}

// Collect drains lines until the channel is closed and concatenates the
// formatted lines allowed by level, in arrival order.
func Collect(lines <-chan Line, level Level) string {
	var b strings.Builder
	for line := range lines {
		if !level.Allows(line.Severity) {
			continue
		}
		b.WriteString(line.Format())
	}
	return b.String()
}

// Recorder is a Sink that keeps every line in memory.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
}

// Send appends l.
func (r *Recorder) Send(l Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, l)
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// Bodies returns the bodies of the lines with severity sev.
func (r *Recorder) Bodies(sev Severity) []string {
	var out []string
	for _, l := range r.Lines() {
		if l.Severity == sev {
			out = append(out, l.Body)
		}
	}
	return out
}
