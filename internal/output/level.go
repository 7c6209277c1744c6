package output

// Level is the collection threshold derived from the engine's verbosity
// flags.
type Level int

const (
	// LevelQuiet keeps panics only.
	LevelQuiet Level = iota

	// LevelDefault keeps output, errors and panics.
	LevelDefault

	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = [...]string{"quiet", "default", "warn", "info", "debug", "trace"}

func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// LevelFromFlags maps --quiet and the -v count to a Level. Counts above 4
// clamp to LevelTrace.
func LevelFromFlags(quiet bool, verbosity int) Level {
	if quiet {
		return LevelQuiet
	}
	switch {
	case verbosity <= 0:
		return LevelDefault
	case verbosity == 1:
		return LevelWarn
	case verbosity == 2:
		return LevelInfo
	case verbosity == 3:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// Allows reports whether a line of severity s is collected at level l.
func (l Level) Allows(s Severity) bool {
	switch s {
	case SeverityPanic:
		return true
	case SeverityOutput, SeverityError:
		return l >= LevelDefault
	case SeverityWarn:
		return l >= LevelWarn
	case SeverityInfo:
		return l >= LevelInfo
	case SeverityDebug:
		return l >= LevelDebug
	}
	return false
}
