package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotAvailable is returned when the xvc binary is not
	// installed or not in PATH.
	ErrEngineNotAvailable = errors.New("xvc binary not available")

	// ErrTimeout is returned when the engine exceeds its deadline.
	ErrTimeout = errors.New("engine command timed out")

	// ErrIncompatibleVersion is returned when the installed engine is
	// older than the binding supports.
	ErrIncompatibleVersion = errors.New("incompatible xvc version")
)

// ExitError reports an engine run that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("xvc %s exited with status %d", e.Command, e.Code)
}

// IsNotAvailable reports whether err means the engine cannot run at all.
func IsNotAvailable(err error) bool {
	return errors.Is(err, ErrEngineNotAvailable)
}

// ExitCode returns the engine exit status carried by err, 0 for nil and -1
// when err is not an exit error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
