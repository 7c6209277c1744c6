package args

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is matched by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("option value has the wrong type")

	// ErrAmbiguousAlias is returned by Table.Validate when two rules share
	// an alias.
	ErrAmbiguousAlias = errors.New("ambiguous option alias")
)

// TypeMismatchError reports an option whose value cannot be rendered by
// its rule.
type TypeMismatchError struct {
	// Option is the name the caller used.
	Option string

	// Want is the kind the rule expects.
	Want Kind

	// Got is the Go type of the supplied value.
	Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("option %q: expected %s value, got %s", e.Option, e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func mismatch(name string, want Kind, value any) error {
	return &TypeMismatchError{Option: name, Want: want, Got: fmt.Sprintf("%T", value)}
}
