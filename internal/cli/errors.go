package cli

import (
	"fmt"
	"strings"
)

// ParseError reports a command line the grammar rejects. Help and version
// requests are ParseErrors too: the caller receives the text either way.
type ParseError struct {
	Message string
	Usage   string

	// Help is set when Text is help or version output rather than an error.
	Help bool
	Text string
}

func (e *ParseError) Error() string {
	if e.Help {
		return "help requested"
	}
	return e.Message
}

// Output renders the error the way the engine prints it.
func (e *ParseError) Output() string {
	if e.Help {
		return e.Text
	}
	var b strings.Builder
	b.WriteString("error: ")
	b.WriteString(e.Message)
	b.WriteString("\n\n")
	if e.Usage != "" {
		fmt.Fprintf(&b, "Usage: %s\n\n", e.Usage)
	}
	b.WriteString("For more information, try '--help'.\n")
	return b.String()
}

func unrecognizedSubcommand(name string) error {
	return fmt.Errorf("unrecognized subcommand '%s'", name)
}

func missingSubcommand(path string) error {
	return fmt.Errorf("'%s' requires a subcommand", path)
}
