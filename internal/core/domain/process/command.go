package process

import (
	"fmt"
	"strings"
)

// Command represents an external program invocation
type Command struct {
	executable string
	args       []string
}

// NewCommand creates a new Command value object
func NewCommand(executable string, args ...string) (Command, error) {
	if executable == "" {
		return Command{}, fmt.Errorf("executable cannot be empty")
	}

	return Command{
		executable: executable,
		args:       append([]string(nil), args...),
	}, nil
}

// Executable returns the command executable
func (c Command) Executable() string {
	return c.executable
}

// Args returns a copy of the command arguments
func (c Command) Args() []string {
	return append([]string(nil), c.args...)
}

// FullCommandLine returns the executable followed by its arguments
func (c Command) FullCommandLine() []string {
	result := make([]string, 0, len(c.args)+1)
	result = append(result, c.executable)
	result = append(result, c.args...)
	return result
}

// String returns the command line quoted for display in error messages
func (c Command) String() string {
	parts := c.FullCommandLine()
	for i, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			parts[i] = "'" + strings.ReplaceAll(p, "'", `'"'"'`) + "'"
		}
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of a finished command
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}
