package connector

import (
	"fmt"
	"strings"
)

// CommandError carries everything known about a failed command: the
// rendered command line, the exit code, and the captured output streams.
// Callers branch on it with errors.As; this layer never retries.
type CommandError struct {
	Cmd        string
	ExitCode   int
	Stdout     string
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", e.Cmd, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s (underlying error: %v)", msg, e.Underlying)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// StdoutLines returns the captured stdout split into lines, for
// line-oriented diagnostics.
func (e *CommandError) StdoutLines() []string {
	return splitLines(e.Stdout)
}

// StderrLines returns the captured stderr split into lines.
func (e *CommandError) StderrLines() []string {
	return splitLines(e.Stderr)
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
