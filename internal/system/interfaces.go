// Package system provides abstractions for OS process execution to enable testing.
package system

import (
	"context"
	"fmt"
	"strings"
)

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Execute runs a command in dir and returns its stdout. A non-zero exit
	// is reported as *CommandError carrying the captured stderr.
	Execute(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

	// ExecuteInteractive runs a command in dir with stdin/stdout/stderr
	// connected to the terminal.
	ExecuteInteractive(ctx context.Context, dir string, name string, args ...string) error

	// LookPath searches for an executable in PATH.
	LookPath(name string) (string, error)
}

// CommandError describes a command that ran and exited non-zero.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command(), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Command returns the program name followed by its first argument,
// e.g. "git worktree".
func (e *CommandError) Command() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	return e.Name + " " + e.Args[0]
}

var defaultExecutor CommandExecutor = &osExecutor{}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}
