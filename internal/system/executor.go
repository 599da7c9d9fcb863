package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Execute waits for output pipes after the
// process exits or its context is done. Children that inherit stdout
// would otherwise hold Output open past the deadline.
var waitDelay = 2 * time.Second

// osExecutor implements CommandExecutor using real OS processes.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	// The process succeeded but a child still held a pipe.
	if errors.Is(err, exec.ErrWaitDelay) && ctx.Err() == nil {
		return out, nil
	}
	// A killed process reports the context error, not its exit status.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   string(exitErr.Stderr),
		}
	}
	return out, err
}

func (e *osExecutor) ExecuteInteractive(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Name: name, Args: args, ExitCode: exitErr.ExitCode()}
	}
	return err
}

func (e *osExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
