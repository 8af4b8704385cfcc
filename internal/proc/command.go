// Package proc runs external tools with inherited stdio and reports how they
// exited.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Options configures Run.
type Options struct {
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError reports a command that ran and did not exit cleanly. Code is -1
// when the command was killed by a signal.
type ExitError struct {
	Command string
	Args    []string
	Code    int
}

func (e *ExitError) Error() string {
	name := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	if e.Code < 0 {
		return name + " was terminated by a signal"
	}
	return fmt.Sprintf("%s exited with code %d", name, e.Code)
}

// ExitCode maps a command error to a process exit status: 0 for nil, the
// child's code for a non-zero exit, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

// IsNotFound reports whether err means the executable does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// Run runs name with args and returns nil on a zero exit. Streams default to
// the current process's own.
func Run(ctx context.Context, name string, args []string, opts Options) error {
	cmd := commandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	cmd.Stdin = readerOr(opts.Stdin, os.Stdin)
	cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Command: name, Args: args, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// Output runs name with args and returns its stdout. Stderr is inherited
// unless opts.Stderr is set.
func Output(ctx context.Context, name string, args []string, opts Options) ([]byte, error) {
	cmd := commandContext(ctx, name, args...) //nolint:gosec
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	cmd.Stdin = opts.Stdin
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &ExitError{Command: name, Args: args, Code: exitErr.ExitCode()}
		}
		return out, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

func readerOr(r io.Reader, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func writerOr(w io.Writer, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
