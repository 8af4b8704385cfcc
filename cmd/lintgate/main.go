package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit status for a command. A nil err exits
// silently because the failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// usageError marks bad invocations; they exit with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// actionFailed renders err as "<action>: <cause>" with exit status 1.
func actionFailed(action string, err error) error {
	return &exitError{code: exitFailure, err: fmt.Errorf("%s: %w", action, err)}
}

// exitWith returns nil for status 0 and a silent exitError otherwise.
func exitWith(code int) error {
	if code == exitOK {
		return nil
	}
	return &exitError{code: code}
}

func main() {
	os.Exit(execute(newRootCommand(), os.Stderr))
}

func execute(cmd *cobra.Command, stderr io.Writer) int {
	return exitCodeFor(cmd.Execute(), stderr)
}

func exitCodeFor(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitFailure
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(stderr, exitErr.err)
		}
		return exitErr.code
	}

	var usage *usageError
	if errors.As(err, &usage) || isCobraUsageError(err) {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	fmt.Fprintln(stderr, err)
	return exitFailure
}

func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires at least")
}
