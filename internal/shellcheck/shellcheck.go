// Package shellcheck lints the shell scripts tracked by git.
package shellcheck

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"lintgate/internal/logging"
	"lintgate/internal/proc"
)

// InstallHint is printed after a missing shellcheck binary is reported.
const InstallHint = "Install ShellCheck (https://www.shellcheck.net/) and try again."

// Options configures Run.
type Options struct {
	Dir      string
	Git      string
	Binary   string
	Severity string
	// RCFile is passed to shellcheck only when it exists relative to Dir.
	RCFile   string
	Patterns []string
	Exclude  []string
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
}

// MissingCommandError reports a required executable that could not be found.
type MissingCommandError struct {
	Command string
	Hint    string
}

func (e *MissingCommandError) Error() string {
	if e.Hint == "" {
		return "Missing required command: " + e.Command
	}
	return "Missing required command: " + e.Command + "\n" + e.Hint
}

// LsFilesArgs builds the git ls-files invocation for patterns and excludes.
func LsFilesArgs(patterns, exclude []string) []string {
	args := []string{"ls-files", "-z", "--"}
	args = append(args, patterns...)
	for _, pattern := range exclude {
		args = append(args, ":(exclude)"+pattern)
	}
	return args
}

// SplitNUL splits NUL-delimited output, dropping empty entries.
func SplitNUL(out []byte) []string {
	var files []string
	for _, part := range bytes.Split(out, []byte{0}) {
		if len(part) > 0 {
			files = append(files, string(part))
		}
	}
	return files
}

// TrackedScripts lists the files git tracks under the configured patterns.
func TrackedScripts(ctx context.Context, opts Options) ([]string, error) {
	git := defaultString(opts.Git, "git")
	out, err := proc.Output(ctx, git, LsFilesArgs(opts.Patterns, opts.Exclude), proc.Options{
		Dir:    opts.Dir,
		Stderr: opts.Stderr,
	})
	if err != nil {
		if proc.IsNotFound(err) {
			return nil, &MissingCommandError{Command: git}
		}
		return nil, err
	}
	return SplitNUL(out), nil
}

// Run lists tracked scripts and runs shellcheck over them. It returns nil
// when there is nothing to lint.
func Run(ctx context.Context, opts Options) error {
	stdout := writerOr(opts.Stdout, os.Stdout)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "lint-shell"))

	files, err := TrackedScripts(ctx, opts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(stdout, "No tracked *.sh files; skipping.")
		return nil
	}

	fmt.Fprintln(stdout, "ShellCheck (tracked *.sh):")
	for _, file := range files {
		fmt.Fprintf(stdout, "- %s\n", file)
	}

	binary := defaultString(opts.Binary, "shellcheck")
	args := []string{"-S", defaultString(opts.Severity, "warning")}
	if rc := opts.RCFile; rc != "" {
		rcPath := rc
		if !filepath.IsAbs(rcPath) {
			rcPath = filepath.Join(opts.Dir, rcPath)
		}
		if info, statErr := os.Stat(rcPath); statErr == nil && !info.IsDir() {
			args = append(args, "--rcfile", rcPath)
		}
	}
	args = append(args, files...)

	logger.Debug("running shellcheck",
		logging.String(logging.FieldCommand, binary),
		logging.Int("files", len(files)),
	)
	err = proc.Run(ctx, binary, args, proc.Options{Dir: opts.Dir, Stdout: opts.Stdout, Stderr: opts.Stderr})
	if proc.IsNotFound(err) {
		return &MissingCommandError{Command: binary, Hint: InstallHint}
	}
	return err
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func writerOr(w io.Writer, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
