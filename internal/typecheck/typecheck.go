// Package typecheck runs the TypeScript compiler in no-emit mode when the
// repository has a tsconfig.
package typecheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"lintgate/internal/proc"
)

// SkipMessage is printed when there is no tsconfig to check against.
const SkipMessage = "Typecheck skipped: no tsconfig.json found."

// Options configures Run.
type Options struct {
	Dir      string
	TSConfig string
	Command  string
	Args     []string
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run type-checks the repository. A missing tsconfig is reported as a skip
// and returns nil; otherwise the checker's exit status is returned as a
// *proc.ExitError.
func Run(ctx context.Context, opts Options) error {
	tsconfig := opts.TSConfig
	if tsconfig == "" {
		tsconfig = "tsconfig.json"
	}
	if !filepath.IsAbs(tsconfig) {
		tsconfig = filepath.Join(opts.Dir, tsconfig)
	}
	if _, err := os.Stat(tsconfig); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			stdout := opts.Stdout
			if stdout == nil {
				stdout = os.Stdout
			}
			fmt.Fprintln(stdout, SkipMessage)
			return nil
		}
		return fmt.Errorf("stat tsconfig: %w", err)
	}

	command := opts.Command
	args := opts.Args
	if command == "" {
		command = "yarn"
		args = []string{"tsc", "--noEmit"}
	}
	return proc.Run(ctx, command, args, proc.Options{Dir: opts.Dir, Stdout: opts.Stdout, Stderr: opts.Stderr})
}
