package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lintgate/internal/config"
	"lintgate/internal/jobrunner"
	"lintgate/internal/logging"
	"lintgate/internal/proc"
	"lintgate/internal/shellcheck"
	"lintgate/internal/typecheck"
)

func newLintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run every configured lint job concurrently",
		Long: "Run every configured lint job concurrently and exit 0 only when all of them pass.\n" +
			"A job that cannot be started stops the run and terminates the others.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.setup()
			if err != nil {
				return err
			}
			jobs, err := lintJobs(cfg, ctx.selfArgs(cfg))
			if err != nil {
				return err
			}

			signals, stop := jobrunner.NotifySignals()
			defer stop()

			runner := jobrunner.New(logger)
			runner.Spawner = jobrunner.ExecSpawner{Dir: cfg.Root}
			runner.Signals = signals
			return exitWith(runner.Run(cmd.Context(), jobs))
		},
	}
}

// lintJobs expands configured jobs; self jobs re-invoke this executable.
func lintJobs(cfg *config.Config, selfPrefix []string) ([]jobrunner.Job, error) {
	jobs := make([]jobrunner.Job, 0, len(cfg.Lint.Jobs))
	var self string
	for _, job := range cfg.Lint.Jobs {
		if !job.Self {
			jobs = append(jobs, jobrunner.Job{Label: job.Label, Command: job.Command, Args: job.Args})
			continue
		}
		if self == "" {
			exe, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("resolve executable: %w", err)
			}
			self = exe
		}
		args := append(append([]string(nil), selfPrefix...), job.Args...)
		jobs = append(jobs, jobrunner.Job{Label: job.Label, Command: self, Args: args})
	}
	return jobs, nil
}

func newLintShellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lint-shell",
		Short: "Run ShellCheck over git-tracked shell scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.setup()
			if err != nil {
				return err
			}
			err = shellcheck.Run(cmd.Context(), shellcheck.Options{
				Dir:      cfg.Root,
				Git:      cfg.ShellCheck.Git,
				Binary:   cfg.ShellCheck.Binary,
				Severity: cfg.ShellCheck.Severity,
				RCFile:   cfg.ShellCheck.RCFile,
				Patterns: cfg.ShellCheck.Patterns,
				Exclude:  cfg.ShellCheck.Exclude,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
				Logger:   logger,
			})
			return checkerResult(err)
		},
	}
}

func newTypecheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck",
		Short: "Type-check the package when it has a tsconfig.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.setup()
			if err != nil {
				return err
			}
			logging.NewComponentLogger(logger, "typecheck").Debug("running typecheck",
				logging.String(logging.FieldCommand, cfg.Typecheck.Command),
				logging.Strings("args", cfg.Typecheck.Args),
			)
			err = typecheck.Run(cmd.Context(), typecheck.Options{
				Dir:      cfg.Root,
				TSConfig: cfg.Typecheck.TSConfig,
				Command:  cfg.Typecheck.Command,
				Args:     cfg.Typecheck.Args,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
			})
			return checkerResult(err)
		},
	}
}

// checkerResult forwards a checker's exit status. The checker already
// printed its findings, so non-zero exits are silent.
func checkerResult(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *proc.ExitError
	if errors.As(err, &exitErr) {
		return exitWith(proc.ExitCode(err))
	}
	return &exitError{code: exitFailure, err: err}
}
