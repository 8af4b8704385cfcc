package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lintgate/internal/npm"
	"lintgate/internal/packcheck"
	"lintgate/internal/worklock"
)

func newPackCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pack-check",
		Short: "Verify npm pack output includes required files and entrypoints",
		Long: "Run `npm pack --json` and verify the listing contains every required release file\n" +
			"and every entrypoint named by package.json main and exports. Prints nothing on success.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.setup()
			if err != nil {
				return err
			}
			err = packcheck.Run(cmd.Context(), packcheck.Options{
				Dir:           cfg.Root,
				RequiredFiles: cfg.Pack.RequiredFiles,
				Packer:        ctx.packer(cfg),
				LockPath:      worklock.PathFor(cfg.Root),
				LockWait:      packLockWait,
				Logger:        logger,
			})
			if err != nil {
				return actionFailed("pack check failed", err)
			}
			return nil
		},
	}
}

func newPackFilenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "pack-filename",
		Short:       "Print the tarball filename from `npm pack --json` output on stdin",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err == nil {
				var name string
				name, err = npm.FirstFilename(input)
				if err == nil {
					_, err = fmt.Fprint(cmd.OutOrStdout(), name)
					return err
				}
			}
			return &exitError{code: exitFailure, err: errors.New("Failed to parse npm pack --json output: " + err.Error())}
		},
	}
}
