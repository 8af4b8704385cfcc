package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lintgate/internal/smoke"
	"lintgate/internal/worklock"
)

func newSmokeImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke-import",
		Short: "Import the package from the working tree and from its packed tarball",
		Long: "Import the resolved entrypoint from the working tree, then pack the package,\n" +
			"install the tarball into a temporary project, and import it by name.\n" +
			"Set SKIP_PACKED_IMPORT to skip the tarball step outside CI.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.setup()
			if err != nil {
				return err
			}
			err = smoke.Run(cmd.Context(), smoke.Options{
				Dir:        cfg.Root,
				NodeBinary: cfg.Smoke.NodeBinary,
				CIEnv:      cfg.Smoke.CIEnv,
				SkipEnv:    cfg.Smoke.SkipEnv,
				TempPrefix: cfg.Smoke.TempPrefix,
				Packer:     ctx.packer(cfg),
				LockPath:   worklock.PathFor(cfg.Root),
				LockWait:   packLockWait,
				Stdout:     cmd.OutOrStdout(),
				Logger:     logger,
			})
			if err != nil {
				return actionFailed("smoke import failed", err)
			}
			return nil
		},
	}
}

func newSmokeImportPackedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke-import-packed <package>",
		Short: "Import an installed package by name and require a default export",
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0 || args[0] == "":
				return &usageError{err: errors.New(`Missing package name argument. Usage: lintgate smoke-import-packed "@scope/pkg"`)}
			case len(args) > 1:
				return &usageError{err: fmt.Errorf("expected exactly one package name, got %d arguments", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := smoke.CheckDefaultExport(cmd.Context(), cfg.Smoke.NodeBinary, flagValue(ctx.dirFlag), args[0]); err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			return nil
		},
	}
}
