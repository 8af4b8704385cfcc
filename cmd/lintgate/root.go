package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dirFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &dirFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "lintgate",
		Short:         "Lint, pack, and release gates for a shared ESLint config package",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.bindRun(cmd)
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default <dir>/lintgate.toml)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "Package repository root (default current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(newLintCommand(ctx))
	rootCmd.AddCommand(newLintShellCommand(ctx))
	rootCmd.AddCommand(newTypecheckCommand(ctx))
	rootCmd.AddCommand(newPackCheckCommand(ctx))
	rootCmd.AddCommand(newPackFilenameCommand())
	rootCmd.AddCommand(newSmokeImportCommand(ctx))
	rootCmd.AddCommand(newSmokeImportPackedCommand(ctx))
	rootCmd.AddCommand(newPreflightCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
