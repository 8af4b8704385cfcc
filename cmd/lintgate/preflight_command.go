package main

import (
	"errors"

	"github.com/spf13/cobra"

	"lintgate/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Run the lint script and the optional release scripts in order",
		Long: "Run the required lint script, then each of lint:shell, typecheck, and test that\n" +
			"package.json defines. The first failing script stops the sequence.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.setup()
			if err != nil {
				return err
			}
			err = preflight.RunScripts(cmd.Context(), preflight.OptionsFromConfig(cfg, logger))
			if err == nil {
				return nil
			}
			var missing *preflight.MissingScriptError
			if errors.As(err, &missing) {
				return &exitError{code: exitFailure, err: err}
			}
			return actionFailed("preflight failed", err)
		},
	}
}
