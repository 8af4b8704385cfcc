package preflight

import (
	"context"
	"fmt"
	"log/slog"

	"lintgate/internal/config"
	"lintgate/internal/logging"
	"lintgate/internal/manifest"
	"lintgate/internal/npm"
)

// Result reports the outcome of a single readiness check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options configures RunScripts.
type Options struct {
	Dir             string
	Runner          string
	RequiredScript  string
	OptionalScripts []string
	Resolver        npm.Resolver
	Logger          *slog.Logger
}

// MissingScriptError reports a required package script that is not defined.
type MissingScriptError struct {
	Script string
}

func (e *MissingScriptError) Error() string {
	return fmt.Sprintf("Missing required %q script in package.json.", e.Script)
}

// OptionsFromConfig builds script options from the preflight config section.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Dir:             cfg.Root,
		Runner:          cfg.Preflight.Runner,
		RequiredScript:  cfg.Preflight.RequiredScript,
		OptionalScripts: cfg.Preflight.OptionalScripts,
		Logger:          logger,
	}
}

// Plan returns the scripts RunScripts would run for m, in order.
func Plan(m *manifest.Manifest, required string, optional []string) ([]string, error) {
	if !m.HasScript(required) {
		return nil, &MissingScriptError{Script: required}
	}
	scripts := []string{required}
	for _, name := range optional {
		if name != required && m.HasScript(name) {
			scripts = append(scripts, name)
		}
	}
	return scripts, nil
}

// RunScripts runs the required script and then every optional script the
// manifest defines, in order. The first failing script stops the sequence.
func RunScripts(ctx context.Context, opts Options) error {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "preflight"))

	m, err := manifest.Load(opts.Dir)
	if err != nil {
		return err
	}
	required := opts.RequiredScript
	if required == "" {
		required = "lint"
	}
	scripts, err := Plan(m, required, opts.OptionalScripts)
	if err != nil {
		return err
	}

	for _, script := range scripts {
		logger.Info("running script", logging.String("script", script))
		if err := npm.RunScript(ctx, opts.Resolver, opts.Runner, opts.Dir, script); err != nil {
			return err
		}
	}
	return nil
}
