package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLint(); err != nil {
		return err
	}
	if err := c.validateShellCheck(); err != nil {
		return err
	}
	if err := c.validateSmoke(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLint() error {
	if len(c.Lint.Jobs) == 0 {
		return errors.New("lint.jobs must define at least one job")
	}
	seen := make(map[string]struct{}, len(c.Lint.Jobs))
	for i, job := range c.Lint.Jobs {
		if job.Label == "" {
			return fmt.Errorf("lint.jobs[%d].label must be set", i)
		}
		if _, ok := seen[job.Label]; ok {
			return fmt.Errorf("lint.jobs[%d].label %q is not unique", i, job.Label)
		}
		seen[job.Label] = struct{}{}
		if job.Self && job.Command != "" {
			return fmt.Errorf("lint.jobs[%d] sets both command and self", i)
		}
		if !job.Self && job.Command == "" {
			return fmt.Errorf("lint.jobs[%d].command must be set", i)
		}
	}
	return nil
}

func (c *Config) validateShellCheck() error {
	switch c.ShellCheck.Severity {
	case "error", "warning", "info", "style":
	default:
		return fmt.Errorf("shellcheck.severity: unsupported value %q", c.ShellCheck.Severity)
	}
	if len(c.ShellCheck.Patterns) == 0 {
		return errors.New("shellcheck.patterns must not be empty")
	}
	return nil
}

func (c *Config) validateSmoke() error {
	if c.Smoke.CIEnv == c.Smoke.SkipEnv {
		return errors.New("smoke.ci_env and smoke.skip_env must name different variables")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
