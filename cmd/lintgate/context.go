package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lintgate/internal/config"
	"lintgate/internal/logging"
	"lintgate/internal/npm"
)

const packLockWait = 30 * time.Second

type commandContext struct {
	configFlag   *string
	dirFlag      *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	cmd *cobra.Command
}

func newCommandContext(configFlag, dirFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		dirFlag:      dirFlag,
		logLevelFlag: logLevelFlag,
	}
}

// bindRun tags the command context with a fresh run ID.
func (c *commandContext) bindRun(cmd *cobra.Command) {
	c.cmd = cmd
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	cmd.SetContext(logging.WithRunID(base, uuid.NewString()))
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.dirFlag), flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath, c.configExists = path, exists
		if level := strings.ToLower(flagValue(c.logLevelFlag)); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = &usageError{err: fmt.Errorf("--log-level: %w", err)}
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var w io.Writer = os.Stderr
		if c.cmd != nil {
			w = c.cmd.ErrOrStderr()
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, w)
	})
	return c.logger, c.loggerErr
}

// setup returns the loaded config and logger for a command run.
func (c *commandContext) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func (c *commandContext) packer(cfg *config.Config) npm.Packer {
	return npm.Packer{Binary: cfg.Pack.NPMBinary}
}

// selfArgs returns the persistent flags a re-invoked lintgate needs to see
// the same repository and configuration.
func (c *commandContext) selfArgs(cfg *config.Config) []string {
	args := []string{"--dir", cfg.Root}
	if path := flagValue(c.configFlag); path != "" {
		if expanded, err := config.ExpandPath(path); err == nil {
			if abs, err := filepath.Abs(expanded); err == nil {
				path = abs
			}
		}
		args = append(args, "--config", path)
	}
	if level := flagValue(c.logLevelFlag); level != "" {
		args = append(args, "--log-level", level)
	}
	return args
}

func flagValue(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
