package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeLint()
	c.normalizeShellCheck()
	c.normalizePack()
	c.normalizeSmoke()
	c.normalizeTypecheck()
	c.normalizePreflight()
	c.normalizeLogging()
}

func (c *Config) normalizeLint() {
	for i := range c.Lint.Jobs {
		job := &c.Lint.Jobs[i]
		job.Label = strings.TrimSpace(job.Label)
		job.Command = strings.TrimSpace(job.Command)
	}
}

func (c *Config) normalizeShellCheck() {
	c.ShellCheck.Binary = trimOr(c.ShellCheck.Binary, defaultShellCheckBinary)
	c.ShellCheck.Git = trimOr(c.ShellCheck.Git, defaultGitBinary)
	c.ShellCheck.Severity = strings.ToLower(trimOr(c.ShellCheck.Severity, defaultShellSeverity))
	c.ShellCheck.RCFile = strings.TrimSpace(c.ShellCheck.RCFile)
	c.ShellCheck.Patterns = compact(c.ShellCheck.Patterns)
	c.ShellCheck.Exclude = compact(c.ShellCheck.Exclude)
}

func (c *Config) normalizePack() {
	c.Pack.RequiredFiles = compact(c.Pack.RequiredFiles)
	c.Pack.NPMBinary = trimOr(c.Pack.NPMBinary, defaultNPMBinary)
}

func (c *Config) normalizeSmoke() {
	c.Smoke.NodeBinary = trimOr(c.Smoke.NodeBinary, defaultNodeBinary)
	c.Smoke.CIEnv = trimOr(c.Smoke.CIEnv, defaultCIEnv)
	c.Smoke.SkipEnv = trimOr(c.Smoke.SkipEnv, defaultSkipPackedEnv)
	c.Smoke.TempPrefix = trimOr(c.Smoke.TempPrefix, defaultTempPrefix)
}

func (c *Config) normalizeTypecheck() {
	c.Typecheck.TSConfig = trimOr(c.Typecheck.TSConfig, defaultTSConfig)
	c.Typecheck.Command = trimOr(c.Typecheck.Command, defaultRunner)
	if len(c.Typecheck.Args) == 0 {
		c.Typecheck.Args = []string{"tsc", "--noEmit"}
	}
}

func (c *Config) normalizePreflight() {
	c.Preflight.Runner = trimOr(c.Preflight.Runner, defaultRunner)
	c.Preflight.RequiredScript = trimOr(c.Preflight.RequiredScript, defaultRequiredScript)
	c.Preflight.OptionalScripts = compact(c.Preflight.OptionalScripts)
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("LINTGATE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(trimOr(c.Logging.Level, defaultLogLevel))
	c.Logging.Format = strings.ToLower(trimOr(c.Logging.Format, defaultLogFormat))
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if strings.HasPrefix(c.Logging.File, "~") {
		if expanded, err := expandPath(c.Logging.File); err == nil {
			c.Logging.File = expanded
		}
	}
}

func trimOr(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

// compact trims entries and drops blanks and duplicates, keeping order.
func compact(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
