package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Job describes one external check launched by the lint runner.
type Job struct {
	Label   string   `toml:"label"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	// Self runs the lintgate executable itself with Args instead of Command.
	Self bool `toml:"self"`
}

// Lint contains the concurrent lint job list.
type Lint struct {
	Jobs []Job `toml:"jobs"`
}

// ShellCheck contains configuration for linting tracked shell scripts.
type ShellCheck struct {
	Binary   string   `toml:"binary"`
	Git      string   `toml:"git"`
	Severity string   `toml:"severity"`
	RCFile   string   `toml:"rcfile"`
	Patterns []string `toml:"patterns"`
	Exclude  []string `toml:"exclude"`
}

// Pack contains configuration for the npm pack gate.
type Pack struct {
	RequiredFiles []string `toml:"required_files"`
	NPMBinary     string   `toml:"npm_binary"`
}

// Smoke contains configuration for the import smoke tests.
type Smoke struct {
	NodeBinary string `toml:"node_binary"`
	CIEnv      string `toml:"ci_env"`
	SkipEnv    string `toml:"skip_env"`
	TempPrefix string `toml:"temp_prefix"`
}

// Typecheck contains configuration for the typecheck wrapper.
type Typecheck struct {
	TSConfig string   `toml:"tsconfig"`
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
}

// Preflight contains the ordered package scripts run before a release.
type Preflight struct {
	Runner          string   `toml:"runner"`
	RequiredScript  string   `toml:"required_script"`
	OptionalScripts []string `toml:"optional_scripts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File, when set, also receives every log line. Relative paths resolve
	// against the repository root.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for lintgate.
//
// Configuration sections by subsystem:
//   - Lint: jobs run concurrently by `lintgate lint`
//   - ShellCheck: tracked shell script discovery and checker flags
//   - Pack: required files and npm binary for the pack gate
//   - Smoke: node binary and CI/skip environment variable names
//   - Typecheck: tsconfig location and type-checker command
//   - Preflight: required and optional package scripts
//   - Logging: log format and level
type Config struct {
	// Root is the absolute repository root every command operates in.
	Root string `toml:"-"`

	Lint       Lint       `toml:"lint"`
	ShellCheck ShellCheck `toml:"shellcheck"`
	Pack       Pack       `toml:"pack"`
	Smoke      Smoke      `toml:"smoke"`
	Typecheck  Typecheck  `toml:"typecheck"`
	Preflight  Preflight  `toml:"preflight"`
	Logging    Logging    `toml:"logging"`
}

// Load locates, parses, and validates a configuration file for the repository
// rooted at root. An empty path selects lintgate.toml inside root; a missing
// file yields defaults.
func Load(root, path string) (*Config, string, bool, error) {
	cfg := Default()

	absRoot, err := filepath.Abs(strings.TrimSpace(defaultString(root, ".")))
	if err != nil {
		return nil, "", false, fmt.Errorf("resolve repository root: %w", err)
	}
	cfg.Root = absRoot

	resolvedPath, exists, err := resolveConfigPath(absRoot, path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Array tables would otherwise extend the default job list.
		defaultJobs := cfg.Lint.Jobs
		cfg.Lint.Jobs = nil

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Lint.Jobs) == 0 {
			cfg.Lint.Jobs = defaultJobs
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(root, path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(strings.TrimSpace(path))
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath := filepath.Join(root, defaultConfigFileName)
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return projectPath, false, nil
}

// DefaultConfigPath returns the project configuration path for root.
func DefaultConfigPath(root string) (string, error) {
	absRoot, err := filepath.Abs(defaultString(root, "."))
	if err != nil {
		return "", fmt.Errorf("resolve repository root: %w", err)
	}
	return filepath.Join(absRoot, defaultConfigFileName), nil
}

// RepoPath joins rel onto the repository root. Absolute paths pass through.
func (c *Config) RepoPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

// LogFilePath returns the resolved log file, or "" when file logging is off.
func (c *Config) LogFilePath() string {
	if c.Logging.File == "" {
		return ""
	}
	return c.RepoPath(c.Logging.File)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
