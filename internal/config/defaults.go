package config

const (
	defaultConfigFileName   = "lintgate.toml"
	defaultShellCheckBinary = "shellcheck"
	defaultShellSeverity    = "warning"
	defaultShellRCFile      = ".shellcheckrc"
	defaultNPMBinary        = "npm"
	defaultNodeBinary       = "node"
	defaultGitBinary        = "git"
	defaultCIEnv            = "CI"
	defaultSkipPackedEnv    = "SKIP_PACKED_IMPORT"
	defaultTempPrefix       = "eslint-config-pack-"
	defaultTSConfig         = "tsconfig.json"
	defaultRunner           = "yarn"
	defaultRequiredScript   = "lint"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Lint: Lint{
			Jobs: []Job{
				{Label: "eslint", Command: defaultRunner, Args: []string{"eslint", "."}},
				{Label: "shellcheck", Self: true, Args: []string{"lint-shell"}},
			},
		},
		ShellCheck: ShellCheck{
			Binary:   defaultShellCheckBinary,
			Git:      defaultGitBinary,
			Severity: defaultShellSeverity,
			RCFile:   defaultShellRCFile,
			Patterns: []string{"*.sh", "**/*.sh"},
			Exclude:  []string{".specify/scripts/**"},
		},
		Pack: Pack{
			RequiredFiles: []string{"eslint.config.mjs", "index.mjs", "README.md", "LICENSE"},
			NPMBinary:     defaultNPMBinary,
		},
		Smoke: Smoke{
			NodeBinary: defaultNodeBinary,
			CIEnv:      defaultCIEnv,
			SkipEnv:    defaultSkipPackedEnv,
			TempPrefix: defaultTempPrefix,
		},
		Typecheck: Typecheck{
			TSConfig: defaultTSConfig,
			Command:  defaultRunner,
			Args:     []string{"tsc", "--noEmit"},
		},
		Preflight: Preflight{
			Runner:          defaultRunner,
			RequiredScript:  defaultRequiredScript,
			OptionalScripts: []string{"lint:shell", "typecheck", "test"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
