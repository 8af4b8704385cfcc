package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"lintgate/internal/config"
	"lintgate/internal/deps"
	"lintgate/internal/manifest"
)

// RunAll evaluates repository readiness for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Repository root", cfg.Root),
		CheckManifest(cfg.Root),
	}

	// A missing tsconfig only skips the typecheck.
	tsconfig := Result{Name: "tsconfig", Passed: true, Detail: "absent (typecheck skipped)"}
	if _, err := os.Stat(cfg.RepoPath(cfg.Typecheck.TSConfig)); err == nil {
		tsconfig.Detail = cfg.Typecheck.TSConfig
	}
	results = append(results, tsconfig)

	return results
}

// CheckManifest verifies package.json parses and names a package.
func CheckManifest(dir string) Result {
	const name = "package.json"

	m, err := manifest.Load(dir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if m.Name == "" {
		return Result{Name: name, Detail: "missing package name"}
	}
	entries := m.Entrypoints()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entrypoints)", m.Name, len(entries))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tools the configured commands run,
// including the executables of configured lint jobs.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Node.js",
			Command:     cfg.Smoke.NodeBinary,
			Description: "Required for import smoke tests",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "npm",
			Command:     cfg.Pack.NPMBinary,
			Description: "Required for pack-check and smoke-import",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "Script runner",
			Command:     cfg.Preflight.Runner,
			Description: "Runs package scripts for preflight",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "git",
			Command:     cfg.ShellCheck.Git,
			Description: "Lists tracked shell scripts",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "ShellCheck",
			Command:     cfg.ShellCheck.Binary,
			Description: "Lints tracked shell scripts",
			Optional:    true,
			VersionArgs: []string{"--version"},
		},
	}
	for _, job := range cfg.Lint.Jobs {
		if job.Self || job.Command == "" || filepath.Base(job.Command) == filepath.Base(cfg.Preflight.Runner) {
			continue
		}
		requirements = append(requirements, deps.Requirement{
			Name:        "Lint job " + job.Label,
			Command:     job.Command,
			Description: "Launched by lintgate lint",
		})
	}
	return deps.CheckBinaries(requirements)
}
