// Package smoke checks that the package can be imported, both from the
// working tree and as a consumer would after installing the packed tarball.
package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lintgate/internal/logging"
	"lintgate/internal/manifest"
	"lintgate/internal/npm"
	"lintgate/internal/proc"
	"lintgate/internal/worklock"
)

// ErrSkipInCI rejects skipping the packed import on CI.
var ErrSkipInCI = errors.New("SKIP_PACKED_IMPORT is set in CI; packed import must not be skipped.")

const (
	importScript  = `import(process.argv[1]).catch((err) => { console.error(err); process.exit(1); });`
	exportsScript = `import(process.argv[1]).then((mod) => { process.stdout.write(JSON.stringify(Object.keys(mod))); }).catch((err) => { console.error(err); process.exit(1); });`
)

// Options configures Run.
type Options struct {
	Dir        string
	NodeBinary string
	CIEnv      string
	SkipEnv    string
	TempPrefix string
	Packer     npm.Packer
	LockPath   string
	LockWait   time.Duration
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	Stdout io.Writer
	Logger *slog.Logger
}

func (o Options) getenv(key string) string {
	if o.Getenv != nil {
		return o.Getenv(key)
	}
	return os.Getenv(key)
}

func (o Options) node() string {
	if o.NodeBinary == "" {
		return "node"
	}
	return o.NodeBinary
}

// Run imports the working-tree entrypoint and then, unless skipped, installs
// the packed tarball into a temporary project and imports the package by
// name. The tarball and temporary project are removed on every path.
func Run(ctx context.Context, opts Options) (err error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "smoke-import"))
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	m, err := manifest.Load(opts.Dir)
	if err != nil {
		return err
	}
	if m.Name == "" {
		return errors.New("package.json is missing a package name")
	}
	entrypoint, ok := m.ResolveImportEntrypoint()
	if !ok {
		return errors.New("Unable to resolve a workspace entrypoint from package.json")
	}

	absEntry := entrypoint
	if !filepath.IsAbs(absEntry) {
		absEntry = filepath.Join(opts.Dir, entrypoint)
	}
	logger.Debug("importing workspace entrypoint", logging.String("entrypoint", absEntry))
	if err := runNode(ctx, opts.node(), opts.Dir, importScript, FileURL(absEntry)); err != nil {
		return fmt.Errorf("import %s: %w", entrypoint, err)
	}

	skip := strings.TrimSpace(opts.getenv(defaultString(opts.SkipEnv, "SKIP_PACKED_IMPORT"))) != ""
	ci := opts.getenv(defaultString(opts.CIEnv, "CI")) != ""
	if skip && ci {
		return ErrSkipInCI
	}
	if skip {
		fmt.Fprintln(stdout, "Skipping packed tarball import because SKIP_PACKED_IMPORT is set.")
		return nil
	}

	if opts.LockPath != "" {
		lock, lockErr := worklock.Acquire(ctx, opts.LockPath, opts.LockWait)
		if lockErr != nil {
			return lockErr
		}
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				logger.Warn("failed to release pack lock", logging.Error(releaseErr))
			}
		}()
	}

	result, err := opts.Packer.Pack(ctx, opts.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := npm.RemoveTarball(opts.Dir, result); removeErr != nil && err == nil {
			err = removeErr
		}
	}()
	if result.Filename == "" {
		return errors.New("npm pack --json did not return a tarball filename")
	}

	tempDir, err := os.MkdirTemp("", defaultString(opts.TempPrefix, "eslint-config-pack-")+"*")
	if err != nil {
		return fmt.Errorf("create temp project: %w", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(tempDir); removeErr != nil && err == nil {
			err = fmt.Errorf("remove temp project: %w", removeErr)
		}
	}()

	logger.Debug("installing packed tarball",
		logging.String("tarball", result.Filename),
		logging.String("temp_dir", tempDir),
	)
	if err := opts.Packer.Install(ctx, tempDir, result.TarballPath(opts.Dir)); err != nil {
		return err
	}
	return runNode(ctx, opts.node(), tempDir, importScript, m.Name)
}

// CheckDefaultExport imports pkg the way a consumer would and requires a
// default export.
func CheckDefaultExport(ctx context.Context, node, dir, pkg string) error {
	out, err := proc.Output(ctx, defaultString(node, "node"), []string{"-e", exportsScript, pkg}, proc.Options{Dir: dir})
	if err != nil {
		return err
	}
	var names []string
	if err := json.Unmarshal(out, &names); err != nil {
		return fmt.Errorf("read exports of %q: %w", pkg, err)
	}
	return classifyExports(pkg, names)
}

func classifyExports(pkg string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("module %q has no exports", pkg)
	}
	for _, name := range names {
		if name == "default" {
			return nil
		}
	}
	return fmt.Errorf("expected default export; only named exports found: %s", strings.Join(names, ", "))
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func runNode(ctx context.Context, node, dir, script, arg string) error {
	return proc.Run(ctx, node, []string{"-e", script, arg}, proc.Options{Dir: dir})
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
