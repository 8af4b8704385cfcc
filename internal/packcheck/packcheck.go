// Package packcheck verifies that the files npm would publish include the
// required release files and every entrypoint the manifest declares.
package packcheck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lintgate/internal/logging"
	"lintgate/internal/manifest"
	"lintgate/internal/npm"
	"lintgate/internal/worklock"
)

// Options configures Run.
type Options struct {
	Dir           string
	RequiredFiles []string
	Packer        npm.Packer
	// LockPath serializes tarball-producing commands when set.
	LockPath string
	LockWait time.Duration
	Logger   *slog.Logger
}

// MissingError lists paths absent from the pack output.
type MissingError struct {
	Kind  string
	Paths []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("Missing %s in pack output: %s", e.Kind, strings.Join(e.Paths, ", "))
}

// Validate checks a pack listing against the required files and the
// manifest's entrypoints. Required files are checked first; entrypoints are
// only checked once every required file is present.
func Validate(m *manifest.Manifest, packed []string, required []string) error {
	files := manifest.NormalizeAll(packed)

	if missing := missingFrom(files, required); len(missing) > 0 {
		return &MissingError{Kind: "required files", Paths: missing}
	}
	if missing := missingFrom(files, m.Entrypoints()); len(missing) > 0 {
		return &MissingError{Kind: "entrypoints", Paths: missing}
	}
	return nil
}

func missingFrom(files map[string]struct{}, wanted []string) []string {
	var missing []string
	for _, path := range wanted {
		normalized := manifest.Normalize(path)
		if _, ok := files[normalized]; !ok {
			missing = append(missing, normalized)
		}
	}
	return missing
}

// Run packs the package in opts.Dir and validates the listing. The manifest
// is loaded while npm pack runs; the tarball npm writes is removed before Run
// returns, whatever the outcome.
func Run(ctx context.Context, opts Options) (err error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "pack-check"))

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

	var (
		m      *manifest.Manifest
		result *npm.PackResult
	)
	// Not errgroup.WithContext: npm pack must finish so its tarball can be
	// located and removed even when the manifest is broken.
	var g errgroup.Group
	g.Go(func() error {
		loaded, loadErr := manifest.Load(opts.Dir)
		if loadErr != nil {
			return loadErr
		}
		m = loaded
		return nil
	})
	g.Go(func() error {
		packed, packErr := opts.Packer.Pack(ctx, opts.Dir)
		if packErr != nil {
			return packErr
		}
		result = packed
		return nil
	})
	waitErr := g.Wait()

	defer func() {
		if removeErr := npm.RemoveTarball(opts.Dir, result); removeErr != nil && err == nil {
			err = removeErr
		}
	}()

	if waitErr != nil {
		return waitErr
	}

	logger.Debug("pack listing received",
		logging.Int("files", len(result.Files)),
		logging.String("tarball", result.Filename),
	)
	return Validate(m, result.Files, opts.RequiredFiles)
}
