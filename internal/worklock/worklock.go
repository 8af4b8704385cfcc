// Package worklock serializes commands that write npm pack tarballs into the
// same checkout.
package worklock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = 100 * time.Millisecond

// ErrBusy is returned when another process keeps the lock past the wait limit.
var ErrBusy = errors.New("another lintgate pack operation is running in this checkout")

// PathFor returns the lock path for the checkout at root. The file lives in
// the system temp directory so npm pack never sees it.
func PathFor(root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(os.TempDir(), "lintgate-"+hex.EncodeToString(sum[:8])+".lock")
}

// Lock is an acquired advisory lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock at path, retrying until wait elapses or ctx ends.
// A non-positive wait tries exactly once.
func Acquire(ctx context.Context, path string, wait time.Duration) (*Lock, error) {
	fl := flock.New(path)

	if wait <= 0 {
		ok, err := fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", path, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w (%s)", ErrBusy, path)
		}
		return &Lock{path: path, lock: fl}, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ok, err := fl.TryLockContext(waitCtx, retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w (%s)", ErrBusy, path)
		}
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrBusy, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file stays on disk.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
