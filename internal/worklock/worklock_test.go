package worklock

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAcquireExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lintgate.lock")

	first, err := Acquire(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := Acquire(context.Background(), path, 0); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while held, got %v", err)
	}
	if _, err := Acquire(context.Background(), path, 250*time.Millisecond); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy after waiting, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	second, err := Acquire(context.Background(), path, time.Second)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if second.Path() != path {
		t.Fatalf("unexpected path %q", second.Path())
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestReleaseNil(t *testing.T) {
	var lock *Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}

func TestPathForIsOutsideCheckout(t *testing.T) {
	root := t.TempDir()
	path := PathFor(root)
	if strings.HasPrefix(path, root+string(filepath.Separator)) {
		t.Fatalf("lock path %q is inside the checkout", path)
	}
	if PathFor(root+"/") != path {
		t.Fatal("trailing separator must not change the lock path")
	}
	if PathFor(filepath.Join(root, "other")) == path {
		t.Fatal("different checkouts must not share a lock")
	}
}
