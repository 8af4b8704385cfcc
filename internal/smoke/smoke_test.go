package smoke

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lintgate/internal/npm"
	"lintgate/internal/worklock"
)

type fixture struct {
	repo    string
	node    string
	packer  npm.Packer
	calls   string
	tempDir string
}

func writeFile(t *testing.T, path, body string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// newFixture creates a package repo plus node and npm stubs that append each
// invocation to a shared log.
func newFixture(t *testing.T, manifestJSON string) fixture {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	repo := filepath.Join(tmp, "repo")
	bin := filepath.Join(tmp, "bin")
	for _, dir := range []string{repo, bin} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	writeFile(t, filepath.Join(repo, "package.json"), manifestJSON, 0o644)

	calls := filepath.Join(tmp, "calls.log")
	node := filepath.Join(bin, "node")
	writeFile(t, node, "#!/bin/sh\necho \"node $3\" >> "+calls+"\n", 0o755)
	npmStub := filepath.Join(bin, "npm")
	writeFile(t, npmStub, `#!/bin/sh
echo "npm $1 $2" >> `+calls+`
if [ "$1" = "pack" ]; then
  touch cfg-1.0.0.tgz
  printf '[{"filename":"cfg-1.0.0.tgz","files":["index.mjs"]}]'
fi
`, 0o755)

	return fixture{
		repo:  repo,
		node:  node,
		calls: calls,
		packer: npm.Packer{
			Binary: npmStub,
			Resolver: npm.Resolver{
				Getenv:   func(string) string { return "" },
				LookPath: func(string) (string, error) { return "", errors.New("not found") },
				Exists:   func(string) bool { return false },
				Environ:  os.Environ,
			},
		},
		tempDir: tmp,
	}
}

func (f fixture) options(env map[string]string, stdout *bytes.Buffer) Options {
	return Options{
		Dir:        f.repo,
		NodeBinary: f.node,
		Packer:     f.packer,
		LockPath:   worklock.PathFor(f.repo),
		Getenv:     func(key string) string { return env[key] },
		Stdout:     stdout,
	}
}

func (f fixture) readCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.calls)
	if err != nil {
		t.Fatalf("read calls: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunInstallsAndImportsPackedTarball(t *testing.T) {
	f := newFixture(t, `{"name": "@scope/cfg", "exports": {".": {"import": "./index.mjs"}}}`)

	if err := Run(context.Background(), f.options(nil, &bytes.Buffer{})); err != nil {
		t.Fatalf("Run: %v", err)
	}

	calls := f.readCalls(t)
	if len(calls) != 4 {
		t.Fatalf("unexpected calls %q", calls)
	}
	if !strings.HasPrefix(calls[0], "node file://") || !strings.HasSuffix(calls[0], "/repo/index.mjs") {
		t.Fatalf("expected workspace import first, got %q", calls[0])
	}
	if calls[1] != "npm pack --json" {
		t.Fatalf("expected npm pack, got %q", calls[1])
	}
	if !strings.HasPrefix(calls[2], "npm install ") || !strings.HasSuffix(calls[2], "cfg-1.0.0.tgz") {
		t.Fatalf("expected tarball install, got %q", calls[2])
	}
	if calls[3] != "node @scope/cfg" {
		t.Fatalf("expected packed import by name, got %q", calls[3])
	}

	if _, err := os.Stat(filepath.Join(f.repo, "cfg-1.0.0.tgz")); !os.IsNotExist(err) {
		t.Fatalf("expected tarball removed, stat err %v", err)
	}
	if locks, _ := filepath.Glob(filepath.Join(f.repo, "*.lock")); len(locks) != 0 {
		t.Fatalf("lock file left in package dir: %v", locks)
	}
	matches, err := filepath.Glob(filepath.Join(f.tempDir, "eslint-config-pack-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected temp project removed, found %v", matches)
	}
}

func TestRunSkipOutsideCI(t *testing.T) {
	f := newFixture(t, `{"name": "cfg", "main": "index.js"}`)

	var stdout bytes.Buffer
	err := Run(context.Background(), f.options(map[string]string{"SKIP_PACKED_IMPORT": "1"}, &stdout))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Skipping packed tarball import") {
		t.Fatalf("expected skip notice, got %q", stdout.String())
	}
	if calls := f.readCalls(t); len(calls) != 1 {
		t.Fatalf("expected only the workspace import, got %q", calls)
	}
}

func TestRunRejectsSkipInCI(t *testing.T) {
	f := newFixture(t, `{"name": "cfg", "main": "index.js"}`)

	err := Run(context.Background(), f.options(map[string]string{"SKIP_PACKED_IMPORT": "yes", "CI": "true"}, &bytes.Buffer{}))
	if !errors.Is(err, ErrSkipInCI) {
		t.Fatalf("expected ErrSkipInCI, got %v", err)
	}
}

func TestRunBlankSkipValueDoesNotSkip(t *testing.T) {
	f := newFixture(t, `{"name": "cfg", "main": "index.js"}`)

	if err := Run(context.Background(), f.options(map[string]string{"SKIP_PACKED_IMPORT": "  ", "CI": "1"}, &bytes.Buffer{})); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls := f.readCalls(t); len(calls) != 4 {
		t.Fatalf("expected full smoke run, got %q", calls)
	}
}

func TestRunManifestErrors(t *testing.T) {
	f := newFixture(t, `{"main": "index.js"}`)
	err := Run(context.Background(), f.options(nil, &bytes.Buffer{}))
	if err == nil || err.Error() != "package.json is missing a package name" {
		t.Fatalf("unexpected error %v", err)
	}

	f = newFixture(t, `{"name": "cfg"}`)
	err = Run(context.Background(), f.options(nil, &bytes.Buffer{}))
	if err == nil || !strings.Contains(err.Error(), "Unable to resolve a workspace entrypoint") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRunCleansUpWhenInstallFails(t *testing.T) {
	f := newFixture(t, `{"name": "cfg", "main": "index.js"}`)
	writeFile(t, f.packer.Binary, `#!/bin/sh
if [ "$1" = "pack" ]; then
  touch cfg-1.0.0.tgz
  printf '[{"filename":"cfg-1.0.0.tgz","files":[]}]'
  exit 0
fi
exit 7
`, 0o755)

	err := Run(context.Background(), f.options(nil, &bytes.Buffer{}))
	if err == nil {
		t.Fatal("expected install failure")
	}
	if _, statErr := os.Stat(filepath.Join(f.repo, "cfg-1.0.0.tgz")); !os.IsNotExist(statErr) {
		t.Fatalf("expected tarball removed, stat err %v", statErr)
	}
	if matches, _ := filepath.Glob(filepath.Join(f.tempDir, "eslint-config-pack-*")); len(matches) != 0 {
		t.Fatalf("expected temp project removed, found %v", matches)
	}
}

func TestClassifyExports(t *testing.T) {
	if err := classifyExports("cfg", []string{"default", "rules"}); err != nil {
		t.Fatalf("default export should pass: %v", err)
	}
	err := classifyExports("cfg", nil)
	if err == nil || err.Error() != `module "cfg" has no exports` {
		t.Fatalf("unexpected error %v", err)
	}
	err = classifyExports("cfg", []string{"configs", "rules"})
	if err == nil || err.Error() != "expected default export; only named exports found: configs, rules" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCheckDefaultExport(t *testing.T) {
	node := filepath.Join(t.TempDir(), "node")
	writeFile(t, node, "#!/bin/sh\nprintf '[\"default\"]'\n", 0o755)
	if err := CheckDefaultExport(context.Background(), node, t.TempDir(), "cfg"); err != nil {
		t.Fatalf("CheckDefaultExport: %v", err)
	}

	writeFile(t, node, "#!/bin/sh\nprintf '[\"named\"]'\n", 0o755)
	if err := CheckDefaultExport(context.Background(), node, t.TempDir(), "cfg"); err == nil {
		t.Fatal("expected missing default export error")
	}
}

func TestFileURL(t *testing.T) {
	if got := FileURL("/tmp/a b/index.mjs"); got != "file:///tmp/a%20b/index.mjs" {
		t.Fatalf("unexpected url %q", got)
	}
}
