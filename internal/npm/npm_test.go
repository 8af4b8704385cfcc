package npm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func isolatedResolver() Resolver {
	return Resolver{
		Getenv:   func(string) string { return "" },
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
		Exists:   func(string) bool { return false },
		Environ:  func() []string { return []string{"PATH=" + os.Getenv("PATH")} },
	}
}

func TestParsePackJSON(t *testing.T) {
	result, err := ParsePackJSON([]byte(`[{"filename": "pkg-1.0.0.tgz", "files": ["README.md", {"path": "index.mjs"}, 7, {"size": 3}]}]`))
	if err != nil {
		t.Fatalf("ParsePackJSON: %v", err)
	}
	if result.Filename != "pkg-1.0.0.tgz" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if diff := cmp.Diff([]string{"README.md", "index.mjs"}, result.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if got := result.TarballPath("/repo"); got != filepath.Join("/repo", "pkg-1.0.0.tgz") {
		t.Fatalf("unexpected tarball path %q", got)
	}
}

func TestParsePackJSONErrors(t *testing.T) {
	cases := map[string]string{
		"":                  "produced no output",
		"{":                 "was not valid JSON",
		`{"files": []}`:     "did not include a file list",
		`[]`:                "did not include a file list",
		`[{"filename": 1}]`: "did not include a files array",
		`[{"files": {}}]`:   "did not include a files array",
	}
	for input, want := range cases {
		_, err := ParsePackJSON([]byte(input))
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("ParsePackJSON(%q) error %q, want substring %q", input, err, want)
		}
	}
}

func TestFirstFilename(t *testing.T) {
	name, err := FirstFilename([]byte(`[{"filename": "a.tgz"}, {"filename": "b.tgz"}]`))
	if err != nil || name != "a.tgz" {
		t.Fatalf("FirstFilename = %q, %v", name, err)
	}
	for _, input := range []string{`[]`, `[{}]`, `[{"filename": ""}]`, `not json`} {
		if _, err := FirstFilename([]byte(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestResolverPrefersMatchingExecPath(t *testing.T) {
	r := Resolver{
		Getenv: func(key string) string {
			if key == "npm_execpath" {
				return "/opt/yarn/bin/yarn.js"
			}
			return ""
		},
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Exists:   func(string) bool { return false },
		Environ:  func() []string { return nil },
	}

	yarn := r.Runner("yarn")
	if yarn.Command != "/usr/bin/node" {
		t.Fatalf("expected node launcher, got %q", yarn.Command)
	}
	if diff := cmp.Diff([]string{"/opt/yarn/bin/yarn.js", "lint"}, yarn.Args("lint")); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}

	npm := r.NPM("npm")
	if npm.Command != "npm" {
		t.Fatalf("yarn execpath must not be used for npm, got %q", npm.Command)
	}
	if !containsAll(npm.Env, "COREPACK_ENABLE_PROJECT_SPEC=0", "COREPACK_ENABLE_STRICT=0") {
		t.Fatalf("expected corepack overrides in env, got %v", npm.Env)
	}
}

func TestResolverFindsCorepackNextToNode(t *testing.T) {
	want := filepath.Join("/opt/node/bin", "node_modules", "corepack", "dist", "npm.js")
	r := Resolver{
		Getenv:   func(string) string { return "" },
		LookPath: func(string) (string, error) { return "/opt/node/bin/node", nil },
		Exists:   func(path string) bool { return path == want },
		Environ:  func() []string { return nil },
	}
	inv := r.NPM("npm")
	if inv.Command != "/opt/node/bin/node" || len(inv.PrefixArgs) != 1 || inv.PrefixArgs[0] != want {
		t.Fatalf("unexpected invocation %+v", inv)
	}
	if other := r.Runner("pnpm"); other.Command != "pnpm" || len(other.PrefixArgs) != 0 {
		t.Fatalf("non-yarn runner should be used as-is, got %+v", other)
	}
}

func TestPackerPack(t *testing.T) {
	binDir := t.TempDir()
	pkgDir := t.TempDir()
	npmStub := writeStub(t, binDir, "npm", `[ "$1" = "pack" ] || exit 9
touch pkg-1.0.0.tgz
printf '[{"filename":"pkg-1.0.0.tgz","files":[{"path":"index.mjs"}]}]'
`)

	packer := Packer{Binary: npmStub, Resolver: isolatedResolver()}
	result, err := packer.Pack(context.Background(), pkgDir)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if diff := cmp.Diff([]string{"index.mjs"}, result.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	tarball := result.TarballPath(pkgDir)
	if _, err := os.Stat(tarball); err != nil {
		t.Fatalf("expected tarball to exist: %v", err)
	}
	if err := RemoveTarball(pkgDir, result); err != nil {
		t.Fatalf("RemoveTarball: %v", err)
	}
	if _, err := os.Stat(tarball); !os.IsNotExist(err) {
		t.Fatalf("expected tarball removed, stat err %v", err)
	}
	if err := RemoveTarball(pkgDir, result); err != nil {
		t.Fatalf("second RemoveTarball should be a no-op: %v", err)
	}
}

func TestPackerPackFailureIncludesStderr(t *testing.T) {
	npmStub := writeStub(t, t.TempDir(), "npm", "echo 'ENOENT missing LICENSE' >&2\nexit 1\n")
	packer := Packer{Binary: npmStub, Resolver: isolatedResolver()}
	_, err := packer.Pack(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected pack failure")
	}
	if err.Error() != "npm pack --json failed: ENOENT missing LICENSE" {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	runner := writeStub(t, t.TempDir(), "runner", `echo "$1" > "`+marker+`"`+"\n")
	if err := RunScript(context.Background(), isolatedResolver(), runner, dir, "lint"); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if strings.TrimSpace(string(data)) != "lint" {
		t.Fatalf("unexpected script argument %q", data)
	}
}

func containsAll(values []string, wants ...string) bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	for _, w := range wants {
		if !set[w] {
			return false
		}
	}
	return true
}
