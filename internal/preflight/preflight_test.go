package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lintgate/internal/config"
	"lintgate/internal/manifest"
	"lintgate/internal/npm"
	"lintgate/internal/proc"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckManifest(t *testing.T) {
	dir := t.TempDir()
	if result := CheckManifest(dir); result.Passed {
		t.Fatal("expected failure without package.json")
	}
	writeManifest(t, dir, `{"name": "cfg", "main": "index.mjs"}`)
	result := CheckManifest(dir)
	if !result.Passed || result.Detail != "cfg (1 entrypoints)" {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestRunAll(t *testing.T) {
	cfg := config.Default()
	cfg.Root = t.TempDir()
	writeManifest(t, cfg.Root, `{"name": "cfg"}`)

	results := RunAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("unexpected failure %#v", result)
		}
	}
	if results[2].Detail != "absent (typecheck skipped)" {
		t.Fatalf("unexpected tsconfig detail %q", results[2].Detail)
	}
	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestCheckSystemDepsIncludesJobCommands(t *testing.T) {
	cfg := config.Default()
	cfg.Lint.Jobs = append(cfg.Lint.Jobs, config.Job{Label: "markdown", Command: "markdownlint"})

	statuses := CheckSystemDeps(&cfg)
	var names []string
	for _, status := range statuses {
		names = append(names, status.Name)
	}
	want := []string{"Node.js", "npm", "Script runner", "git", "ShellCheck", "Lint job markdown"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("requirement names mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan(t *testing.T) {
	m := &manifest.Manifest{Scripts: map[string]string{"lint": "x", "test": "y", "typecheck": "z"}}
	got, err := Plan(m, "lint", []string{"lint:shell", "typecheck", "test"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if diff := cmp.Diff([]string{"lint", "typecheck", "test"}, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}

	_, err = Plan(&manifest.Manifest{}, "lint", nil)
	var missing *MissingScriptError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingScriptError, got %v", err)
	}
	if err.Error() != `Missing required "lint" script in package.json.` {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRunScriptsStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"name": "cfg", "scripts": {"lint": "a", "lint:shell": "b", "typecheck": "c", "test": "d"}}`)

	calls := filepath.Join(t.TempDir(), "calls")
	runner := filepath.Join(t.TempDir(), "runner")
	body := "#!/bin/sh\necho \"$1\" >> " + calls + "\n[ \"$1\" = \"typecheck\" ] && exit 5\nexit 0\n"
	if err := os.WriteFile(runner, []byte(body), 0o755); err != nil {
		t.Fatalf("write runner: %v", err)
	}

	err := RunScripts(context.Background(), Options{
		Dir:             dir,
		Runner:          runner,
		RequiredScript:  "lint",
		OptionalScripts: []string{"lint:shell", "typecheck", "test"},
		Resolver:        isolatedResolver(),
	})
	if proc.ExitCode(err) != 5 {
		t.Fatalf("expected typecheck failure, got %v", err)
	}
	data, err := os.ReadFile(calls)
	if err != nil {
		t.Fatalf("read calls: %v", err)
	}
	if got := strings.Fields(string(data)); !cmp.Equal(got, []string{"lint", "lint:shell", "typecheck"}) {
		t.Fatalf("unexpected script sequence %v", got)
	}
}

func TestRunScriptsRequiresLint(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `{"name": "cfg", "scripts": {"test": "d"}}`)
	err := RunScripts(context.Background(), Options{Dir: dir, Runner: "true", Resolver: isolatedResolver()})
	if err == nil || !strings.Contains(err.Error(), `"lint" script`) {
		t.Fatalf("unexpected error %v", err)
	}
}

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func isolatedResolver() npm.Resolver {
	return npm.Resolver{
		Getenv:   func(string) string { return "" },
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
		Exists:   func(string) bool { return false },
		Environ:  os.Environ,
	}
}
