package typecheck

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lintgate/internal/proc"
)

func TestRunSkipsWithoutTSConfig(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	stub := filepath.Join(t.TempDir(), "yarn")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\ntouch "+marker+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	var stdout bytes.Buffer
	if err := Run(context.Background(), Options{Dir: t.TempDir(), Command: stub, Stdout: &stdout}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != SkipMessage {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("checker must not run without tsconfig")
	}
}

func TestRunForwardsExitCode(t *testing.T) {
	repo := t.TempDir()
	if err := os.WriteFile(filepath.Join(repo, "tsconfig.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write tsconfig: %v", err)
	}
	argsFile := filepath.Join(t.TempDir(), "args")
	stub := filepath.Join(t.TempDir(), "yarn")
	body := "#!/bin/sh\npwd > " + argsFile + "\necho \"$@\" >> " + argsFile + "\nexit 2\n"
	if err := os.WriteFile(stub, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	err := Run(context.Background(), Options{Dir: repo, Command: stub, Args: []string{"tsc", "--noEmit"}})
	if proc.ExitCode(err) != 2 {
		t.Fatalf("expected exit 2 forwarded, got %v", err)
	}
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[1] != "tsc --noEmit" {
		t.Fatalf("unexpected invocation %q", data)
	}
	wantDir, _ := filepath.EvalSymlinks(repo)
	if gotDir, _ := filepath.EvalSymlinks(lines[0]); gotDir != wantDir {
		t.Fatalf("checker ran in %q, want %q", lines[0], repo)
	}
}
