package npm

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var jsScriptPattern = regexp.MustCompile(`(?i)\.c?m?js$`)

// Invocation is a resolved way of launching a package-manager CLI.
type Invocation struct {
	Command    string
	PrefixArgs []string
	Env        []string
}

// Args prepends the invocation prefix to args.
func (i Invocation) Args(args ...string) []string {
	out := make([]string, 0, len(i.PrefixArgs)+len(args))
	out = append(out, i.PrefixArgs...)
	return append(out, args...)
}

// Resolver decides how to launch npm and yarn. The zero value uses the real
// environment and filesystem.
type Resolver struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Exists   func(string) bool
	Environ  func() []string
}

func (r Resolver) getenv(key string) string {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.Getenv(key)
}

func (r Resolver) lookPath(name string) (string, error) {
	if r.LookPath != nil {
		return r.LookPath(name)
	}
	return exec.LookPath(name)
}

func (r Resolver) exists(path string) bool {
	if r.Exists != nil {
		return r.Exists(path)
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (r Resolver) environ() []string {
	if r.Environ != nil {
		return r.Environ()
	}
	return os.Environ()
}

// NPM resolves the npm CLI. Corepack project pinning and strict mode are
// disabled so packing works regardless of the packageManager field.
func (r Resolver) NPM(binary string) Invocation {
	env := append(r.environ(),
		"COREPACK_ENABLE_PROJECT_SPEC=0",
		"COREPACK_ENABLE_STRICT=0",
	)
	inv := r.resolve(binary, "npm")
	inv.Env = env
	return inv
}

// Runner resolves the script runner. Only yarn has wrapper candidates; any
// other runner is launched as-is.
func (r Resolver) Runner(runner string) Invocation {
	if runner != "yarn" {
		return Invocation{Command: runner}
	}
	return r.resolve(runner, "yarn")
}

// resolve prefers, in order: the JS entrypoint named by npm_execpath when it
// belongs to tool, a corepack-shipped tool.js next to node, then binary.
func (r Resolver) resolve(binary, tool string) Invocation {
	execPath := r.getenv("npm_execpath")
	if execPath != "" && jsScriptPattern.MatchString(execPath) && strings.Contains(strings.ToLower(filepath.Base(execPath)), tool) {
		if node, err := r.lookPath("node"); err == nil {
			return Invocation{Command: node, PrefixArgs: []string{execPath}}
		}
	}

	if node, err := r.lookPath("node"); err == nil {
		nodeDir := filepath.Dir(node)
		candidates := []string{
			filepath.Join(nodeDir, "node_modules", "corepack", "dist", tool+".js"),
			filepath.Join(nodeDir, "..", "lib", "node_modules", "corepack", "dist", tool+".js"),
		}
		for _, candidate := range candidates {
			if r.exists(candidate) {
				return Invocation{Command: node, PrefixArgs: []string{candidate}}
			}
		}
	}

	return Invocation{Command: binary}
}
