package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest file read from a package directory.
const FileName = "package.json"

// Manifest holds the package.json fields lintgate consumes.
type Manifest struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Main    string            `json:"main"`
	Exports ExportTarget      `json:"exports"`
	Scripts map[string]string `json:"scripts"`
	Files   []string          `json:"files"`
}

// Load reads and parses dir/package.json.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse validates the manifest shape and decodes it.
func Parse(data []byte) (*Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("package.json content is empty")
	}
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	if err := validateShape(data); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return &m, nil
}

// HasScript reports whether the manifest defines a non-empty script name.
func (m *Manifest) HasScript(name string) bool {
	return m.Script(name) != ""
}

// Script returns the command registered for name.
func (m *Manifest) Script(name string) string {
	if m == nil || m.Scripts == nil {
		return ""
	}
	return m.Scripts[name]
}

// Entrypoints returns every declared entrypoint, normalized and deduplicated:
// main first, then every leaf reachable through exports.
func (m *Manifest) Entrypoints() []string {
	if m == nil {
		return nil
	}
	var raw []string
	if m.Main != "" {
		raw = append(raw, m.Main)
	}
	raw = m.Exports.collectLeaves(raw)

	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		normalized := Normalize(entry)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// ResolveImportEntrypoint picks the single file a consumer import would load:
// the "." subpath when present, then the first preferred condition leaf, then
// main. The path is returned as written in the manifest.
func (m *Manifest) ResolveImportEntrypoint() (string, bool) {
	if m == nil {
		return "", false
	}
	if entry, ok := resolveExports(m.Exports); ok {
		return entry, true
	}
	if m.Main != "" {
		return m.Main, true
	}
	return "", false
}

func resolveExports(exports ExportTarget) (string, bool) {
	if root, ok := exports.Lookup("."); ok && truthy(root) {
		return resolveExports(root)
	}
	return exports.firstLeaf()
}

// truthy mirrors how a "." entry is tested before descending into it.
func truthy(t ExportTarget) bool {
	switch t.Kind {
	case ExportString:
		return t.Path != ""
	case ExportSequence, ExportMapping:
		return true
	default:
		return false
	}
}
