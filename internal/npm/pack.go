package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lintgate/internal/proc"
)

// PackResult is the parsed output of `npm pack --json`.
type PackResult struct {
	// Items holds every pack item as raw JSON.
	Items []json.RawMessage
	// Files lists the paths of the first item's files in listing order.
	Files []string
	// Filename is the tarball name of the first item, or "" when absent.
	Filename string
}

// TarballPath returns the absolute tarball path inside dir, or "" when the
// listing carried no filename.
func (r *PackResult) TarballPath(dir string) string {
	if r == nil || r.Filename == "" {
		return ""
	}
	return filepath.Join(dir, r.Filename)
}

type packItem struct {
	Filename *string           `json:"filename"`
	Files    []json.RawMessage `json:"files"`
}

// ParsePackJSON parses `npm pack --json` output. File entries may be bare path
// strings or objects with a path field; anything else is skipped.
func ParsePackJSON(stdout []byte) (*PackResult, error) {
	if len(bytes.TrimSpace(stdout)) == 0 {
		return nil, errors.New("npm pack --json produced no output")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(stdout, &items); err != nil {
		var probe any
		if jsonErr := json.Unmarshal(stdout, &probe); jsonErr != nil {
			return nil, fmt.Errorf("npm pack --json output was not valid JSON: %w", jsonErr)
		}
		return nil, errors.New("npm pack --json output did not include a file list")
	}
	if len(items) == 0 {
		return nil, errors.New("npm pack --json output did not include a file list")
	}

	var first packItem
	if err := json.Unmarshal(items[0], &first); err != nil || first.Files == nil {
		return nil, errors.New("npm pack --json output did not include a files array")
	}

	result := &PackResult{Items: items}
	if first.Filename != nil {
		result.Filename = *first.Filename
	}
	for _, raw := range first.Files {
		if path, ok := filePath(raw); ok {
			result.Files = append(result.Files, path)
		}
	}
	return result, nil
}

func filePath(raw json.RawMessage) (string, bool) {
	var path string
	if err := json.Unmarshal(raw, &path); err == nil {
		return path, true
	}
	var entry struct {
		Path *string `json:"path"`
	}
	if err := json.Unmarshal(raw, &entry); err == nil && entry.Path != nil {
		return *entry.Path, true
	}
	return "", false
}

// FirstFilename returns the tarball filename of the first pack item.
func FirstFilename(stdout []byte) (string, error) {
	var items []struct {
		Filename any `json:"filename"`
	}
	if err := json.Unmarshal(stdout, &items); err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", errors.New("npm pack --json output did not include a filename")
	}
	name, ok := items[0].Filename.(string)
	if !ok || name == "" {
		return "", errors.New("npm pack --json output did not include a filename")
	}
	return name, nil
}

// Packer runs `npm pack --json` in a package directory.
type Packer struct {
	Binary   string
	Resolver Resolver
}

// Pack runs the pack command in dir and parses its listing. The tarball npm
// writes into dir is left for the caller to remove.
func (p Packer) Pack(ctx context.Context, dir string) (*PackResult, error) {
	inv := p.Resolver.NPM(defaultBinary(p.Binary, "npm"))
	cmd := exec.CommandContext(ctx, inv.Command, inv.Args("pack", "--json")...) //nolint:gosec
	cmd.Dir = dir
	cmd.Env = inv.Env
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.Output()
	if err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = err.Error()
		}
		return nil, fmt.Errorf("npm pack --json failed: %s", message)
	}
	result, err := ParsePackJSON(stdout)
	if err != nil {
		return nil, fmt.Errorf("npm pack --json failed: %w", err)
	}
	return result, nil
}

// Install runs `npm install <spec>` in dir with inherited stdio.
func (p Packer) Install(ctx context.Context, dir, spec string) error {
	inv := p.Resolver.NPM(defaultBinary(p.Binary, "npm"))
	return proc.Run(ctx, inv.Command, inv.Args("install", spec), proc.Options{Dir: dir, Env: inv.Env})
}

// RunScript runs a package script through runner (yarn by default).
func RunScript(ctx context.Context, resolver Resolver, runner, dir, script string) error {
	inv := resolver.Runner(defaultBinary(runner, "yarn"))
	return proc.Run(ctx, inv.Command, inv.Args(script), proc.Options{Dir: dir, Env: inv.Env})
}

// RemoveTarball deletes the tarball named by result inside dir. A missing
// file is not an error.
func RemoveTarball(dir string, result *PackResult) error {
	path := result.TarballPath(dir)
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove tarball: %w", err)
	}
	return nil
}

func defaultBinary(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
