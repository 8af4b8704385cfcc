package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExportKind tags the shape of an ExportTarget.
type ExportKind int

const (
	// ExportNone covers null, booleans, and numbers; they never name a file.
	ExportNone ExportKind = iota
	ExportString
	ExportSequence
	ExportMapping
)

// ExportTarget is one node of a package.json exports value.
type ExportTarget struct {
	Kind    ExportKind
	Path    string
	Items   []ExportTarget
	Entries []ExportEntry
}

// ExportEntry is a key of an exports mapping, in document order.
type ExportEntry struct {
	Key    string
	Target ExportTarget
}

// preferredConditions is the condition-key order used when choosing a single
// importable entrypoint.
var preferredConditions = []string{"import", "default", "require", "node", "browser", "development", "production"}

// Lookup returns the mapping value stored under key.
func (t ExportTarget) Lookup(key string) (ExportTarget, bool) {
	if t.Kind != ExportMapping {
		return ExportTarget{}, false
	}
	for _, entry := range t.Entries {
		if entry.Key == key {
			return entry.Target, true
		}
	}
	return ExportTarget{}, false
}

// collectLeaves appends every reachable non-empty leaf. Condition keys are not
// distinguished.
func (t ExportTarget) collectLeaves(dst []string) []string {
	switch t.Kind {
	case ExportString:
		if t.Path != "" {
			dst = append(dst, t.Path)
		}
	case ExportSequence:
		for _, item := range t.Items {
			dst = item.collectLeaves(dst)
		}
	case ExportMapping:
		for _, entry := range t.Entries {
			dst = entry.Target.collectLeaves(dst)
		}
	}
	return dst
}

// firstLeaf walks depth-first and returns the first non-empty leaf. At each
// mapping level the preferred condition keys are tried before the remaining
// keys, which follow document order.
func (t ExportTarget) firstLeaf() (string, bool) {
	switch t.Kind {
	case ExportString:
		return t.Path, t.Path != ""
	case ExportSequence:
		for _, item := range t.Items {
			if leaf, ok := item.firstLeaf(); ok {
				return leaf, true
			}
		}
	case ExportMapping:
		for _, key := range preferredConditions {
			if value, ok := t.Lookup(key); ok {
				if leaf, ok := value.firstLeaf(); ok {
					return leaf, true
				}
			}
		}
		for _, entry := range t.Entries {
			if isPreferredCondition(entry.Key) {
				continue
			}
			if leaf, ok := entry.Target.firstLeaf(); ok {
				return leaf, true
			}
		}
	}
	return "", false
}

func isPreferredCondition(key string) bool {
	for _, candidate := range preferredConditions {
		if candidate == key {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes an exports value while keeping object key order.
func (t *ExportTarget) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	target, err := decodeExportTarget(dec)
	if err != nil {
		return fmt.Errorf("decode exports: %w", err)
	}
	*t = target
	return nil
}

func decodeExportTarget(dec *json.Decoder) (ExportTarget, error) {
	tok, err := dec.Token()
	if err != nil {
		return ExportTarget{}, err
	}
	switch value := tok.(type) {
	case string:
		return ExportTarget{Kind: ExportString, Path: value}, nil
	case json.Delim:
		switch value {
		case '[':
			target := ExportTarget{Kind: ExportSequence}
			for dec.More() {
				item, err := decodeExportTarget(dec)
				if err != nil {
					return ExportTarget{}, err
				}
				target.Items = append(target.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return ExportTarget{}, err
			}
			return target, nil
		case '{':
			target := ExportTarget{Kind: ExportMapping}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return ExportTarget{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return ExportTarget{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := decodeExportTarget(dec)
				if err != nil {
					return ExportTarget{}, err
				}
				target.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return ExportTarget{}, err
			}
			return target, nil
		}
	}
	return ExportTarget{}, nil
}

// set keeps the first position of a repeated key and the last value, matching
// how JSON objects behave once parsed by Node.
func (t *ExportTarget) set(key string, value ExportTarget) {
	for i := range t.Entries {
		if t.Entries[i].Key == key {
			t.Entries[i].Target = value
			return
		}
	}
	t.Entries = append(t.Entries, ExportEntry{Key: key, Target: value})
}

// String builds an ExportTarget leaf.
func String(path string) ExportTarget {
	return ExportTarget{Kind: ExportString, Path: path}
}

// Sequence builds an ExportTarget list.
func Sequence(items ...ExportTarget) ExportTarget {
	return ExportTarget{Kind: ExportSequence, Items: items}
}

// Mapping builds an ExportTarget object from entries.
func Mapping(entries ...ExportEntry) ExportTarget {
	target := ExportTarget{Kind: ExportMapping}
	for _, entry := range entries {
		target.set(entry.Key, entry.Target)
	}
	return target
}
