package manifest

import "strings"

// Normalize converts a manifest or pack-listing path into the relative,
// forward-slash form used for set membership. "./lib/a.js", "/lib/a.js", and
// "lib\a.js" all normalize to "lib/a.js".
func Normalize(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimPrefix(path, "./")
	return strings.TrimLeft(path, "/")
}

// NormalizeAll normalizes paths into a set.
func NormalizeAll(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		set[Normalize(path)] = struct{}{}
	}
	return set
}
