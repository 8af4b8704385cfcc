// Package manifest reads npm package manifests (package.json) and resolves the
// module entrypoints they declare.
//
// The exports field is decoded into ExportTarget, a tagged variant of string,
// sequence, and mapping that keeps object keys in document order. Two walks
// operate on it:
//   - Entrypoints unions every reachable leaf. The pack gate uses it to require
//     that every declared condition target is shipped.
//   - ResolveImportEntrypoint returns the first leaf under condition-key
//     preference ordering. The smoke test uses it to pick one file to import.
//
// The walks differ on purpose and must not be merged.
package manifest
