// Package main hosts the lintgate CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the lint orchestrator, the shell and
// type checkers, the npm pack gate, the import smoke tests, and the preflight
// sequence that chains them. It centralizes configuration resolution, run
// IDs, and structured logging setup so subcommands can focus on mapping
// outcomes to exit codes.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
