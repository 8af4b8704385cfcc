// Package logging assembles structured slog loggers and formatting helpers used
// across lintgate commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so every line emitted during one
// invocation carries the same run ID. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Logs go to stderr by default: child checkers inherit stdout and stderr, and
// keeping our own diagnostics off stdout leaves machine-readable output (such
// as pack-filename) untouched.
package logging
