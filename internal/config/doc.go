// Package config loads, normalizes, and validates lintgate configuration data.
//
// It supplies repository defaults, reads the optional lintgate.toml file from
// the repository root, and honours environment fallbacks such as
// LINTGATE_LOG_LEVEL. The Config type centralizes every knob the lint runner,
// pack gate, and smoke tests need so the commands can be wired in one pass.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, an absolute repository root, and clear validation errors.
package config
