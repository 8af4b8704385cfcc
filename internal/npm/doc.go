// Package npm invokes the npm and yarn command-line tools on behalf of the
// release gates.
//
// It resolves how to launch each tool (a Node-executable wrapper named by
// npm_execpath or shipped with corepack wins over the bare binary), runs
// package scripts, and parses `npm pack --json` listings into PackResult. Prefer this package over ad-hoc exec.Command usage so every
// invocation shares the same environment overrides and error wording.
package npm
