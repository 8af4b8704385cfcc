// Package preflight runs the release checklist for the package and provides
// readiness checks for the tools and paths lintgate depends on.
//
// These checks run in two contexts:
//   - "lintgate preflight" calls RunScripts, which runs the required lint
//     script and then each optional script the manifest defines, stopping at
//     the first failure.
//   - "lintgate doctor" uses RunAll and CheckSystemDeps to display tooling
//     and repository health without running anything.
package preflight
