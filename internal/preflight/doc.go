// Package preflight provides readiness checks for the filesystem paths,
// corpus, history store and model endpoint genrecheck depends on.
//
// The CLI "genrecheck status" command runs RunAll and renders one status line
// per Result. Checks for disabled features report Passed with a "Disabled"
// detail instead of being skipped, so the output always has the same rows.
package preflight
