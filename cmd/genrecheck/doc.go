// Package main hosts the genrecheck CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the shuffle evaluation against a local
// model, scores ad-hoc answers offline, manages the movie corpus cache and
// the evaluation history, runs the churn feature pipeline, reports
// readiness, tails the log file, and scaffolds configuration. Configuration
// and logger setup are resolved once per invocation in commandContext so
// subcommands only deal with presentation.
//
// Keep this package lean: add behaviour to the internal packages first and
// surface it here through commands or flags.
package main
