// Package logging assembles structured slog loggers and formatting helpers used
// across genrecheck.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can tag log
// lines with run and movie identifiers. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Console output goes to stderr by default so command output on stdout stays
// clean for piping (for example `genrecheck shuffle --json | jq`).
package logging
