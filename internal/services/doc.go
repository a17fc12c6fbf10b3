// Package services holds the error markers and context helpers shared by the
// components that call out to external systems (the movie corpus download and
// the language model endpoint).
//
// Wrap tags an error with one of the exported sentinel markers so callers can
// classify failures with errors.Is without parsing messages. The context
// helpers carry the run and movie identifiers that the logging package turns
// into structured fields.
package services
