// Package shuffle runs one end-to-end evaluation: pick a random labelled
// movie, ask the model for its genres, score the answer against the corpus
// labels, and optionally record the result.
//
// The Runner holds no global state. The movie source, picker, classifier and
// recorder are injected, which keeps the workflow testable with fakes and lets
// the CLI decide whether history is enabled.
package shuffle
