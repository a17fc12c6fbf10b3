// Package history persists shuffle evaluations in SQLite so agreement between
// the model and the corpus can be tracked across runs.
//
// The schema is embedded and versioned through a schema_version table. When
// the stored version differs from the compiled one, Open fails with
// ErrSchemaMismatch; there are no in-place migrations and users clear the
// database instead. Writes retry briefly on SQLITE_BUSY so concurrent CLI
// invocations do not fail outright.
package history
