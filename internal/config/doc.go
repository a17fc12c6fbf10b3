// Package config loads, normalizes, and validates genrecheck configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GENRECHECK_LLM_API_KEY. The Config type centralizes every knob the CLI
// needs: where the movie corpus lives, which model endpoint to ask, where
// evaluation history is stored, and how logs are shaped.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and field-qualified validation
// errors.
package config
