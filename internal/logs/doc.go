// Package logs reads genrecheck.log for the `genrecheck logs` command.
//
// Tail returns the last N matching lines with bounded memory and the byte
// offset reached, and Follow polls from that offset until the context ends.
// Match filters lines, which is how logs are narrowed to one run id.
package logs
