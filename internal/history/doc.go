// Package history persists finished conversion runs and their per-file
// failures in a SQLite database under the state directory.
//
// The store is written once per run by the convert command and read by the
// history commands. Writes retry briefly on SQLITE_BUSY so concurrent runs
// against different output roots can share one database.
package history
