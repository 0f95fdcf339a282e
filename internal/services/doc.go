// Package services defines shared utilities consumed by the conversion
// pipeline and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and worker indexes
//     for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses and exit codes.
package services
