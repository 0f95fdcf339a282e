// Package preflight provides readiness checks for the filesystem paths a
// conversion run depends on.
//
// The convert command calls RunAll after discovery and before touching the
// output root. Access failures stop the run; a free-space shortfall is only
// advisory and is logged as a warning.
package preflight
