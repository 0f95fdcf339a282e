// Package logging assembles structured slog loggers and formatting helpers used
// across pictowebp.
//
// It owns the configurable console/JSON handlers, routes output to the terminal
// and the run log file, and exposes context-aware helpers so pipeline code can
// tag log lines with run IDs, stages, and worker indexes. The package also
// provides a no-op logger for tests and a sampler that thins progress logs.
package logging
