// Package logging assembles structured slog loggers and formatting helpers used
// across scriptqa.
//
// It owns the configurable console/JSON handlers, size-rotated log files, and
// exposes context-aware helpers so request handling code can automatically tag
// log lines with correlation and session IDs. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
