// Package logging assembles the structured slog loggers used across
// romaudit.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers plus the standardized field names so
// every component tags log lines the same way. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
