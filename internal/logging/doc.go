// Package logging assembles the structured slog loggers used by the m3urepo
// commands.
//
// Console output goes to a compact human handler; when a log directory is
// configured every record is also written as JSON to a size-rotated file.
// Context helpers tag records with the issue number, catalog kind, and run
// correlation id so a single ingest can be followed across components.
package logging
