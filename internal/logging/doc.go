// Package logging builds the structured slog loggers used by diarist.
//
// Console output is a compact human-readable line written to stderr so that
// transcripts printed on stdout stay clean; JSON output keeps the same field
// names for machine consumption. When file logging is enabled every record is
// also appended, as JSON, to the configured log file.
//
// Context helpers tag records with the job identifier, workflow stage, and
// request correlation ID stored on a context by the services package.
package logging
