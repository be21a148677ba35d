// Package logging builds the application slog logger and the shared
// structured-field vocabulary used across the curation pipeline.
package logging
