// Package services defines shared utilities consumed by the curation pipeline
// and the external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp product IDs, candidate IDs, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into run-aborting vs per-item degradations.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
