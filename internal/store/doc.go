// Package store owns all persisted curation state: the dedup_records table
// preventing a product from ever being posted twice, and the candidate_pins
// table backing the operator review queue. Both live in one SQLite database
// opened in WAL mode with busy retry, so concurrent in-process readers and a
// writer are safe, and the dedup unique key holds even across processes.
package store
