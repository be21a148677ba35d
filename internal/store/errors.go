package store

import "errors"

var (
	// ErrInvalidTransition is returned when a state change would violate the
	// candidate or dedup state machine (e.g. rejecting an already-posted
	// product). Callers treat it as a reported no-op, not a crash.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlreadyDecided is returned when approving or rejecting a candidate
	// that already left the pending state.
	ErrAlreadyDecided = errors.New("candidate already decided")

	// ErrCandidateNotFound is returned for decisions on unknown candidate ids.
	ErrCandidateNotFound = errors.New("candidate not found")
)
