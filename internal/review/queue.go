// Package review exposes the human decision gate: listing pending candidate
// pins and recording a single, final approve or reject verdict per candidate.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Hali-creater/AuraPin/internal/logging"
	"github.com/Hali-creater/AuraPin/internal/store"
)

// Queue wraps the candidate store with review semantics.
type Queue struct {
	store  *store.Store
	logger *slog.Logger
}

// NewQueue constructs a review queue.
func NewQueue(st *store.Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Queue{
		store:  st,
		logger: logger.With(logging.String(logging.FieldComponent, "review")),
	}
}

// Pending lists candidates that still await a verdict.
func (q *Queue) Pending(ctx context.Context) ([]*store.Candidate, error) {
	return q.store.Candidates(ctx, store.StatusPending)
}

// List returns candidates in the given statuses, or all when none are given.
func (q *Queue) List(ctx context.Context, statuses ...store.Status) ([]*store.Candidate, error) {
	return q.store.Candidates(ctx, statuses...)
}

// Get fetches one candidate by id, nil when absent.
func (q *Queue) Get(ctx context.Context, id int64) (*store.Candidate, error) {
	return q.store.GetCandidate(ctx, id)
}

// Approve marks a pending candidate approved for publishing. A candidate
// that already carries a verdict is rejected with store.ErrAlreadyDecided.
func (q *Queue) Approve(ctx context.Context, id int64) (*store.Candidate, error) {
	candidate, err := q.store.TransitionCandidate(ctx, id, store.StatusApproved, "")
	if err != nil {
		return nil, err
	}
	q.logger.Info("candidate approved", logging.Args(
		logging.Int64(logging.FieldCandidateID, candidate.ID),
		logging.String(logging.FieldProductID, candidate.ProductID),
	)...)
	return candidate, nil
}

// Reject marks a pending candidate rejected and records the verdict against
// the product so operators can see it was reviewed. Rejected products stay
// eligible for future curation runs.
func (q *Queue) Reject(ctx context.Context, id int64) (*store.Candidate, error) {
	candidate, err := q.store.TransitionCandidate(ctx, id, store.StatusRejected, "")
	if err != nil {
		return nil, err
	}
	if err := q.store.RecordRejected(ctx, candidate.ProductID); err != nil {
		return nil, fmt.Errorf("record rejection for %s: %w", candidate.ProductID, err)
	}
	q.logger.Info("candidate rejected", logging.Args(
		logging.Int64(logging.FieldCandidateID, candidate.ID),
		logging.String(logging.FieldProductID, candidate.ProductID),
	)...)
	return candidate, nil
}
