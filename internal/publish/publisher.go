// Package publish posts approved candidate pins and commits the durable
// posted record once the external call has succeeded.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Hali-creater/AuraPin/internal/feed"
	"github.com/Hali-creater/AuraPin/internal/logging"
	"github.com/Hali-creater/AuraPin/internal/services"
	"github.com/Hali-creater/AuraPin/internal/services/pinterest"
	"github.com/Hali-creater/AuraPin/internal/store"
)

// Poster creates a pin on the posting service and returns its id.
type Poster interface {
	CreatePin(ctx context.Context, req pinterest.PinRequest) (string, error)
}

// PostResult describes the outcome of publishing one candidate.
type PostResult struct {
	Candidate *store.Candidate
	PinID     string
	Simulated bool
	Err       error
}

// Publisher pushes approved candidates to the posting service. In simulation
// mode the post is a logged no-op that still succeeds and writes the same
// durable record a real post would, so downstream behavior is identical.
type Publisher struct {
	poster   Poster
	store    *store.Store
	simulate bool
	logger   *slog.Logger
}

// New constructs a publisher.
func New(poster Poster, st *store.Store, simulate bool, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Publisher{
		poster:   poster,
		store:    st,
		simulate: simulate,
		logger:   logger.With(logging.String(logging.FieldComponent, "publish")),
	}
}

// Simulating reports whether posts are simulated instead of sent.
func (p *Publisher) Simulating() bool {
	return p.simulate
}

// Publish posts one approved (or previously failed) candidate. The posted
// dedup record is written strictly after the post call succeeds; a posting
// failure moves the candidate to post_failed and leaves the product eligible
// for a later retry.
func (p *Publisher) Publish(ctx context.Context, id int64) (*PostResult, error) {
	candidate, err := p.store.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, store.ErrCandidateNotFound
	}
	if !store.CanTransition(candidate.Status, store.StatusPosted) {
		return nil, fmt.Errorf("candidate %d is %s: %w", id, candidate.Status, store.ErrInvalidTransition)
	}

	ctx = services.WithCandidateID(services.WithProductID(ctx, candidate.ProductID), candidate.ID)
	logger := logging.WithContext(ctx, p.logger)

	result := &PostResult{Candidate: candidate, Simulated: p.simulate}
	pinID, postErr := p.post(ctx, candidate, logger)
	if postErr != nil {
		if _, terr := p.store.TransitionCandidate(ctx, candidate.ID, store.StatusPostFailed, postErr.Error()); terr != nil {
			return nil, fmt.Errorf("mark candidate %d post_failed: %w", candidate.ID, terr)
		}
		logger.Warn("pin post failed, candidate kept for retry", logging.Args(logging.Error(postErr))...)
		result.Err = postErr
		return result, nil
	}

	if err := p.store.RecordPosted(ctx, candidate.ProductID, pinID); err != nil {
		return nil, fmt.Errorf("record posted outcome for %s: %w", candidate.ProductID, err)
	}
	updated, err := p.store.TransitionCandidate(ctx, candidate.ID, store.StatusPosted, "")
	if err != nil {
		return nil, fmt.Errorf("mark candidate %d posted: %w", candidate.ID, err)
	}

	result.Candidate = updated
	result.PinID = pinID
	logger.Info("pin posted", logging.Args(
		logging.String("pin_id", pinID),
		logging.Bool("simulated", p.simulate),
	)...)
	return result, nil
}

// PublishApproved publishes every approved candidate plus earlier failures
// that are due for retry. A posting failure is recorded on its candidate and
// never aborts the rest of the batch.
func (p *Publisher) PublishApproved(ctx context.Context) ([]*PostResult, error) {
	candidates, err := p.store.Candidates(ctx, store.StatusApproved, store.StatusPostFailed)
	if err != nil {
		return nil, err
	}

	results := make([]*PostResult, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := p.Publish(ctx, candidate.ID)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Publisher) post(ctx context.Context, candidate *store.Candidate, logger *slog.Logger) (string, error) {
	if p.simulate {
		pinID := "simulated_" + uuid.NewString()
		logger.Info("simulation mode, skipping pinterest call", logging.Args(logging.String("pin_id", pinID))...)
		return pinID, nil
	}

	var product feed.Product
	if err := json.Unmarshal([]byte(candidate.ProductJSON), &product); err != nil {
		return "", services.Wrap(services.ErrPostFailed, "publish", "post", "decode candidate product", err)
	}
	return p.poster.CreatePin(ctx, pinterest.PinRequest{
		Title:       candidate.Title,
		Description: candidate.Description,
		Link:        product.AffiliateURL,
		ImagePath:   candidate.ImagePath,
	})
}
