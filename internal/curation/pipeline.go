package curation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Hali-creater/AuraPin/internal/content"
	"github.com/Hali-creater/AuraPin/internal/feed"
	"github.com/Hali-creater/AuraPin/internal/images"
	"github.com/Hali-creater/AuraPin/internal/logging"
	"github.com/Hali-creater/AuraPin/internal/services"
	"github.com/Hali-creater/AuraPin/internal/store"
)

// ProductStream is the lazy sequence the pipeline consumes.
type ProductStream interface {
	Next() (feed.Product, error)
	Close() error
}

// FeedSource fetches the product feed.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) (ProductStream, error)
}

// ImagePreparer produces a ready-to-post image artifact for a product.
type ImagePreparer interface {
	Prepare(ctx context.Context, imageURL string) (*images.Artifact, error)
}

// Result summarizes one curation run.
type Result struct {
	RunID         string
	Candidates    []*store.Candidate
	Malformed     int
	AlreadyPosted int
	ImageFailures int
}

// Pipeline turns feed products into pending candidate pins: stream, filter
// already-posted ids, generate content, prepare images, persist pending
// candidates bounded by a per-run limit.
type Pipeline struct {
	feed      FeedSource
	store     *store.Store
	generator content.Generator
	images    ImagePreparer
	logger    *slog.Logger
}

// New constructs a pipeline.
func New(source FeedSource, st *store.Store, generator content.Generator, preparer ImagePreparer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		feed:      source,
		store:     st,
		generator: generator,
		images:    preparer,
		logger:    logger.With(logging.String(logging.FieldComponent, "curation")),
	}
}

// Run executes one curation batch. Only a feed transport failure aborts the
// run; malformed entries and per-item generation or image failures degrade to
// flagged candidates or skips so the operator always gets a complete batch.
func (p *Pipeline) Run(ctx context.Context, feedURL string, maxProducts int) (*Result, error) {
	if maxProducts <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "curation", "run", "max products must be positive", nil)
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)

	// Pending review state belongs to one batch; a new run starts clean.
	if cleared, err := p.store.ClearUndecided(ctx); err != nil {
		return nil, fmt.Errorf("clear undecided candidates: %w", err)
	} else if cleared > 0 {
		logger.Info("cleared undecided candidates from previous run", logging.Args(logging.Int64("count", cleared))...)
	}

	stream, err := p.feed.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	logger.Info("curation run started", logging.Args(logging.Int("max_products", maxProducts))...)

	result := &Result{RunID: runID}
	for len(result.Candidates) < maxProducts {
		product, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, services.ErrMalformedEntry) {
				result.Malformed++
				logger.Warn("skipping malformed feed entry", logging.Args(logging.Error(err))...)
				continue
			}
			// A stream that fails mid-read is a transport failure.
			return nil, services.Wrap(services.ErrFeedUnavailable, "curation", "stream", "read feed entry", err)
		}

		posted, err := p.store.HasPosted(ctx, product.ID)
		if err != nil {
			return nil, fmt.Errorf("dedup lookup for %s: %w", product.ID, err)
		}
		if posted {
			result.AlreadyPosted++
			logger.Debug("skipping already posted product", logging.Args(logging.String(logging.FieldProductID, product.ID))...)
			continue
		}

		candidate, err := p.buildCandidate(services.WithProductID(ctx, product.ID), runID, product, result)
		if err != nil {
			return nil, err
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	logger.Info("curation run finished", logging.Args(
		logging.Int("candidates", len(result.Candidates)),
		logging.Int("malformed", result.Malformed),
		logging.Int("already_posted", result.AlreadyPosted),
		logging.Int("image_failures", result.ImageFailures),
	)...)
	return result, nil
}

// buildCandidate generates content and prepares the image independently; a
// failure in one never blocks the other, and every surviving product yields
// a pending candidate even when image preparation failed.
func (p *Pipeline) buildCandidate(ctx context.Context, runID string, product feed.Product, result *Result) (*store.Candidate, error) {
	logger := logging.WithContext(ctx, p.logger)

	description, genErr := p.generator.Generate(ctx, product)
	if genErr != nil {
		logger.Warn("description generation failed", logging.Args(logging.Error(genErr))...)
	}

	var (
		imagePath string
		flags     []string
	)
	artifact, imgErr := p.images.Prepare(ctx, product.ImageURL)
	switch {
	case imgErr != nil:
		result.ImageFailures++
		flags = append(flags, images.FlagImageUnavailable)
		logger.Warn("image preparation failed, keeping text-only candidate", logging.Args(logging.Error(imgErr))...)
	case artifact != nil:
		imagePath = artifact.Path
		flags = append(flags, artifact.Flags...)
	}

	productJSON, err := json.Marshal(product)
	if err != nil {
		return nil, fmt.Errorf("marshal product %s: %w", product.ID, err)
	}

	candidate := &store.Candidate{
		RunID:       runID,
		ProductID:   product.ID,
		ProductJSON: string(productJSON),
		Title:       product.Name,
		Description: description,
		ImagePath:   imagePath,
		ImageFlags:  flags,
		Status:      store.StatusPending,
	}
	if genErr != nil {
		candidate.ErrorMessage = genErr.Error()
	}

	inserted, err := p.store.InsertCandidate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("persist candidate for %s: %w", product.ID, err)
	}
	logger.Info("candidate pin created", logging.Args(
		logging.Int64(logging.FieldCandidateID, inserted.ID),
		logging.Bool("has_image", inserted.HasImage()),
	)...)
	return inserted, nil
}
