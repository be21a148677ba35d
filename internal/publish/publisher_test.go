package publish_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/publish"
	"github.com/Hali-creater/AuraPin/internal/services"
	"github.com/Hali-creater/AuraPin/internal/services/pinterest"
	"github.com/Hali-creater/AuraPin/internal/store"
	"github.com/Hali-creater/AuraPin/internal/testsupport"
)

type fakePoster struct {
	pinID    string
	err      error
	requests []pinterest.PinRequest
}

func (p *fakePoster) CreatePin(ctx context.Context, req pinterest.PinRequest) (string, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return "", p.err
	}
	return p.pinID, nil
}

func approvedCandidate(t *testing.T, st *store.Store, productID string) *store.Candidate {
	t.Helper()
	candidate := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct(productID))
	approved, err := st.TransitionCandidate(context.Background(), candidate.ID, store.StatusApproved, "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	return approved
}

func TestPublishRecordsAfterSuccessfulPost(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	candidate := approvedCandidate(t, st, "p-1")
	poster := &fakePoster{pinID: "pin-123"}
	publisher := publish.New(poster, st, false, nil)

	result, err := publisher.Publish(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if result.Err != nil {
		t.Fatalf("unexpected post error: %v", result.Err)
	}
	if result.PinID != "pin-123" {
		t.Fatalf("expected pin id from poster, got %q", result.PinID)
	}
	if result.Candidate.Status != store.StatusPosted {
		t.Fatalf("expected posted candidate, got %s", result.Candidate.Status)
	}

	record, err := st.GetDedupRecord(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetDedupRecord failed: %v", err)
	}
	if record == nil || record.Outcome != store.OutcomePosted || record.PinID != "pin-123" {
		t.Fatalf("expected posted record with pin id, got %#v", record)
	}

	if len(poster.requests) != 1 {
		t.Fatalf("expected one post call, got %d", len(poster.requests))
	}
	if poster.requests[0].Link == "" {
		t.Fatal("expected affiliate link on the pin request")
	}
}

func TestPublishFailureWritesNoRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	candidate := approvedCandidate(t, st, "p-1")
	poster := &fakePoster{err: services.Wrap(services.ErrPostFailed, "pinterest", "create-pin", "http 500", nil)}
	publisher := publish.New(poster, st, false, nil)

	result, err := publisher.Publish(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("Publish must not abort on post failure: %v", err)
	}
	if result.Err == nil {
		t.Fatal("expected post error on result")
	}

	record, err := st.GetDedupRecord(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetDedupRecord failed: %v", err)
	}
	if record != nil {
		t.Fatalf("post failure must write no record, got %#v", record)
	}

	updated, err := st.GetCandidate(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("GetCandidate failed: %v", err)
	}
	if updated.Status != store.StatusPostFailed {
		t.Fatalf("expected post_failed, got %s", updated.Status)
	}
	if updated.ErrorMessage == "" {
		t.Fatal("expected failure message persisted")
	}

	// The product stays eligible for a later run.
	posted, err := st.HasPosted(ctx, "p-1")
	if err != nil {
		t.Fatalf("HasPosted failed: %v", err)
	}
	if posted {
		t.Fatal("failed post must not mark the product posted")
	}
}

func TestPublishRetriesFailedCandidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	candidate := approvedCandidate(t, st, "p-1")
	poster := &fakePoster{err: errors.New("network down")}
	publisher := publish.New(poster, st, false, nil)

	if _, err := publisher.Publish(ctx, candidate.ID); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	poster.err = nil
	poster.pinID = "pin-retry"
	results, err := publisher.PublishApproved(ctx)
	if err != nil {
		t.Fatalf("PublishApproved failed: %v", err)
	}
	if len(results) != 1 || results[0].PinID != "pin-retry" {
		t.Fatalf("expected retried post, got %#v", results)
	}
	if results[0].Candidate.Status != store.StatusPosted {
		t.Fatalf("expected posted after retry, got %s", results[0].Candidate.Status)
	}
}

func TestSimulationBehavesLikeRealPost(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	candidate := approvedCandidate(t, st, "p-1")
	poster := &fakePoster{pinID: "should-not-be-used"}
	publisher := publish.New(poster, st, true, nil)

	result, err := publisher.Publish(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !result.Simulated {
		t.Fatal("expected simulated result")
	}
	if !strings.HasPrefix(result.PinID, "simulated_") {
		t.Fatalf("expected simulated pin id, got %q", result.PinID)
	}
	if len(poster.requests) != 0 {
		t.Fatal("simulation must not call the posting service")
	}

	// Same durable side effect as a real post.
	posted, err := st.HasPosted(ctx, "p-1")
	if err != nil {
		t.Fatalf("HasPosted failed: %v", err)
	}
	if !posted {
		t.Fatal("simulated post must still record the product as posted")
	}
}

func TestPublishRejectsUndecidedCandidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	candidate := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-1"))
	publisher := publish.New(&fakePoster{pinID: "pin-1"}, st, false, nil)

	_, err := publisher.Publish(context.Background(), candidate.ID)
	if !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for pending candidate, got %v", err)
	}
}
