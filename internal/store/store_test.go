package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/store"
	"github.com/Hali-creater/AuraPin/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	candidate := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-1"))
	if candidate.ID == 0 {
		t.Fatal("expected candidate ID to be assigned")
	}

	fetched, err := st.GetCandidate(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("GetCandidate failed: %v", err)
	}
	if fetched == nil || fetched.ProductID != "p-1" {
		t.Fatalf("unexpected fetched candidate: %#v", fetched)
	}
	if fetched.Status != store.StatusPending {
		t.Fatalf("expected pending status, got %s", fetched.Status)
	}
}

func TestRecordPostedIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.RecordPosted(ctx, "p-1", "pin-1"); err != nil {
		t.Fatalf("RecordPosted failed: %v", err)
	}
	posted, err := st.HasPosted(ctx, "p-1")
	if err != nil {
		t.Fatalf("HasPosted failed: %v", err)
	}
	if !posted {
		t.Fatal("expected product to be marked posted")
	}

	// Second call keeps the original record and never errors.
	if err := st.RecordPosted(ctx, "p-1", "pin-2"); err != nil {
		t.Fatalf("second RecordPosted failed: %v", err)
	}
	record, err := st.GetDedupRecord(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetDedupRecord failed: %v", err)
	}
	if record == nil || record.PinID != "pin-1" {
		t.Fatalf("expected original pin id to survive, got %#v", record)
	}

	records, err := st.DedupRecords(ctx)
	if err != nil {
		t.Fatalf("DedupRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
}

func TestRejectedDoesNotBlockReprocessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.RecordRejected(ctx, "p-1"); err != nil {
		t.Fatalf("RecordRejected failed: %v", err)
	}
	posted, err := st.HasPosted(ctx, "p-1")
	if err != nil {
		t.Fatalf("HasPosted failed: %v", err)
	}
	if posted {
		t.Fatal("rejected products must stay eligible")
	}

	// A later successful post replaces the rejection.
	if err := st.RecordPosted(ctx, "p-1", "pin-1"); err != nil {
		t.Fatalf("RecordPosted after rejection failed: %v", err)
	}
	record, err := st.GetDedupRecord(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetDedupRecord failed: %v", err)
	}
	if record == nil || record.Outcome != store.OutcomePosted {
		t.Fatalf("expected posted outcome, got %#v", record)
	}
}

func TestRejectAfterPostedIsInvalid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.RecordPosted(ctx, "p-1", "pin-1"); err != nil {
		t.Fatalf("RecordPosted failed: %v", err)
	}
	err := st.RecordRejected(ctx, "p-1")
	if !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestClearRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := st.RecordRejected(ctx, fmt.Sprintf("p-%d", i)); err != nil {
			t.Fatalf("RecordRejected failed: %v", err)
		}
	}
	if err := st.RecordPosted(ctx, "p-posted", "pin-1"); err != nil {
		t.Fatalf("RecordPosted failed: %v", err)
	}

	removed, err := st.ClearRejected(ctx)
	if err != nil {
		t.Fatalf("ClearRejected failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	posted, err := st.HasPosted(ctx, "p-posted")
	if err != nil {
		t.Fatalf("HasPosted failed: %v", err)
	}
	if !posted {
		t.Fatal("posted record must survive ClearRejected")
	}
}

func TestCandidateDecisionTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	candidate := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-1"))

	approved, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusApproved, "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != store.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	// A second decision is reported as already decided, not applied.
	if _, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusRejected, ""); !errors.Is(err, store.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}

	posted, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusPosted, "")
	if err != nil {
		t.Fatalf("post transition failed: %v", err)
	}
	if posted.Status != store.StatusPosted {
		t.Fatalf("expected posted, got %s", posted.Status)
	}

	// Posted is terminal.
	if _, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusPostFailed, "boom"); err == nil {
		t.Fatal("expected error transitioning out of posted")
	}
}

func TestPostFailedIsRetryable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	candidate := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-1"))
	if _, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusApproved, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	failed, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusPostFailed, "network down")
	if err != nil {
		t.Fatalf("fail transition failed: %v", err)
	}
	if failed.ErrorMessage != "network down" {
		t.Fatalf("expected error message persisted, got %q", failed.ErrorMessage)
	}

	retried, err := st.TransitionCandidate(ctx, candidate.ID, store.StatusPosted, "")
	if err != nil {
		t.Fatalf("retry transition failed: %v", err)
	}
	if retried.Status != store.StatusPosted {
		t.Fatalf("expected posted after retry, got %s", retried.Status)
	}
}

func TestTransitionUnknownCandidate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	_, err := st.TransitionCandidate(context.Background(), 9999, store.StatusApproved, "")
	if !errors.Is(err, store.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestClearUndecidedKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	pending := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-pending"))
	approved := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-approved"))
	done := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-done"))

	if _, err := st.TransitionCandidate(ctx, approved.ID, store.StatusApproved, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := st.TransitionCandidate(ctx, done.ID, store.StatusApproved, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := st.TransitionCandidate(ctx, done.ID, store.StatusPosted, ""); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	cleared, err := st.ClearUndecided(ctx)
	if err != nil {
		t.Fatalf("ClearUndecided failed: %v", err)
	}
	if cleared != 2 {
		t.Fatalf("expected 2 cleared, got %d", cleared)
	}

	if got, err := st.GetCandidate(ctx, pending.ID); err != nil || got != nil {
		t.Fatalf("expected pending candidate removed, got %#v err=%v", got, err)
	}
	if got, err := st.GetCandidate(ctx, done.ID); err != nil || got == nil {
		t.Fatalf("expected posted candidate kept, got %#v err=%v", got, err)
	}
}

func TestCandidateStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-1"))
	approved := testsupport.NewCandidate(t, st, "run-1", testsupport.NewProduct("p-2"))
	if _, err := st.TransitionCandidate(ctx, approved.ID, store.StatusApproved, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	stats, err := st.CandidateStats(ctx)
	if err != nil {
		t.Fatalf("CandidateStats failed: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.Approved != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestRecordPostedConcurrentWritersKeepOneRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- st.RecordPosted(ctx, "p-race", fmt.Sprintf("pin-%d", n))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("RecordPosted failed under contention: %v", err)
		}
	}

	records, err := st.DedupRecords(ctx)
	if err != nil {
		t.Fatalf("DedupRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one dedup row, got %d", len(records))
	}
	if records[0].Outcome != store.OutcomePosted || records[0].PinID == "" {
		t.Fatalf("unexpected record: %#v", records[0])
	}
}
