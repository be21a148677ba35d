package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/services"
)

func TestWrapTagsWithMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", "https://feeds.example.com", cause)

	if !errors.Is(err, services.ErrFeedUnavailable) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
	for _, fragment := range []string{"feed", "fetch", "connection refused"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in message %q", fragment, err.Error())
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "feed", "fetch", "url missing", nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker: %v", err)
	}
}

func TestAbortsRunOnlyForFeedTransport(t *testing.T) {
	aborting := services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", "http 502", nil)
	if !services.AbortsRun(aborting) {
		t.Fatal("feed transport failures must abort the run")
	}

	for _, marker := range []error{
		services.ErrMalformedEntry,
		services.ErrGenerationFailed,
		services.ErrImageUnavailable,
		services.ErrPostFailed,
	} {
		if services.AbortsRun(services.Wrap(marker, "x", "y", "z", nil)) {
			t.Fatalf("%v must not abort the run", marker)
		}
	}
}
