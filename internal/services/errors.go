package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFeedUnavailable marks transport-level feed failures. It is the only
	// error class that aborts an entire curation run.
	ErrFeedUnavailable = errors.New("feed unavailable")
	// ErrMalformedEntry marks a single feed entry that cannot be turned into a
	// valid product. The entry is skipped; the run continues.
	ErrMalformedEntry = errors.New("malformed feed entry")
	// ErrGenerationFailed marks a generation-service failure. Callers fall back
	// to the template strategy rather than failing the candidate.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrImageUnavailable marks an image download or decode failure. The
	// candidate proceeds without an image, flagged for operator attention.
	ErrImageUnavailable = errors.New("image unavailable")
	// ErrPostFailed marks a posting-service failure. No dedup record is
	// written and the product stays eligible for a future run.
	ErrPostFailed = errors.New("post failed")

	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// AbortsRun reports whether a pipeline error terminates the current run.
// Only feed transport failures do; every other failure degrades to a flagged
// or partial result.
func AbortsRun(err error) bool {
	return errors.Is(err, ErrFeedUnavailable)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
