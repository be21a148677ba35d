package services

import "context"

type contextKey string

const (
	productIDKey   contextKey = "product_id"
	candidateIDKey contextKey = "candidate_id"
	runIDKey       contextKey = "run_id"
)

// WithProductID annotates context with the affiliate product identifier.
func WithProductID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, productIDKey, id)
}

// ProductIDFromContext extracts the product identifier if present.
func ProductIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(productIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCandidateID annotates context with the candidate pin identifier.
func WithCandidateID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, candidateIDKey, id)
}

// CandidateIDFromContext extracts the candidate pin identifier if present.
func CandidateIDFromContext(ctx context.Context) (int64, bool) {
	switch val := ctx.Value(candidateIDKey).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithRunID annotates context with the curation run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the curation run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
