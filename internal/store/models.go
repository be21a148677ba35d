package store

import (
	"strings"
	"time"
)

// Outcome is the terminal disposition recorded for a product.
type Outcome string

const (
	// OutcomePosted is durable forever: the product must never be re-offered.
	OutcomePosted Outcome = "posted"
	// OutcomeRejected records an operator rejection. It does not block
	// reprocessing and may be overwritten later.
	OutcomeRejected Outcome = "rejected"
)

// DedupRecord is the durable fact that a product reached a terminal outcome.
type DedupRecord struct {
	ProductID string
	Outcome   Outcome
	PinID     string
	CreatedAt time.Time
}

// Status represents the lifecycle of a candidate pin.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusPosted     Status = "posted"
	StatusPostFailed Status = "post_failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusPosted,
	StatusPostFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// legalTransitions maps each candidate status to the statuses it may move to.
// pending -> approved|rejected is the operator decision; the publish statuses
// extend the state machine for candidates persisted past their decision.
var legalTransitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected},
	StatusApproved:   {StatusPosted, StatusPostFailed},
	StatusPostFailed: {StatusPosted, StatusPostFailed},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllStatuses returns the ordered list of known candidate statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Candidate represents a candidate pin persisted in SQLite.
type Candidate struct {
	ID           int64
	RunID        string
	ProductID    string
	ProductJSON  string
	Title        string
	Description  string
	ImagePath    string
	ImageFlags   []string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Decided reports whether the operator already made a decision on the candidate.
func (c Candidate) Decided() bool {
	return c.Status != StatusPending
}

// HasImage reports whether image preparation produced an artifact.
func (c Candidate) HasImage() bool {
	return strings.TrimSpace(c.ImagePath) != ""
}

// HasFlag reports whether the image preparation flagged the named condition.
func (c Candidate) HasFlag(flag string) bool {
	for _, f := range c.ImageFlags {
		if f == flag {
			return true
		}
	}
	return false
}

func joinFlags(flags []string) string {
	return strings.Join(flags, ",")
}

func splitFlags(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	flags := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			flags = append(flags, part)
		}
	}
	return flags
}

// Stats aggregates candidate counts per status.
type Stats struct {
	Total      int
	Pending    int
	Approved   int
	Rejected   int
	Posted     int
	PostFailed int
}
