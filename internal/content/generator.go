package content

import (
	"context"
	"strings"

	"github.com/Hali-creater/AuraPin/internal/feed"
)

// Settings carries the operator's content configuration shared by both
// generation strategies.
type Settings struct {
	Disclaimer   string
	HashtagPool  []string
	HashtagCount int
}

// Generator produces the full pin description for a product: generated base
// text, a hashtag sample, and the verbatim disclaimer.
type Generator interface {
	Generate(ctx context.Context, product feed.Product) (string, error)
}

// compose assembles the final description. The disclaimer is always appended
// verbatim, never abbreviated, regardless of strategy.
func compose(base string, hashtags []string, disclaimer string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(base))
	if len(hashtags) > 0 {
		b.WriteString("\n\n")
		for i, tag := range hashtags {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('#')
			b.WriteString(tag)
		}
	}
	if disclaimer = strings.TrimSpace(disclaimer); disclaimer != "" {
		b.WriteString("\n")
		b.WriteString(disclaimer)
	}
	return b.String()
}
