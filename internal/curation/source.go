package curation

import (
	"context"

	"github.com/Hali-creater/AuraPin/internal/feed"
)

// ClientSource adapts a feed.Client to the FeedSource interface.
type ClientSource struct {
	Client *feed.Client
}

func (s ClientSource) Fetch(ctx context.Context, feedURL string) (ProductStream, error) {
	return s.Client.Fetch(ctx, feedURL)
}
