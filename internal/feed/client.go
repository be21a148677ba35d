package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Hali-creater/AuraPin/internal/services"
)

// Client downloads and parses an affiliate product feed. It never retries: a
// transport failure surfaces as a run-aborting ErrFeedUnavailable to the
// caller.
type Client struct {
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a feed client with the supplied per-request timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch requests the feed and returns a lazy stream of products. The response
// body is consumed incrementally so arbitrarily large feeds never load into
// memory; the caller must Close the stream.
func (c *Client) Fetch(ctx context.Context, feedURL string) (*Stream, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "feed", "fetch", "feed url is not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", "build request", err)
	}
	req.Header.Set("Accept", "text/csv, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", feedURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "fetch", fmt.Sprintf("%s: http %d", feedURL, resp.StatusCode), nil)
	}

	stream, err := newStream(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		resp.Body.Close()
		return nil, services.Wrap(services.ErrFeedUnavailable, "feed", "parse", "read feed header", err)
	}
	return stream, nil
}
