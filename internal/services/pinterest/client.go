// Package pinterest provides the HTTP client used to create pins on a
// Pinterest board through the v5 API.
package pinterest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Hali-creater/AuraPin/internal/services"
)

const (
	retryMaxAttempts = 3
	retryBaseDelay   = time.Second
	retryMaxDelay    = 8 * time.Second

	maxResponseBytes = 1 << 20
)

// Config carries the Pinterest connection settings.
type Config struct {
	AccessToken    string
	BoardID        string
	BaseURL        string
	TimeoutSeconds int
}

// PinRequest describes one pin to create.
type PinRequest struct {
	Title       string
	Description string
	Link        string
	ImagePath   string
}

// Client posts pins to the Pinterest API.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option adjusts client construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, primarily for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryMaxAttempts overrides how many attempts a create call makes.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithRetryBackoff overrides the retry delays, primarily for tests.
func WithRetryBackoff(base, max time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.baseDelay = base
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// NewClient builds a Pinterest client from configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: retryMaxAttempts,
		baseDelay:   retryBaseDelay,
		maxDelay:    retryMaxDelay,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client has the credentials required to
// create real pins.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.AccessToken) != "" && strings.TrimSpace(c.cfg.BoardID) != ""
}

type createPinPayload struct {
	BoardID     string       `json:"board_id"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Link        string       `json:"link,omitempty"`
	MediaSource *mediaSource `json:"media_source,omitempty"`
}

type mediaSource struct {
	SourceType  string `json:"source_type"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

type createPinResponse struct {
	ID string `json:"id"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		return fmt.Sprintf("pinterest api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("pinterest api returned status %d: %s", e.StatusCode, body)
}

func (e *httpStatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// CreatePin creates a pin on the configured board and returns the pin id
// assigned by Pinterest. Rate limits and server errors are retried with
// backoff before the call is reported as failed.
func (c *Client) CreatePin(ctx context.Context, req PinRequest) (string, error) {
	if !c.Configured() {
		return "", services.Wrap(services.ErrConfiguration, "pinterest", "create-pin", "access token and board id are required", nil)
	}
	if strings.TrimSpace(req.ImagePath) == "" {
		return "", services.Wrap(services.ErrPostFailed, "pinterest", "create-pin", "pin requires a prepared image", nil)
	}

	imageData, err := os.ReadFile(req.ImagePath)
	if err != nil {
		return "", services.Wrap(services.ErrPostFailed, "pinterest", "create-pin", "read prepared image", err)
	}

	payload := createPinPayload{
		BoardID:     c.cfg.BoardID,
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		MediaSource: &mediaSource{
			SourceType:  "image_base64",
			ContentType: "image/jpeg",
			Data:        base64.StdEncoding.EncodeToString(imageData),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrPostFailed, "pinterest", "create-pin", "encode request", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		pinID, err := c.doCreate(ctx, body)
		if err == nil {
			return pinID, nil
		}
		lastErr = err

		statusErr, ok := errAsStatus(err)
		if !ok || !statusErr.retryable() || attempt == c.maxAttempts {
			break
		}
		delay := c.backoffDelay(attempt)
		if statusErr.RetryAfter > 0 {
			delay = statusErr.RetryAfter
		}
		if err := c.sleep(ctx, delay); err != nil {
			return "", services.Wrap(services.ErrTimeout, "pinterest", "create-pin", "canceled while waiting to retry", err)
		}
	}
	return "", services.Wrap(services.ErrPostFailed, "pinterest", "create-pin", "create pin", lastErr)
}

func (c *Client) doCreate(ctx context.Context, body []byte) (string, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/pins"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", &httpStatusError{
			StatusCode: response.StatusCode,
			Body:       string(data),
			RetryAfter: parseRetryAfter(response.Header.Get("Retry-After")),
		}
	}

	var parsed createPinResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode pinterest response: %w", err)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("pinterest response missing pin id")
	}
	return parsed.ID, nil
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.baseDelay << (attempt - 1)
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	return delay
}

func errAsStatus(err error) (*httpStatusError, bool) {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
