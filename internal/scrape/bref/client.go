package bref

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// BaseURL for basketball-reference
	BaseURL = "https://www.basketball-reference.com"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval keeps us under basketball-reference's rate limit
	MinRequestInterval = 1 * time.Second

	// MaxRetries for transient failures
	MaxRetries = 3

	// RetryBaseDelay grows linearly with the attempt number
	RetryBaseDelay = 2 * time.Second
)

// PageCache is an optional cache consulted before hitting the network.
type PageCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Client fetches pages from basketball-reference with rate limiting and
// retries. Not safe for concurrent use; the pipeline is deliberately serial.
type Client struct {
	http        *resty.Client
	lastRequest time.Time
	interval    time.Duration
	retryDelay  time.Duration
	cache       PageCache
	logger      zerolog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithCache attaches a page cache
func WithCache(cache PageCache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithInterval overrides the minimum delay between requests
func WithInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.interval = interval
	}
}

// WithRetryDelay overrides the base delay between retries, used by tests
func WithRetryDelay(delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = delay
	}
}

// WithBaseURL points the client at a different host, used by tests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.http.SetBaseURL(baseURL)
	}
}

// NewClient creates a basketball-reference client
func NewClient(logger zerolog.Logger, opts ...ClientOption) *Client {
	httpClient := resty.New().
		SetBaseURL(BaseURL).
		SetHeader("User-Agent", UserAgent).
		SetTimeout(30 * time.Second)

	c := &Client{
		http:       httpClient,
		interval:   MinRequestInterval,
		retryDelay: RetryBaseDelay,
		logger:     logger.With().Str("component", "bref_client").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchPage fetches a page by path (e.g. "/boxscores/202306010DEN.html"),
// returning its HTML. Transient failures (timeouts, 429, 5xx) are retried
// with a linearly growing delay; 404s fail immediately with ErrPermanent.
func (c *Client) FetchPage(ctx context.Context, path string) (string, error) {
	if c.cache != nil {
		if html, ok := c.cache.Get(ctx, path); ok {
			c.logger.Debug().Str("path", path).Msg("cache hit")
			return html, nil
		}
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(attempt+1)
			c.logger.Warn().
				Str("path", path).
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying fetch")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		html, err := c.fetchWithRateLimit(ctx, path)
		if err == nil {
			if c.cache != nil {
				c.cache.Set(ctx, path, html)
			}
			return html, nil
		}
		if errors.Is(err, ErrPermanent) || ctx.Err() != nil {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("fetching %s after %d attempts: %w", path, MaxRetries, lastErr)
}

func (c *Client) fetchWithRateLimit(ctx context.Context, path string) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			select {
			case <-time.After(c.interval - elapsed):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	resp, err := c.http.R().SetContext(ctx).Get(path)
	c.lastRequest = time.Now()

	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", path, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		return resp.String(), nil
	case resp.StatusCode() == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s returned 404", ErrPermanent, path)
	case resp.StatusCode() == http.StatusTooManyRequests:
		return "", fmt.Errorf("rate limited on %s", path)
	case resp.StatusCode() >= 500:
		return "", fmt.Errorf("server error %d on %s", resp.StatusCode(), path)
	default:
		return "", fmt.Errorf("%w: unexpected status %d on %s", ErrPermanent, resp.StatusCode(), path)
	}
}
