package bref

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// BrowserClient fetches pages through a headless browser. Some
// basketball-reference tables (notably the advanced box scores on older
// pages) arrive inside HTML comments or are assembled by JS; rendering the
// page makes them visible to the parser.
type BrowserClient struct {
	allocCtx    context.Context
	cancel      context.CancelFunc
	lastRequest time.Time
	interval    time.Duration
	logger      zerolog.Logger
}

// NewBrowserClient starts a headless browser allocator
func NewBrowserClient(logger zerolog.Logger) (*BrowserClient, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserClient{
		allocCtx: allocCtx,
		cancel:   cancel,
		interval: MinRequestInterval,
		logger:   logger.With().Str("component", "bref_browser").Logger(),
	}, nil
}

// Close releases the browser
func (c *BrowserClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchPage renders a basketball-reference page and returns its HTML
func (c *BrowserClient) FetchPage(ctx context.Context, path string) (string, error) {
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

	html, err := c.fetch(ctx, path)
	c.lastRequest = time.Now()
	return html, err
}

func (c *BrowserClient) fetch(ctx context.Context, path string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 45*time.Second)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-browserCtx.Done():
		}
	}()

	var htmlContent string
	url := BaseURL + path

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if err != nil {
		return "", fmt.Errorf("chromedp error on %s: %w", path, err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty page content for %s", path)
	}

	c.logger.Debug().Str("path", path).Int("bytes", len(htmlContent)).Msg("rendered page")
	return htmlContent, nil
}
