package bref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(zerolog.Nop(),
		WithBaseURL(server.URL),
		WithInterval(0),
		WithRetryDelay(0),
	)
}

func TestFetchPageSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boxscores/202401150DEN.html", r.URL.Path)
		w.Write([]byte("<html>box score</html>"))
	}))

	html, err := client.FetchPage(context.Background(), "/boxscores/202401150DEN.html")
	require.NoError(t, err)
	assert.Equal(t, "<html>box score</html>", html)
}

func TestFetchPageRetriesRateLimit(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))

	html, err := client.FetchPage(context.Background(), "/page")
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
	assert.Equal(t, 3, requests)
}

func TestFetchPageGivesUpAfterMaxRetries(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchPage(context.Background(), "/page")
	require.Error(t, err)
	assert.Equal(t, MaxRetries, requests)
}

func TestFetchPageNotFoundIsPermanent(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchPage(context.Background(), "/boxscores/nope.html")
	require.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, requests, "404 must not be retried")
}

func TestFetchPageUsesCache(t *testing.T) {
	var requests int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("fresh"))
	}))

	pageCache := &mapCache{pages: map[string]string{}}
	WithCache(pageCache)(client)

	for i := 0; i < 3; i++ {
		html, err := client.FetchPage(context.Background(), "/page")
		require.NoError(t, err)
		assert.Equal(t, "fresh", html)
	}

	assert.Equal(t, 1, requests, "repeat fetches must come from cache")
}

type mapCache struct {
	mu    sync.Mutex
	pages map[string]string
}

func (c *mapCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.pages[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = value
}
