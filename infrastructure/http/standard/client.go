// ABOUTME: Standard HTTP client implementation with browser-like identification and retry support
// ABOUTME: Fetches article documents with a bounded timeout and optional backoff on 5xx responses

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"foodforbrain-api/core/interfaces"
)

// DefaultUserAgent is a desktop browser identification string; some sites reject bots
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures the client
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxAttempts int

	// Backoff is the wait before the second attempt; it doubles after each retry
	Backoff time.Duration
}

// DefaultOptions returns a single-attempt client with a 10s timeout
func DefaultOptions() Options {
	return Options{
		Timeout:     10 * time.Second,
		UserAgent:   DefaultUserAgent,
		MaxAttempts: 1,
		Backoff:     100 * time.Millisecond,
	}
}

// StandardHTTPClient implements the HTTPClient interface using net/http
type StandardHTTPClient struct {
	client *http.Client
	opts   Options
}

var _ interfaces.HTTPClient = (*StandardHTTPClient)(nil)

// NewStandardHTTPClient creates a new HTTP client, filling unset options with defaults
func NewStandardHTTPClient(opts Options) *StandardHTTPClient {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaults.MaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaults.Backoff
	}

	return &StandardHTTPClient{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// Get performs an HTTP GET request. 5xx responses are retried up to MaxAttempts;
// the last response is returned whatever its status.
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,fr;q=0.8")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.opts.Backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err = c.client.Do(req)
		if err != nil {
			resp = nil
			lastErr = err
			continue
		}

		if resp.StatusCode < 500 || attempt == c.opts.MaxAttempts-1 {
			break
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
