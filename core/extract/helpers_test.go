package extract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"foodforbrain-api/core/interfaces"
)

// nopLogger discards log output
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// netHTTPClient adapts net/http to interfaces.HTTPClient for tests
type netHTTPClient struct {
	userAgent string
}

func (c *netHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	return &netResponse{resp: resp}, nil
}

type netResponse struct {
	resp *http.Response
}

func (r *netResponse) StatusCode() int          { return r.resp.StatusCode }
func (r *netResponse) Body() io.ReadCloser      { return r.resp.Body }
func (r *netResponse) Header(key string) string { return r.resp.Header.Get(key) }

// mapCache is an in-memory cache without expiry
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
	sets  int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func newTestService(cache interfaces.Cache, opts Options) *Service {
	return NewService(interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: &netHTTPClient{userAgent: "test-agent"},
		Logger:     nopLogger{},
	}, opts)
}
