package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodforbrain-api/api/handlers"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func newTestServer(t *testing.T, cfg APIConfig) *Server {
	t.Helper()

	s := NewAPI(cfg)
	t.Cleanup(s.Close)
	handlers.NewHealthHandler(nil).RegisterRoutes(s.API)
	return s
}

func TestNewAPI_HasCorrectInfo(t *testing.T) {
	s := newTestServer(t, APIConfig{})

	info := s.API.OpenAPI().Info
	if info.Title != Title {
		t.Errorf("API title = %s, want %s", info.Title, Title)
	}
	if info.Version != Version {
		t.Errorf("API version = %s, want %s", info.Version, Version)
	}
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	s := newTestServer(t, APIConfig{})

	req := httptest.NewRequest("GET", "/openapi.json", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /openapi.json status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAPI_CORSPreflight(t *testing.T) {
	s := newTestServer(t, APIConfig{AllowedOrigins: []string{"https://app.example"}})

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://app.example")
	}
}

func TestAPI_CORSRejectsUnknownOrigin(t *testing.T) {
	s := newTestServer(t, APIConfig{AllowedOrigins: []string{"https://app.example"}})

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
}

func TestAPI_RequestIDHeader(t *testing.T) {
	s := newTestServer(t, APIConfig{Logger: nopLogger{}})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestAPI_RateLimit(t *testing.T) {
	s := newTestServer(t, APIConfig{RateLimit: 1, RateWindow: time.Minute})

	first := httptest.NewRecorder()
	s.Handler().ServeHTTP(first, httptest.NewRequest("GET", "/health", nil))
	second := httptest.NewRecorder()
	s.Handler().ServeHTTP(second, httptest.NewRequest("GET", "/health", nil))

	if first.Code != http.StatusOK {
		t.Errorf("first request status = %d, want %d", first.Code, http.StatusOK)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
}
