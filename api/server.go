// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, request logging and rate limiting

package api

import (
	"net/http"
	"time"

	"foodforbrain-api/api/middleware"
	"foodforbrain-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// Title and Version identify the API in its OpenAPI document
const (
	Title   = "FoodForBrain API"
	Version = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger         interfaces.Logger
	AllowedOrigins []string
	RateLimit      int           // requests per window
	RateWindow     time.Duration // rate limit window
}

// Server bundles the Huma API with its router and the limiter it owns
type Server struct {
	API     huma.API
	Router  chi.Router
	limiter *middleware.RateLimiter
}

// NewAPI creates the Huma API with CORS, request logging and rate limiting applied in that order
func NewAPI(cfg APIConfig) *Server {
	router := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	s := &Server{Router: router}

	if cfg.RateLimit > 0 && cfg.RateWindow > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(s.limiter))
	}

	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Share articles, read their summaries and react to what friends share"

	// OpenAPI spec at /openapi.json, docs UI at /docs
	s.API = humachi.New(router, config)

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.Router
}

// Close releases background resources of the middleware
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}
