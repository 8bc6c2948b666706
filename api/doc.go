// Package api provides the HTTP API layer for the FoodForBrain application.
// It uses the Huma framework on a chi router to provide automatic OpenAPI
// documentation, request validation, and a clean handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration and middleware chain
// - handlers/: HTTP request handlers
// - middleware/: request logging and per-IP rate limiting
//
// The OpenAPI spec is served at /openapi.json and the docs UI at /docs.
//
// # Caller identity
//
// Mutating routes read the caller from the X-User-ID header, which an
// upstream auth gateway sets. Requests without it are rejected with 401.
//
// # Usage Example
//
//	server := api.NewAPI(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//	defer server.Close()
//
//	handlers.NewArticleHandler(articles, social, reader).RegisterRoutes(server.API)
//	http.ListenAndServe(":8000", server.Handler())
//
// # Error Handling
//
// Errors use the RFC 7807 problem format:
//
//	{
//	    "status": 409,
//	    "title": "Conflict",
//	    "detail": "Article already shared"
//	}
//
// Domain errors are mapped to HTTP status codes in handlers/errors.go.
package api
