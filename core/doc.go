// Package core contains the business logic for the FoodForBrain API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (Submission, ArticleRecord, ExtractedArticle, Comment)
// - extract: Turns a URL into structured article data and link previews
// - summarize: Short summaries through a text generator with an extractive fallback
// - articles: The submission lifecycle from processing to a terminal state
// - social: Feed, reactions and comments on shared articles
// - reader: Readable views of shared pages
// - workers: Bounded pool running background processing jobs
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (storage, cache, HTTP, logger)
//
// # Design Principles
//
// - No web framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,
//	    HTTPClient: myHTTPClient,
//	    Logger:     myLogger,
//	}
//
//	orchestrator := articles.NewService(articles.Deps{
//	    Storage:    store,
//	    Extractor:  extract.NewService(deps, extract.DefaultOptions()),
//	    Summarizer: summarize.NewService(generator, summarize.DefaultConfig(), myLogger),
//	    Dispatcher: pool,
//	    Logger:     myLogger,
//	})
//
//	id, err := orchestrator.Submit(ctx, "https://example.com/post", userID)
package core
