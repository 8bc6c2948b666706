// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Bundles the cache, document fetcher and logger shared by the article pipeline

package interfaces

// Dependencies holds the process-wide collaborators used by core services
type Dependencies struct {
	// Cache stores previews and reader views
	Cache Cache

	// HTTPClient fetches article documents
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}
