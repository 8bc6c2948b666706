// ABOUTME: Domain models and types for reader view functionality
// ABOUTME: Defines the structure for readable article content derived from a shared link

package domain

// ReaderView represents readable article content for a shared article
type ReaderView struct {
	ArticleID   string `json:"articleId"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Byline      string `json:"byline,omitempty"`
	Content     string `json:"content"`     // HTML content
	Markdown    string `json:"markdown"`    // Markdown content
	TextContent string `json:"textContent"` // Plain text content
	SiteName    string `json:"siteName"`
	Image       string `json:"image"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}
