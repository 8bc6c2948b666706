// ABOUTME: Results produced by the extractor for full articles and quick previews
// ABOUTME: Every field is independently optional and empty means absent

package domain

// Field length caps applied by the extractor
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxContentLength     = 5000
)

// ExtractedArticle is the structured view of a fetched document
type ExtractedArticle struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Image       string `json:"image,omitempty"`
	Author      string `json:"author,omitempty"`
}

// SummaryInput picks the text handed to the summarizer: content, then description
func (a *ExtractedArticle) SummaryInput() string {
	if a == nil {
		return ""
	}
	if a.Content != "" {
		return a.Content
	}
	return a.Description
}

// Preview is the lightweight metadata returned for link previews
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}
