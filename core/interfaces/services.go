// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines the extractor, summarizer and text-generation contracts of the article pipeline

package interfaces

import (
	"context"

	"foodforbrain-api/core/domain"
)

// ArticleExtractor turns a URL into structured article data
type ArticleExtractor interface {
	// Extract fetches and parses the document. Only retrieval failures are errors.
	Extract(ctx context.Context, url string) (*domain.ExtractedArticle, error)

	// Peek returns preview metadata and never fails; on error the title is the URL.
	Peek(ctx context.Context, url string) domain.Preview
}

// Summarizer produces a short summary of article text. It never fails outward.
type Summarizer interface {
	Summarize(ctx context.Context, content string) string
}

// GenerationRequest is a structured prompt for a text-generation capability
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// TextGenerator is an external text-generation capability.
// Any compliant backend can be substituted without changing summaries' contract.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ReaderService builds a readable view of a web page
type ReaderService interface {
	ReaderView(ctx context.Context, url string) domain.ReaderView
}

// ArticleService accepts shared links and runs them through the processing pipeline
type ArticleService interface {
	// Submit records the link and schedules background processing, returning the article ID
	Submit(ctx context.Context, url, ownerID string) (string, error)
}

// SocialService reads shared articles and records reactions and comments
type SocialService interface {
	GetArticle(ctx context.Context, id string) (*domain.ArticleRecord, error)
	Feed(ctx context.Context, page, limit int) (*domain.FeedPage, error)
	React(ctx context.Context, articleID, userID, reaction string) error
	Comment(ctx context.Context, articleID, userID, content string) (*domain.Comment, error)
	Comments(ctx context.Context, articleID string) ([]*domain.Comment, error)
}
