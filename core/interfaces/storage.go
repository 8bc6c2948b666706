// ABOUTME: Storage interfaces for persisting articles and social interactions
// ABOUTME: Defines the write paths that drive the article processing lifecycle

package interfaces

import (
	"context"

	"foodforbrain-api/core/domain"
)

// ArticleStorage persists article records.
// CompleteRecord and FailRecord are the only writes that clear the processing flag,
// and each only applies to a record that is still processing.
type ArticleStorage interface {
	// CreateProcessingRecord inserts a processing record and returns its id.
	// Fails with a DuplicateURLError when the URL was already shared.
	CreateProcessingRecord(ctx context.Context, url, ownerID string) (string, error)

	// CompleteRecord writes the extracted fields and clears the processing flag
	CompleteRecord(ctx context.Context, id string, fields domain.ArticleFields) error

	// FailRecord clears the processing flag leaving content fields null
	FailRecord(ctx context.Context, id string) error

	// GetArticle retrieves a record by id
	GetArticle(ctx context.Context, id string) (*domain.ArticleRecord, error)

	// ListProcessing returns records that have not reached a terminal state
	ListProcessing(ctx context.Context) ([]*domain.ArticleRecord, error)
}

// SocialStorage persists the feed, reactions and comments around articles
type SocialStorage interface {
	ListFeed(ctx context.Context, page, limit int) (*domain.FeedPage, error)
	AddReaction(ctx context.Context, articleID, userID string, reaction domain.ReactionType) error
	AddComment(ctx context.Context, articleID, userID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, articleID string) ([]*domain.Comment, error)
}
