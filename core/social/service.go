// ABOUTME: Social service handles reading articles and the feed, reactions and comments
// ABOUTME: Reads go straight to storage and never touch the processing pipeline

package social

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"
)

// Service handles social operations around shared articles
type Service struct {
	articles interfaces.ArticleStorage
	social   interfaces.SocialStorage
}

var _ interfaces.SocialService = (*Service)(nil)

// NewService creates a new social service instance
func NewService(articles interfaces.ArticleStorage, social interfaces.SocialStorage) *Service {
	return &Service{
		articles: articles,
		social:   social,
	}
}

// GetArticle retrieves an article by ID
func (s *Service) GetArticle(ctx context.Context, id string) (*domain.ArticleRecord, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	article, err := s.articles.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, &errors.NotFoundError{Resource: "article", ID: id}
	}

	return article, nil
}

// Feed returns one page of articles, newest first
func (s *Service) Feed(ctx context.Context, page, limit int) (*domain.FeedPage, error) {
	page, limit = domain.NormalizePaging(page, limit)
	return s.social.ListFeed(ctx, page, limit)
}

// React records a reaction. Repeating the same reaction is a no-op.
func (s *Service) React(ctx context.Context, articleID, userID, reaction string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	reactionType, err := domain.ParseReactionType(reaction)
	if err != nil {
		return err
	}

	if _, err := s.GetArticle(ctx, articleID); err != nil {
		return err
	}

	return s.social.AddReaction(ctx, articleID, userID, reactionType)
}

// Comment adds a comment to an article
func (s *Service) Comment(ctx context.Context, articleID, userID, content string) (*domain.Comment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	content, err := domain.ValidateCommentContent(content)
	if err != nil {
		return nil, err
	}

	if _, err := s.GetArticle(ctx, articleID); err != nil {
		return nil, err
	}

	return s.social.AddComment(ctx, articleID, userID, content)
}

// Comments lists an article's comments, oldest first
func (s *Service) Comments(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	if _, err := s.GetArticle(ctx, articleID); err != nil {
		return nil, err
	}

	return s.social.ListComments(ctx, articleID)
}

func validateID(id string) error {
	if id == "" {
		return &errors.ValidationError{Field: "articleId", Message: "article ID cannot be empty"}
	}
	if _, err := uuid.Parse(id); err != nil {
		return &errors.ValidationError{Field: "articleId", Message: "invalid article ID format"}
	}
	return nil
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &errors.UnauthorizedError{Message: "a user identity is required"}
	}
	return nil
}
