// ABOUTME: Social interactions around shared articles such as reactions, comments and the feed
// ABOUTME: Provides validation for reaction types and comment bodies

package domain

import (
	"strings"
	"time"

	"foodforbrain-api/core/errors"
)

// ReactionType is one of the fixed reactions a user can leave on an article
type ReactionType string

const (
	ReactionLike      ReactionType = "like"
	ReactionBookmark  ReactionType = "bookmark"
	ReactionReadLater ReactionType = "read_later"
)

// ParseReactionType validates a raw reaction name
func ParseReactionType(raw string) (ReactionType, error) {
	switch r := ReactionType(raw); r {
	case ReactionLike, ReactionBookmark, ReactionReadLater:
		return r, nil
	default:
		return "", &errors.ValidationError{Field: "reaction", Message: "Invalid reaction type"}
	}
}

// Comment is a user's note on an article
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidateCommentContent trims and checks a comment body
func ValidateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", &errors.ValidationError{Field: "content", Message: "Comment content is required"}
	}
	return content, nil
}

// FeedEntry is an article as shown in the feed
type FeedEntry struct {
	ArticleRecord
	ReactionCount int `json:"reactionCount"`
}

// FeedPage is one page of the feed
type FeedPage struct {
	Articles []FeedEntry
	Page     int
	Limit    int
	HasMore  bool
}

// Feed paging bounds
const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// NormalizePaging clamps page and limit to usable values
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	return page, limit
}
