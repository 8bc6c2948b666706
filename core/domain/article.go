// ABOUTME: Article domain model covering submissions and persisted article records
// ABOUTME: Encodes the processing lifecycle of a shared link from creation to a terminal state

package domain

import (
	"net/url"
	"strings"
	"time"

	"foodforbrain-api/core/errors"
)

// Submission is a caller's request to share a URL
type Submission struct {
	// URL is the absolute http(s) address being shared
	URL string

	// OwnerID identifies the user sharing the link
	OwnerID string
}

// NewSubmission validates the URL and owner of a share request
func NewSubmission(rawURL, ownerID string) (*Submission, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, &errors.ValidationError{Field: "url", Message: "URL is required"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &errors.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	if strings.TrimSpace(ownerID) == "" {
		return nil, &errors.UnauthorizedError{Message: "a user identity is required to share articles"}
	}

	return &Submission{URL: rawURL, OwnerID: ownerID}, nil
}

// ArticleState is the lifecycle position of an ArticleRecord
type ArticleState string

const (
	// StateCreated means background processing has not finished yet
	StateCreated ArticleState = "created"
	// StatePopulated means processing finished and content fields were written
	StatePopulated ArticleState = "populated"
	// StateFailed means processing finished without content
	StateFailed ArticleState = "failed"
)

// ArticleRecord is a persisted shared article. Nullable columns are pointers.
type ArticleRecord struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	SharedBy     string    `json:"sharedBy"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Content      *string   `json:"content"`
	Summary      *string   `json:"aiSummary"`
	ImageURL     *string   `json:"imageUrl"`
	IsProcessing bool      `json:"isProcessing"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// State derives the lifecycle state from the processing flag and stored fields.
// A completed record with a summary is populated; the summary is always written on success.
func (r *ArticleRecord) State() ArticleState {
	switch {
	case r.IsProcessing:
		return StateCreated
	case r.Summary != nil:
		return StatePopulated
	default:
		return StateFailed
	}
}

// ArticleFields are the values written back when processing succeeds.
// Empty strings are stored as NULL.
type ArticleFields struct {
	Title       string
	Description string
	Content     string
	Summary     string
	ImageURL    string
}

// FieldsFrom combines an extraction result and its summary into writable fields
func FieldsFrom(extracted *ExtractedArticle, summary string) ArticleFields {
	fields := ArticleFields{Summary: summary}
	if extracted != nil {
		fields.Title = extracted.Title
		fields.Description = extracted.Description
		fields.Content = extracted.Content
		fields.ImageURL = extracted.Image
	}
	return fields
}
