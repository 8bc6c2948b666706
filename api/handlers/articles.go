// ABOUTME: Article handlers for the Huma API
// ABOUTME: Exposes sharing, the feed, reactions, comments and reader views of shared articles

package handlers

import (
	"context"
	"net/http"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// UserIDHeader carries the caller identity set by the upstream auth gateway
const UserIDHeader = "X-User-ID"

// ArticleHandler handles article requests
type ArticleHandler struct {
	articles interfaces.ArticleService
	social   interfaces.SocialService
	reader   interfaces.ReaderService
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articles interfaces.ArticleService, social interfaces.SocialService, reader interfaces.ReaderService) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		social:   social,
		reader:   reader,
	}
}

// RegisterRoutes registers all article-related routes
func (h *ArticleHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "shareArticle",
		Method:        http.MethodPost,
		Path:          "/articles/share",
		Summary:       "Share an article",
		Description:   "Records the link and processes its content in the background",
		Tags:          []string{"Articles"},
		DefaultStatus: http.StatusCreated,
	}, h.ShareArticle)

	huma.Register(api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/articles/feed",
		Summary:     "List shared articles",
		Description: "Returns shared articles newest first with their reaction counts",
		Tags:        []string{"Articles"},
	}, h.GetFeed)

	huma.Register(api, huma.Operation{
		OperationID: "getArticle",
		Method:      http.MethodGet,
		Path:        "/articles/{articleId}",
		Summary:     "Get an article",
		Tags:        []string{"Articles"},
	}, h.GetArticle)

	huma.Register(api, huma.Operation{
		OperationID: "reactToArticle",
		Method:      http.MethodPost,
		Path:        "/articles/{articleId}/react",
		Summary:     "React to an article",
		Tags:        []string{"Social"},
	}, h.React)

	huma.Register(api, huma.Operation{
		OperationID:   "commentOnArticle",
		Method:        http.MethodPost,
		Path:          "/articles/{articleId}/comment",
		Summary:       "Comment on an article",
		Tags:          []string{"Social"},
		DefaultStatus: http.StatusCreated,
	}, h.Comment)

	huma.Register(api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/articles/{articleId}/comments",
		Summary:     "List comments of an article",
		Tags:        []string{"Social"},
	}, h.ListComments)

	huma.Register(api, huma.Operation{
		OperationID: "getReaderView",
		Method:      http.MethodGet,
		Path:        "/articles/{articleId}/reader",
		Summary:     "Get a reader view of an article",
		Description: "Extracts clean article content from the shared page, removing ads and clutter",
		Tags:        []string{"Reader"},
	}, h.GetReaderView)
}

// ShareArticleInput defines the input for the ShareArticle operation
type ShareArticleInput struct {
	UserID string `header:"X-User-ID" doc:"Caller identity"`
	Body   struct {
		URL string `json:"url" required:"false" doc:"Absolute http(s) URL of the article" example:"https://example.com/post"`
	}
}

// ShareArticleOutput defines the output for the ShareArticle operation
type ShareArticleOutput struct {
	Body struct {
		Message   string `json:"message"`
		ArticleID string `json:"articleId"`
	}
}

// ShareArticle records a link and schedules its processing
func (h *ArticleHandler) ShareArticle(ctx context.Context, input *ShareArticleInput) (*ShareArticleOutput, error) {
	id, err := h.articles.Submit(ctx, input.Body.URL, input.UserID)
	if err != nil {
		return nil, toHumaError(err)
	}

	resp := &ShareArticleOutput{}
	resp.Body.Message = "Article shared successfully, processing content..."
	resp.Body.ArticleID = id
	return resp, nil
}

// GetFeedInput defines the input for the GetFeed operation
type GetFeedInput struct {
	Page  int `query:"page" default:"1" doc:"Page number, starting at 1"`
	Limit int `query:"limit" default:"20" doc:"Articles per page, clamped to 1..100"`
}

// Pagination describes the position of a feed page
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// GetFeedOutput defines the output for the GetFeed operation
type GetFeedOutput struct {
	Body struct {
		Articles   []domain.FeedEntry `json:"articles"`
		Pagination Pagination         `json:"pagination"`
	}
}

// GetFeed returns one page of shared articles
func (h *ArticleHandler) GetFeed(ctx context.Context, input *GetFeedInput) (*GetFeedOutput, error) {
	page, err := h.social.Feed(ctx, input.Page, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}

	resp := &GetFeedOutput{}
	resp.Body.Articles = page.Articles
	if resp.Body.Articles == nil {
		resp.Body.Articles = []domain.FeedEntry{}
	}
	resp.Body.Pagination = Pagination{
		Page:    page.Page,
		Limit:   page.Limit,
		HasMore: page.HasMore,
	}
	return resp, nil
}

// ArticlePathInput addresses one article
type ArticlePathInput struct {
	ArticleID string `path:"articleId" doc:"Article ID"`
}

// GetArticleOutput defines the output for the GetArticle operation
type GetArticleOutput struct {
	Body *domain.ArticleRecord
}

// GetArticle returns one article including its processing flag
func (h *ArticleHandler) GetArticle(ctx context.Context, input *ArticlePathInput) (*GetArticleOutput, error) {
	record, err := h.social.GetArticle(ctx, input.ArticleID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &GetArticleOutput{Body: record}, nil
}

// ReactInput defines the input for the React operation
type ReactInput struct {
	ArticleID string `path:"articleId"`
	UserID    string `header:"X-User-ID"`
	Body      struct {
		Reaction string `json:"reaction" required:"false" doc:"One of like, bookmark, read_later"`
	}
}

// MessageOutput is a plain acknowledgement
type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

// React records a reaction of the caller
func (h *ArticleHandler) React(ctx context.Context, input *ReactInput) (*MessageOutput, error) {
	if err := h.social.React(ctx, input.ArticleID, input.UserID, input.Body.Reaction); err != nil {
		return nil, toHumaError(err)
	}

	resp := &MessageOutput{}
	resp.Body.Message = "Reaction added successfully"
	return resp, nil
}

// CommentInput defines the input for the Comment operation
type CommentInput struct {
	ArticleID string `path:"articleId"`
	UserID    string `header:"X-User-ID"`
	Body      struct {
		Content string `json:"content" required:"false"`
	}
}

// CommentOutput defines the output for the Comment operation
type CommentOutput struct {
	Body struct {
		Message string          `json:"message"`
		Comment *domain.Comment `json:"comment"`
	}
}

// Comment adds a comment of the caller
func (h *ArticleHandler) Comment(ctx context.Context, input *CommentInput) (*CommentOutput, error) {
	comment, err := h.social.Comment(ctx, input.ArticleID, input.UserID, input.Body.Content)
	if err != nil {
		return nil, toHumaError(err)
	}

	resp := &CommentOutput{}
	resp.Body.Message = "Comment added successfully"
	resp.Body.Comment = comment
	return resp, nil
}

// ListCommentsOutput defines the output for the ListComments operation
type ListCommentsOutput struct {
	Body struct {
		Comments []*domain.Comment `json:"comments"`
	}
}

// ListComments returns the comments of an article, oldest first
func (h *ArticleHandler) ListComments(ctx context.Context, input *ArticlePathInput) (*ListCommentsOutput, error) {
	comments, err := h.social.Comments(ctx, input.ArticleID)
	if err != nil {
		return nil, toHumaError(err)
	}

	resp := &ListCommentsOutput{}
	resp.Body.Comments = comments
	if resp.Body.Comments == nil {
		resp.Body.Comments = []*domain.Comment{}
	}
	return resp, nil
}

// GetReaderViewOutput defines the output for the GetReaderView operation
type GetReaderViewOutput struct {
	Body domain.ReaderView
}

// GetReaderView builds a reader view of the article's page
func (h *ArticleHandler) GetReaderView(ctx context.Context, input *ArticlePathInput) (*GetReaderViewOutput, error) {
	record, err := h.social.GetArticle(ctx, input.ArticleID)
	if err != nil {
		return nil, toHumaError(err)
	}

	view := h.reader.ReaderView(ctx, record.URL)
	view.ArticleID = record.ID

	return &GetReaderViewOutput{Body: view}, nil
}
