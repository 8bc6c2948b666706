// ABOUTME: Link preview handler for the Huma API
// ABOUTME: Returns lightweight page metadata before a link is shared

package handlers

import (
	"context"
	"net/http"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// PreviewHandler handles link preview requests
type PreviewHandler struct {
	extractor interfaces.ArticleExtractor
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(extractor interfaces.ArticleExtractor) *PreviewHandler {
	return &PreviewHandler{extractor: extractor}
}

// RegisterRoutes registers the preview route
func (h *PreviewHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "previewLink",
		Method:      http.MethodPost,
		Path:        "/preview",
		Summary:     "Preview a link",
		Description: "Returns title, description and image of a page. Failures degrade to the URL as title.",
		Tags:        []string{"Articles"},
	}, h.Preview)
}

// PreviewInput defines the input for the Preview operation
type PreviewInput struct {
	Body struct {
		URL string `json:"url" doc:"Page to preview"`
	}
}

// PreviewOutput defines the output for the Preview operation
type PreviewOutput struct {
	Body domain.Preview
}

// Preview returns link preview metadata
func (h *PreviewHandler) Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error) {
	return &PreviewOutput{Body: h.extractor.Peek(ctx, input.Body.URL)}, nil
}
