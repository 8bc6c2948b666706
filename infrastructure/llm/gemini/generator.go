// ABOUTME: Gemini text generator used to write article summaries
// ABOUTME: Sends the summary instructions as a system instruction through the genai SDK

package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	coreerrors "foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// ContentGenerator is the part of the genai client the generator needs
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds connection settings
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Generator implements interfaces.TextGenerator on Gemini
type Generator struct {
	models ContentGenerator
	model  string
}

var _ interfaces.TextGenerator = (*Generator)(nil)

// New creates a Gemini client for the Gemini API backend
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, coreerrors.WrapError(err, "create gemini client")
	}

	return NewWithModels(client.Models, cfg.Model), nil
}

// NewWithModels wraps an existing content generator
func NewWithModels(models ContentGenerator, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: models, model: model}
}

// Generate returns the text of the first candidate
func (g *Generator) Generate(ctx context.Context, req interfaces.GenerationRequest) (string, error) {
	result, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(req.UserPrompt, genai.RoleUser)},
		BuildConfig(req),
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &coreerrors.ExternalAPIError{API: "gemini", StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return "", coreerrors.WrapError(err, "gemini generate content")
	}
	if result == nil {
		return "", &coreerrors.ExternalAPIError{API: "gemini", Message: "nil result"}
	}

	return result.Text(), nil
}

// BuildConfig maps a generation request onto the genai request config
func BuildConfig(req interfaces.GenerationRequest) *genai.GenerateContentConfig {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	return config
}
