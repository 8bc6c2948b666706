// ABOUTME: OpenAI-compatible text generator used to write article summaries
// ABOUTME: Works against any chat completion endpoint through a configurable base URL

package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	coreerrors "foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-3.5-turbo"

// ChatClient is the part of the OpenAI client the generator needs
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds connection settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator implements interfaces.TextGenerator over chat completions
type Generator struct {
	client ChatClient
	model  string
}

var _ interfaces.TextGenerator = (*Generator)(nil)

// New creates a generator talking to the configured endpoint
func New(cfg Config) (*Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return NewWithClient(openai.NewClientWithConfig(clientCfg), cfg.Model), nil
}

// NewWithClient wraps an existing chat client
func NewWithClient(client ChatClient, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate sends a system and user message and returns the first choice's text
func (g *Generator) Generate(ctx context.Context, req interfaces.GenerationRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", toExternalError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &coreerrors.ExternalAPIError{API: "openai", Message: "no choices returned"}
	}

	return resp.Choices[0].Message.Content, nil
}

func toExternalError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &coreerrors.ExternalAPIError{API: "openai", StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &coreerrors.ExternalAPIError{API: "openai", StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	return coreerrors.WrapError(err, "openai chat completion")
}
