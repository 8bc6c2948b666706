package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	coreerrors "foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"
)

// mockModels records the last request and answers with generateFunc
type mockModels struct {
	model        string
	contents     []*genai.Content
	config       *genai.GenerateContentConfig
	generateFunc func() (*genai.GenerateContentResponse, error)
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model, m.contents, m.config = model, contents, config
	return m.generateFunc()
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}, Role: genai.RoleModel},
		}},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestGenerate_SendsInstructionsAndPrompt(t *testing.T) {
	models := &mockModels{generateFunc: func() (*genai.GenerateContentResponse, error) {
		return textResponse("Un résumé."), nil
	}}
	gen := NewWithModels(models, "")

	out, err := gen.Generate(context.Background(), interfaces.GenerationRequest{
		SystemPrompt: "Write in French",
		UserPrompt:   "Summarize this article: text",
		MaxTokens:    200,
		Temperature:  0.7,
	})

	require.NoError(t, err)
	assert.Equal(t, "Un résumé.", out)
	assert.Equal(t, DefaultModel, models.model)
	require.Len(t, models.contents, 1)
	assert.Equal(t, "Summarize this article: text", models.contents[0].Parts[0].Text)
	assert.Equal(t, "Write in French", models.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(200), models.config.MaxOutputTokens)
	assert.InDelta(t, 0.7, *models.config.Temperature, 0.0001)
}

func TestGenerate_APIError(t *testing.T) {
	models := &mockModels{generateFunc: func() (*genai.GenerateContentResponse, error) {
		return nil, genai.APIError{Code: 429, Message: "resource exhausted"}
	}}

	_, err := NewWithModels(models, "m").Generate(context.Background(), interfaces.GenerationRequest{UserPrompt: "x"})

	var apiErr *coreerrors.ExternalAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 429, apiErr.StatusCode)
}

func TestGenerate_NilResult(t *testing.T) {
	models := &mockModels{generateFunc: func() (*genai.GenerateContentResponse, error) {
		return nil, nil
	}}

	_, err := NewWithModels(models, "m").Generate(context.Background(), interfaces.GenerationRequest{UserPrompt: "x"})

	assert.True(t, coreerrors.IsExternalAPI(err))
}

func TestBuildConfig_OmitsEmptySystemPrompt(t *testing.T) {
	config := BuildConfig(interfaces.GenerationRequest{MaxTokens: 10})

	assert.Nil(t, config.SystemInstruction)
}
