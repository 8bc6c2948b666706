package handlers

import (
	"fmt"
	"testing"

	"foodforbrain-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedInMsg  string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &errors.NotFoundError{Resource: "article", ID: "a1"},
			expectedStatus: 404,
			expectedInMsg:  "article not found",
		},
		{
			name:           "ValidationError returns 400 with its message",
			input:          &errors.ValidationError{Field: "reaction", Message: "Invalid reaction type"},
			expectedStatus: 400,
			expectedInMsg:  "Invalid reaction type",
		},
		{
			name:           "wrapped ValidationError returns 400",
			input:          fmt.Errorf("share: %w", &errors.ValidationError{Field: "url", Message: "URL is required"}),
			expectedStatus: 400,
			expectedInMsg:  "URL is required",
		},
		{
			name:           "DuplicateURLError returns 409",
			input:          &errors.DuplicateURLError{URL: "https://example.com"},
			expectedStatus: 409,
			expectedInMsg:  "Article already shared",
		},
		{
			name:           "UnauthorizedError returns 401",
			input:          &errors.UnauthorizedError{Message: "a user identity is required"},
			expectedStatus: 401,
			expectedInMsg:  "user identity",
		},
		{
			name:           "FetchError returns 502",
			input:          &errors.FetchError{URL: "https://example.com", StatusCode: 404},
			expectedStatus: 502,
			expectedInMsg:  "Could not retrieve",
		},
		{
			name:           "ExternalAPIError with 503 returns 503",
			input:          &errors.ExternalAPIError{StatusCode: 503, Message: "service unavailable"},
			expectedStatus: 503,
			expectedInMsg:  "External service error",
		},
		{
			name:           "ExternalAPIError with 429 returns 429",
			input:          &errors.ExternalAPIError{StatusCode: 429, Message: "rate limited"},
			expectedStatus: 429,
			expectedInMsg:  "Rate limited by external service",
		},
		{
			name:           "ExternalAPIError with 400 returns 400",
			input:          &errors.ExternalAPIError{StatusCode: 400, Message: "bad request"},
			expectedStatus: 400,
			expectedInMsg:  "External service request error",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("disk on fire"),
			expectedStatus: 500,
			expectedInMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := toHumaError(tt.input)

			statusErr, ok := err.(huma.StatusError)
			if !assert.True(t, ok, "expected huma.StatusError, got %T", err) {
				return
			}
			assert.Equal(t, tt.expectedStatus, statusErr.GetStatus())
			assert.Contains(t, statusErr.Error(), tt.expectedInMsg)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.NoError(t, toHumaError(nil))
}
