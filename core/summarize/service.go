// ABOUTME: Summarizer turns cleaned article text into a short social summary via a text generator
// ABOUTME: Falls back to a deterministic first-sentences summary whenever generation is unavailable

package summarize

import (
	"context"
	"fmt"
	"strings"

	"foodforbrain-api/core/interfaces"
	"foodforbrain-api/pkg/utils/text"
)

const (
	// TooShortSentinel is returned for content below MinContentLength
	TooShortSentinel = "Article content too short to summarize."

	// MinContentLength is the smallest content that is sent for summarization
	MinContentLength = 100

	// MaxInputLength caps the content sent to the generator
	MaxInputLength = 3000

	// fallbackSentences is how many period-separated fragments the fallback keeps
	fallbackSentences = 3
)

// Config holds generation parameters
type Config struct {
	MaxTokens   int
	Temperature float32
	Language    string
}

// DefaultConfig returns the production generation parameters
func DefaultConfig() Config {
	return Config{
		MaxTokens:   200,
		Temperature: 0.7,
		Language:    "French",
	}
}

// Service implements interfaces.Summarizer
type Service struct {
	generator interfaces.TextGenerator
	cfg       Config
	logger    interfaces.Logger
}

var _ interfaces.Summarizer = (*Service)(nil)

// NewService creates a summarizer. A nil generator makes every summary use the fallback.
func NewService(generator interfaces.TextGenerator, cfg Config, logger interfaces.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}

	return &Service{
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Summarize returns a summary of content. It never fails.
func (s *Service) Summarize(ctx context.Context, content string) string {
	if text.Length(content) < MinContentLength {
		return TooShortSentinel
	}

	summary, err := s.generate(ctx, content)
	if err != nil {
		s.logger.Warn("Summary generation failed, using fallback", map[string]interface{}{
			"error":          err.Error(),
			"content_length": text.Length(content),
		})
		return Fallback(content)
	}

	return summary
}

// generate calls the text generator and rejects blank completions
func (s *Service) generate(ctx context.Context, content string) (summary string, err error) {
	if s.generator == nil {
		return "", errNoGenerator
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()

	out, err := s.generator.Generate(ctx, interfaces.GenerationRequest{
		SystemPrompt: SystemPrompt(s.cfg.Language),
		UserPrompt:   UserPrompt(text.Truncate(content, MaxInputLength)),
		MaxTokens:    s.cfg.MaxTokens,
		Temperature:  s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", errEmptySummary
	}

	return out, nil
}

// Fallback keeps the first three period-separated fragments of content.
// A trailing period is added only when exactly three fragments were taken.
func Fallback(content string) string {
	fragments := strings.Split(content, ".")
	if len(fragments) > fallbackSentences {
		fragments = fragments[:fallbackSentences]
	}

	summary := strings.Join(fragments, ".")
	if len(fragments) == fallbackSentences {
		summary += "."
	}
	return summary
}

type summaryError string

func (e summaryError) Error() string { return string(e) }

const (
	errNoGenerator  = summaryError("no text generator configured")
	errEmptySummary = summaryError("text generator returned an empty summary")
)
