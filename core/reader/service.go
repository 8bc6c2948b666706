// ABOUTME: Reader view service turns a shared article's page into clean readable content
// ABOUTME: Uses go-readability on the fetched document and renders the result to markdown

package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"

	md "github.com/JohannesKaufmann/html-to-markdown"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
)

// Reader view statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultCacheTTL is how long successful reader views stay cached
const DefaultCacheTTL = time.Hour

const (
	cachePrefix = "reader:"
	maxBodySize = 5 * 1024 * 1024
)

var (
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	trailingSpaces  = regexp.MustCompile(`[ \t]+\n`)
	leadingSpaces   = regexp.MustCompile(`\n[ \t]+`)
	headerBefore    = regexp.MustCompile(`\n(#{1,6} )`)
	headerFollowing = regexp.MustCompile(`(#{1,6} [^\n]+)\n([^\n])`)
)

// Service implements interfaces.ReaderService
type Service struct {
	deps     interfaces.Dependencies
	cacheTTL time.Duration
}

var _ interfaces.ReaderService = (*Service)(nil)

// NewService creates a reader view service. A non-positive cacheTTL uses DefaultCacheTTL.
func NewService(deps interfaces.Dependencies, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Service{deps: deps, cacheTTL: cacheTTL}
}

// ReaderView extracts readable content from pageURL. Failures are reported in
// the view's Status and Error fields. Only successful views are cached.
func (s *Service) ReaderView(ctx context.Context, pageURL string) domain.ReaderView {
	cacheKey := cachePrefix + pageURL

	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached domain.ReaderView
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
		}
	}

	view := s.extract(ctx, pageURL)

	if s.deps.Cache != nil && view.Status == StatusOK {
		if data, err := json.Marshal(view); err == nil {
			_ = s.deps.Cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return view
}

func (s *Service) extract(ctx context.Context, pageURL string) domain.ReaderView {
	result := domain.ReaderView{
		URL:    pageURL,
		Status: StatusOK,
	}

	article, err := s.parse(ctx, pageURL)
	if err != nil {
		s.deps.Logger.Error("Failed to parse reader view", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		result.Status = StatusError
		result.Error = err.Error()
		return result
	}

	result.Title = article.Title
	result.Byline = article.Byline
	result.Content = article.Content
	result.TextContent = article.TextContent
	result.SiteName = article.SiteName
	result.Image = article.Image

	if result.Content != "" {
		converter := md.NewConverter("", true, nil)
		markdown, err := converter.ConvertString(result.Content)
		if err != nil {
			s.deps.Logger.Debug("Failed to convert HTML to markdown", map[string]interface{}{
				"url":   pageURL,
				"error": err.Error(),
			})
		} else {
			result.Markdown = buildMarkdownWithMetadata(result.Title, result.Byline, result.SiteName, markdown)
		}
	}

	return result
}

// parse fetches pageURL through the shared HTTP client and runs readability on it.
// The fetch is bounded by the client timeout (EXTRACT_TIMEOUT).
func (s *Service) parse(ctx context.Context, pageURL string) (readability.Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return readability.Article{}, &errors.ValidationError{Field: "url", Message: err.Error()}
	}

	resp, err := s.deps.HTTPClient.Get(ctx, pageURL)
	if err != nil {
		return readability.Article{}, &errors.FetchError{URL: pageURL, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return readability.Article{}, &errors.FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	reader, err := charset.NewReader(io.LimitReader(body, maxBodySize), resp.Header("Content-Type"))
	if err != nil {
		return readability.Article{}, &errors.FetchError{URL: pageURL, Err: err}
	}

	return readability.FromReader(reader, base)
}

// buildMarkdownWithMetadata creates a markdown document headed by the article metadata
func buildMarkdownWithMetadata(title, author, siteName, content string) string {
	var markdown strings.Builder

	if title != "" {
		markdown.WriteString("# ")
		markdown.WriteString(title)
		markdown.WriteString("\n\n")
	}

	var metadataItems []string
	if author != "" {
		metadataItems = append(metadataItems, fmt.Sprintf("**Author:** %s", author))
	}
	if siteName != "" {
		metadataItems = append(metadataItems, fmt.Sprintf("**Source:** %s", siteName))
	}

	if len(metadataItems) > 0 {
		markdown.WriteString(strings.Join(metadataItems, " | "))
		markdown.WriteString("\n\n---\n\n")
	}

	markdown.WriteString(cleanMarkdown(content))

	return markdown.String()
}

// cleanMarkdown removes excessive newlines and tidies header spacing
func cleanMarkdown(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = strings.ReplaceAll(markdown, "\r", "\n")

	markdown = excessNewlines.ReplaceAllString(markdown, "\n\n")
	markdown = trailingSpaces.ReplaceAllString(markdown, "\n")
	markdown = leadingSpaces.ReplaceAllString(markdown, "\n")

	markdown = headerBefore.ReplaceAllString(markdown, "\n\n$1")
	markdown = headerFollowing.ReplaceAllString(markdown, "$1\n\n$2")

	return strings.TrimSpace(markdown)
}
