// ABOUTME: Extractor service fetches article documents and derives structured article data
// ABOUTME: Retrieval failures surface as FetchError while malformed markup only degrades fields

package extract

import (
	"context"
	"io"
	"net/url"
	"time"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/core/errors"
	"foodforbrain-api/core/interfaces"
	"foodforbrain-api/pkg/utils/text"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Options tunes network behaviour of the extractor
type Options struct {
	// FetchTimeout bounds the full document fetch
	FetchTimeout time.Duration

	// PeekTimeout bounds the metadata-only fetch
	PeekTimeout time.Duration

	// PeekUserAgent identifies preview requests
	PeekUserAgent string

	// PreviewTTL is how long successful previews stay cached
	PreviewTTL time.Duration

	// MaxBodySize caps how many bytes of a document are parsed
	MaxBodySize int64
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		FetchTimeout:  10 * time.Second,
		PeekTimeout:   5 * time.Second,
		PeekUserAgent: "Mozilla/5.0 (compatible; FoodForBrain/1.0)",
		PreviewTTL:    24 * time.Hour,
		MaxBodySize:   5 * 1024 * 1024,
	}
}

// Service implements interfaces.ArticleExtractor
type Service struct {
	deps interfaces.Dependencies
	opts Options
}

var _ interfaces.ArticleExtractor = (*Service)(nil)

// NewService creates an extractor. deps.HTTPClient performs full document fetches.
func NewService(deps interfaces.Dependencies, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaults.FetchTimeout
	}
	if opts.PeekTimeout <= 0 {
		opts.PeekTimeout = defaults.PeekTimeout
	}
	if opts.PeekUserAgent == "" {
		opts.PeekUserAgent = defaults.PeekUserAgent
	}
	if opts.PreviewTTL <= 0 {
		opts.PreviewTTL = defaults.PreviewTTL
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = defaults.MaxBodySize
	}

	return &Service{deps: deps, opts: opts}
}

// Extract fetches pageURL and extracts its article data
func (s *Service) Extract(ctx context.Context, pageURL string) (*domain.ExtractedArticle, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		s.deps.Logger.Warn("Failed to fetch article", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return nil, err
	}

	base, _ := url.Parse(pageURL)
	article := ParseDocument(doc, base)

	s.deps.Logger.Debug("Article extracted", map[string]interface{}{
		"url":            pageURL,
		"title":          article.Title,
		"content_length": text.Length(article.Content),
		"has_image":      article.Image != "",
	})

	return article, nil
}

// fetchDocument retrieves and parses pageURL within FetchTimeout
func (s *Service) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	resp, err := s.deps.HTTPClient.Get(ctx, pageURL)
	if err != nil {
		return nil, &errors.FetchError{URL: pageURL, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &errors.FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	reader, err := charset.NewReader(io.LimitReader(body, s.opts.MaxBodySize), resp.Header("Content-Type"))
	if err != nil {
		return nil, &errors.FetchError{URL: pageURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, &errors.FetchError{URL: pageURL, Err: err}
	}

	return doc, nil
}
