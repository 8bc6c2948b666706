// ABOUTME: Lightweight link preview extraction using colly for quick metadata-only fetches
// ABOUTME: Never fails outward; any error degrades to a preview titled with the URL itself

package extract

import (
	"context"
	"encoding/json"

	"foodforbrain-api/core/domain"

	"github.com/gocolly/colly"
)

const previewCachePrefix = "preview:"

var (
	peekTitleSources = []fieldSource{
		{`meta[property="og:title"]`, metaContent},
		{"title", elementText},
	}
	peekDescriptionSources = []fieldSource{
		{`meta[property="og:description"]`, metaContent},
	}
	peekImageSources = []fieldSource{
		{`meta[property="og:image"]`, metaContent},
	}
)

// Peek returns preview metadata for pageURL. Successful previews are cached.
func (s *Service) Peek(ctx context.Context, pageURL string) domain.Preview {
	cacheKey := previewCachePrefix + pageURL

	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached domain.Preview
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
		}
	}

	preview, err := s.visitPreview(ctx, pageURL)
	if err != nil {
		s.deps.Logger.Debug("Preview extraction failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return domain.Preview{URL: pageURL, Title: pageURL}
	}

	if s.deps.Cache != nil {
		if data, err := json.Marshal(preview); err == nil {
			_ = s.deps.Cache.Set(ctx, cacheKey, data, s.opts.PreviewTTL)
		}
	}

	return preview
}

// visitPreview fetches pageURL with a dedicated collector and reads head metadata.
// The collector has no context support, so ctx is only checked before the request
// is sent and after it returns.
func (s *Service) visitPreview(ctx context.Context, pageURL string) (preview domain.Preview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errPreviewPanic
		}
	}()

	preview = domain.Preview{URL: pageURL}

	c := colly.NewCollector(
		colly.UserAgent(s.opts.PeekUserAgent),
		colly.MaxBodySize(int(s.opts.MaxBodySize)),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.opts.PeekTimeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		preview.Title = capped(firstMatch(e.DOM, peekTitleSources), domain.MaxTitleLength)
		preview.Description = capped(firstMatch(e.DOM, peekDescriptionSources), domain.MaxDescriptionLength)
		if image := firstMatch(e.DOM, peekImageSources); image != "" {
			preview.Image = e.Request.AbsoluteURL(image)
		}
	})

	if err := c.Visit(pageURL); err != nil {
		return domain.Preview{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Preview{}, err
	}

	return preview, nil
}

type previewError string

func (e previewError) Error() string { return string(e) }

const errPreviewPanic = previewError("preview extraction panicked")
