// ABOUTME: Heuristic extraction of article metadata and body text from a parsed HTML document
// ABOUTME: Uses prioritized selector lists so each strategy stays declarative and testable

package extract

import (
	"net/url"
	"strings"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/pkg/utils/text"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minCandidateLength is the content length below which the paragraph fallback runs
	minCandidateLength = 200
	// minParagraphLength is the exclusive lower bound for a paragraph to be kept by the fallback
	minParagraphLength = 50
)

// fieldSource reads one value from the first element matching selector
type fieldSource struct {
	selector string
	read     func(*goquery.Selection) string
}

func metaContent(s *goquery.Selection) string {
	return s.AttrOr("content", "")
}

func elementText(s *goquery.Selection) string {
	return s.Text()
}

var (
	titleSources = []fieldSource{
		{`meta[property="og:title"]`, metaContent},
		{`meta[name="twitter:title"]`, metaContent},
		{"title", elementText},
		{"h1", elementText},
	}

	descriptionSources = []fieldSource{
		{`meta[property="og:description"]`, metaContent},
		{`meta[name="twitter:description"]`, metaContent},
		{`meta[name="description"]`, metaContent},
	}

	imageSources = []fieldSource{
		{`meta[property="og:image"]`, metaContent},
		{`meta[name="twitter:image"]`, metaContent},
	}

	authorSources = []fieldSource{
		{`meta[name="author"]`, metaContent},
	}
)

// contentCandidates are container selectors in priority order
var contentCandidates = []string{
	"article",
	`[role="main"]`,
	".post-content",
	".article-content",
	".entry-content",
	".content",
	"main",
	".post-body",
}

// noiseSelector matches subtrees removed from a candidate before measuring it
const noiseSelector = "script, style, nav, aside, footer, .ad, .advertisement, .social-share"

// ParseDocument derives an ExtractedArticle from doc. pageURL resolves relative image URLs
// and may be nil. It never fails: a field that cannot be read is left empty.
func ParseDocument(doc *goquery.Document, pageURL *url.URL) *domain.ExtractedArticle {
	sel := doc.Selection

	article := &domain.ExtractedArticle{
		Title:       capped(firstMatch(sel, titleSources), domain.MaxTitleLength),
		Description: capped(firstMatch(sel, descriptionSources), domain.MaxDescriptionLength),
		Author:      firstMatch(sel, authorSources),
		Content:     safeValue(func() string { return selectContent(sel) }),
	}

	if image := firstMatch(sel, imageSources); image != "" {
		article.Image = resolveURL(pageURL, image)
	}

	return article
}

// firstMatch returns the first non-blank trimmed value across sources, in order
func firstMatch(sel *goquery.Selection, sources []fieldSource) string {
	for _, src := range sources {
		value := safeValue(func() string {
			return strings.TrimSpace(src.read(sel.Find(src.selector).First()))
		})
		if value != "" {
			return value
		}
	}
	return ""
}

// safeValue runs read and treats a panic as an absent value
func safeValue(read func() string) (value string) {
	defer func() {
		if r := recover(); r != nil {
			value = ""
		}
	}()
	return read()
}

// selectContent picks the longest cleaned candidate, falls back to long paragraphs,
// and normalizes the result. A short candidate is always replaced by the paragraph
// join, even an empty one, so the description can stand in for teaser text.
func selectContent(sel *goquery.Selection) string {
	best := ""
	bestLen := 0
	for _, selector := range contentCandidates {
		candidate := safeValue(func() string { return candidateText(sel.Find(selector)) })
		// strict comparison keeps the earlier candidate on ties
		if n := text.Length(candidate); n > bestLen {
			best, bestLen = candidate, n
		}
	}

	if bestLen < minCandidateLength {
		best = safeValue(func() string { return paragraphText(sel) })
	}

	return NormalizeContent(best)
}

// candidateText strips noise from a detached copy of the candidate and returns its text
func candidateText(candidate *goquery.Selection) string {
	if candidate.Length() == 0 {
		return ""
	}
	clone := candidate.Clone()
	clone.Find(noiseSelector).Remove()
	return strings.TrimSpace(clone.Text())
}

// paragraphText joins every paragraph longer than minParagraphLength with blank lines
func paragraphText(sel *goquery.Selection) string {
	var kept []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		t := strings.TrimSpace(p.Text())
		if text.Length(t) > minParagraphLength {
			kept = append(kept, t)
		}
	})
	return strings.Join(kept, "\n\n")
}

// capped truncates s to max characters and trims what is left
func capped(s string, max int) string {
	return strings.TrimSpace(text.Truncate(s, max))
}

// NormalizeContent collapses whitespace, trims and caps content length.
// Applying it to its own output is a no-op.
func NormalizeContent(content string) string {
	return capped(text.CollapseWhitespace(content), domain.MaxContentLength)
}

// resolveURL makes raw absolute against base. Unparseable values are dropped.
func resolveURL(base *url.URL, raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return ""
	}
	return ref.String()
}
