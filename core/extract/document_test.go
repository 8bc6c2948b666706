package extract

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodforbrain-api/core/domain"
	"foodforbrain-api/pkg/utils/text"
)

func parseHTML(t *testing.T, html string) *domain.ExtractedArticle {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	base, err := url.Parse("https://blog.example.com/posts/42")
	require.NoError(t, err)
	return ParseDocument(doc, base)
}

func TestParseDocument_TitlePriority(t *testing.T) {
	tests := []struct {
		name string
		head string
		body string
		want string
	}{
		{
			name: "og title beats document title",
			head: `<meta property="og:title" content="Real Title"><title>Fallback</title>`,
			want: "Real Title",
		},
		{
			name: "twitter title when og missing",
			head: `<meta name="twitter:title" content="Tweet Title"><title>Fallback</title>`,
			want: "Tweet Title",
		},
		{
			name: "blank og title falls through",
			head: `<meta property="og:title" content="   "><meta name="twitter:title" content="Tweet Title">`,
			want: "Tweet Title",
		},
		{
			name: "document title",
			head: `<title>  Plain Title  </title>`,
			body: `<h1>Heading</h1>`,
			want: "Plain Title",
		},
		{
			name: "first heading as last resort",
			body: `<h1>First Heading</h1><h1>Second Heading</h1>`,
			want: "First Heading",
		},
		{
			name: "absent when nothing matches",
			body: `<div>no title here</div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := parseHTML(t, "<html><head>"+tt.head+"</head><body>"+tt.body+"</body></html>")
			assert.Equal(t, tt.want, article.Title)
		})
	}
}

func TestParseDocument_DescriptionPriority(t *testing.T) {
	article := parseHTML(t, `<html><head>
		<meta name="description" content="generic">
		<meta name="twitter:description" content="twitter">
		<meta property="og:description" content="  social  ">
	</head><body></body></html>`)
	assert.Equal(t, "social", article.Description)

	article = parseHTML(t, `<html><head>
		<meta name="description" content="generic">
		<meta name="twitter:description" content="twitter">
	</head><body></body></html>`)
	assert.Equal(t, "twitter", article.Description)

	article = parseHTML(t, `<html><head><meta name="description" content="generic"></head></html>`)
	assert.Equal(t, "generic", article.Description)
}

func TestParseDocument_LengthCaps(t *testing.T) {
	longTitle := strings.Repeat("t", 250)
	longDescription := strings.Repeat("d", 600)
	article := parseHTML(t, fmt.Sprintf(`<html><head>
		<meta property="og:title" content="%s">
		<meta property="og:description" content="%s">
	</head></html>`, longTitle, longDescription))

	assert.Equal(t, domain.MaxTitleLength, text.Length(article.Title))
	assert.Equal(t, domain.MaxDescriptionLength, text.Length(article.Description))
}

func TestParseDocument_Image(t *testing.T) {
	tests := []struct {
		name string
		head string
		want string
	}{
		{
			name: "absolute og image",
			head: `<meta property="og:image" content="https://cdn.example.com/hero.jpg">`,
			want: "https://cdn.example.com/hero.jpg",
		},
		{
			name: "relative og image resolved against page",
			head: `<meta property="og:image" content="/images/hero.jpg">`,
			want: "https://blog.example.com/images/hero.jpg",
		},
		{
			name: "twitter image fallback",
			head: `<meta name="twitter:image" content="https://cdn.example.com/card.png">`,
			want: "https://cdn.example.com/card.png",
		},
		{
			name: "absent",
			head: ``,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := parseHTML(t, "<html><head>"+tt.head+"</head><body></body></html>")
			assert.Equal(t, tt.want, article.Image)
		})
	}
}

func TestParseDocument_Author(t *testing.T) {
	article := parseHTML(t, `<html><head><meta name="author" content=" Ada Lovelace "></head></html>`)
	assert.Equal(t, "Ada Lovelace", article.Author)
}

func TestParseDocument_StripsNoiseFromCandidate(t *testing.T) {
	body := strings.Repeat("Meaningful sentence about the topic. ", 10)
	article := parseHTML(t, `<html><body><article>
		<nav>Home | About</nav>
		<script>var tracking = true;</script>
		<style>.x { color: red; }</style>
		<p>`+body+`</p>
		<div class="ad">Buy now</div>
		<div class="social-share">Share on everything</div>
		<aside>Related links</aside>
		<footer>Copyright</footer>
	</article></body></html>`)

	assert.Equal(t, strings.TrimSpace(body), article.Content)
	for _, noise := range []string{"tracking", "color", "Home", "Buy now", "Share", "Related", "Copyright"} {
		assert.NotContains(t, article.Content, noise)
	}
}

func TestParseDocument_CandidateStripDoesNotMutateDocument(t *testing.T) {
	html := `<html><body><article><nav>Menu</nav><p>` + strings.Repeat("word ", 60) + `</p></article></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	ParseDocument(doc, nil)

	assert.Equal(t, 1, doc.Find("nav").Length())
}

func TestParseDocument_LongestCandidateWins(t *testing.T) {
	short := strings.Repeat("a", 220)
	long := strings.Repeat("b", 400)
	article := parseHTML(t, `<html><body>
		<article>`+short+`</article>
		<div class="entry-content">`+long+`</div>
	</body></html>`)

	assert.Equal(t, long, article.Content)
}

func TestParseDocument_TieKeepsEarlierCandidate(t *testing.T) {
	first := strings.Repeat("a", 300)
	second := strings.Repeat("b", 300)
	article := parseHTML(t, `<html><body>
		<main>`+second+`</main>
		<article>`+first+`</article>
	</body></html>`)

	// article is ranked before main, regardless of document order
	assert.Equal(t, first, article.Content)
}

func TestParseDocument_ParagraphFallback(t *testing.T) {
	var long []string
	var markup strings.Builder
	markup.WriteString("<html><body><div>")
	for i := 0; i < 10; i++ {
		p := fmt.Sprintf("Paragraph %02d %s", i, strings.Repeat("x", 48))
		long = append(long, p)
		fmt.Fprintf(&markup, "<p>  %s  </p>\n", p)
		if i%2 == 0 {
			fmt.Fprintf(&markup, "<p>short %d %s</p>\n", i, strings.Repeat("y", 30))
		}
	}
	markup.WriteString("</div></body></html>")

	article := parseHTML(t, markup.String())

	assert.Equal(t, strings.Join(long, "\n\n"), article.Content)
}

func TestParseDocument_ShortCandidateUsesParagraphs(t *testing.T) {
	para := "This paragraph lives outside any recognised container and is long enough."
	article := parseHTML(t, `<html><body>
		<article>Tiny teaser</article>
		<div><p>`+para+`</p><p>`+para+`</p></div>
	</body></html>`)

	assert.Equal(t, para+"\n\n"+para, article.Content)
}

func TestParseDocument_ShortCandidateDroppedWithoutParagraphs(t *testing.T) {
	description := strings.Repeat("A complete description of the story. ", 5)
	article := parseHTML(t, `<html><head><meta property="og:description" content="`+description+`"></head>
		<body><article>Subscribe to keep reading this story.</article></body></html>`)

	assert.Equal(t, "", article.Content)
	assert.Equal(t, article.Description, article.SummaryInput())
	assert.NotEmpty(t, article.Description)
}

func TestParseDocument_ContentNormalizedAndCapped(t *testing.T) {
	words := strings.Repeat("lorem    ipsum\n\n\n\n   dolor ", 400)
	article := parseHTML(t, `<html><body><article>`+words+`</article></body></html>`)

	assert.LessOrEqual(t, text.Length(article.Content), domain.MaxContentLength)
	assert.NotContains(t, article.Content, "  ")
	assert.NotContains(t, article.Content, "\n\n\n")
	assert.NotContains(t, article.Content, "\n ")
	assert.Equal(t, article.Content, NormalizeContent(article.Content))
}

func TestParseDocument_Deterministic(t *testing.T) {
	html := `<html><head><meta property="og:title" content="T"><meta property="og:image" content="/i.png"></head>
		<body><article>` + strings.Repeat("content ", 50) + `</article><main>` + strings.Repeat("other ", 50) + `</main></body></html>`

	first := parseHTML(t, html)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, parseHTML(t, html))
	}
}

func TestParseDocument_EmptyDocument(t *testing.T) {
	article := parseHTML(t, "")

	assert.Equal(t, &domain.ExtractedArticle{}, article)
}

func TestSafeValue_RecoversPanics(t *testing.T) {
	got := safeValue(func() string { panic("bad selector") })
	assert.Equal(t, "", got)
}

func TestNormalizeContent_Idempotent(t *testing.T) {
	inputs := []string{
		"already normalized text",
		"line one\nline two\n\nparagraph two",
		"  messy \t\t text \n\n\n\n with   gaps  ",
		strings.Repeat("é ", 3000),
	}

	for _, in := range inputs {
		once := NormalizeContent(in)
		assert.Equal(t, once, NormalizeContent(once))
		assert.LessOrEqual(t, text.Length(once), domain.MaxContentLength)
	}
}
