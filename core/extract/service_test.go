package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodforbrain-api/core/errors"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback</title>
	<meta property="og:title" content="Real Title">
	<meta property="og:description" content="A short description">
	<meta property="og:image" content="/static/hero.png">
	<meta name="author" content="Jane Writer">
</head>
<body>
	<nav>Site navigation</nav>
	<article>
		<h1>Real Title</h1>
		<p>The first paragraph of the article explains the subject in plain words for everyone.</p>
		<p>The second paragraph adds detail and context so the article is long enough to keep.</p>
		<p>The third paragraph wraps up with a conclusion and a few closing thoughts for readers.</p>
		<script>console.log("noise")</script>
	</article>
</body>
</html>`

func TestExtract_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articlePage))
	}))
	defer server.Close()

	svc := newTestService(nil, DefaultOptions())

	article, err := svc.Extract(context.Background(), server.URL+"/post")
	require.NoError(t, err)

	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "Real Title", article.Title)
	assert.Equal(t, "A short description", article.Description)
	assert.Equal(t, server.URL+"/static/hero.png", article.Image)
	assert.Equal(t, "Jane Writer", article.Author)
	assert.True(t, strings.HasPrefix(article.Content, "Real Title\nThe first paragraph"))
	assert.NotContains(t, article.Content, "noise")
	assert.NotContains(t, article.Content, "Site navigation")
}

func TestExtract_NonSuccessStatusIsFetchError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(articlePage))
		}))

		svc := newTestService(nil, DefaultOptions())
		article, err := svc.Extract(context.Background(), server.URL)
		server.Close()

		require.Error(t, err)
		assert.Nil(t, article)
		assert.True(t, errors.IsFetch(err), "status %d should be a FetchError", status)
	}
}

func TestExtract_TimeoutIsFetchError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	opts := DefaultOptions()
	opts.FetchTimeout = 50 * time.Millisecond
	svc := newTestService(nil, opts)

	start := time.Now()
	_, err := svc.Extract(context.Background(), server.URL)

	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExtract_UnreachableHostIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc := newTestService(nil, DefaultOptions())
	_, err := svc.Extract(context.Background(), url)

	assert.True(t, errors.IsFetch(err))
}

func TestExtract_DecodesDeclaredCharset(t *testing.T) {
	// "Café" in ISO-8859-1
	page := []byte("<html><head><title>Caf\xe9</title></head><body></body></html>")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write(page)
	}))
	defer server.Close()

	svc := newTestService(nil, DefaultOptions())
	article, err := svc.Extract(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Café", article.Title)
}

func TestExtract_MalformedMarkupDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Broken<body><article><p>unclosed <b>bold <i>mess`))
	}))
	defer server.Close()

	svc := newTestService(nil, DefaultOptions())
	article, err := svc.Extract(context.Background(), server.URL)

	require.NoError(t, err)
	assert.NotNil(t, article)
}

func TestNewService_AppliesDefaults(t *testing.T) {
	svc := newTestService(nil, Options{})

	assert.Equal(t, DefaultOptions(), svc.opts)
}
