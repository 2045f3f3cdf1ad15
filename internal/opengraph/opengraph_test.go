package opengraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CYule/vibe-gallery/internal/config"
)

func serveHTML(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape_PropertyBeforeContent(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><head>
		<meta property="og:title" content="My Project">
		<meta property="og:description" content="It does things">
		<meta property="og:image" content="https://example.com/thumb.png">
	</head></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "My Project", data.Title)
	assert.Equal(t, "It does things", data.Description)
	assert.Equal(t, "https://example.com/thumb.png", data.Image)
}

func TestScrape_ContentBeforeProperty(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><head>
		<meta content="Reversed Order" property="og:title">
	</head></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Reversed Order", data.Title)
}

func TestScrape_NameAttribute(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><head>
		<meta name="og:title" content="Name Attr">
	</head></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Name Attr", data.Title)
}

func TestScrape_TitleTagFallback(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><head>
		<title>  Fallback Title  </title>
		<meta property="og:description" content="no og title here">
	</head></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Fallback Title", data.Title)
	assert.Equal(t, "no og title here", data.Description)
}

func TestScrape_OGTitleWinsOverTitleTag(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><head>
		<title>Page Title</title>
		<meta property="og:title" content="OG Title">
	</head></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "OG Title", data.Title)
}

func TestScrape_Non200IsEmptyNotError(t *testing.T) {
	srv := serveHTML(t, http.StatusNotFound, `<html><head><title>404</title></head></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, data.Title)
	assert.Empty(t, data.Description)
	assert.Empty(t, data.Image)
}

func TestScrape_MissingTagsAreEmpty(t *testing.T) {
	srv := serveHTML(t, http.StatusOK, `<html><body>no metadata at all</body></html>`)

	s := New(nil)
	data, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, &Data{}, data)
}

func TestScrape_FetchErrorIsReported(t *testing.T) {
	s := New(&config.ScraperConfig{TimeoutSeconds: 1})
	_, err := s.Scrape(context.Background(), "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestScrape_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	t.Cleanup(srv.Close)

	s := New(&config.ScraperConfig{UserAgent: "VibeGalleryBot-Test"})
	_, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "VibeGalleryBot-Test", gotUA)
}
