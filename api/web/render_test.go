package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RendersForm(t *testing.T) {
	r, err := NewRenderer("TikTok Downloader")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, Page{}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "TikTok Downloader", doc.Find("title").Text())
	form := doc.Find("form#download-form")
	assert.Equal(t, 1, form.Length())
	assert.Equal(t, "/download", form.AttrOr("action", ""))
	assert.Equal(t, "post", form.AttrOr("method", ""))
	assert.Equal(t, 1, form.Find(`input[name="url"]`).Length())
	assert.Zero(t, doc.Find(".alert").Length())
}

func TestRenderer_RendersFlashesAndError(t *testing.T) {
	r, err := NewRenderer("TikTok Downloader")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusNotFound, Page{
		Error:   "Page not found",
		Flashes: []Message{{Category: CategoryError, Text: "Download failed: <script>alert(1)</script>"}},
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "Page not found", doc.Find(".page-error").Text())
	assert.Equal(t, "Download failed: <script>alert(1)</script>", doc.Find(".flash-error").Text())
}

func TestRenderer_PageTitleOverride(t *testing.T) {
	r, err := NewRenderer("TikTok Downloader")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, Page{Title: "Custom"}))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Custom", doc.Find("h1").Text())
}
