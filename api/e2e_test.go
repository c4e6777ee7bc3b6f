package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/publicsuffix"

	"tiktok-downloader/api"
	"tiktok-downloader/core/domain"
	"tiktok-downloader/core/download"
	"tiktok-downloader/core/interfaces"
	"tiktok-downloader/core/validate"
	"tiktok-downloader/infrastructure/cache/memory"
	"tiktok-downloader/pkg/config"
)

const videoURL = "https://www.tiktok.com/@example/video/7234567890123456789"

// stubExtractor writes a fixed payload for every fetch
type stubExtractor struct {
	title    string
	probeErr error
	payload  []byte
	calls    atomic.Int32
}

func (s *stubExtractor) Probe(ctx context.Context, url string, headers map[string]string) (*domain.VideoInfo, error) {
	s.calls.Add(1)
	if s.probeErr != nil {
		return nil, s.probeErr
	}
	return &domain.VideoInfo{ID: "7234567890123456789", Title: s.title}, nil
}

func (s *stubExtractor) Fetch(ctx context.Context, url string, opts interfaces.FetchOptions) error {
	path := strings.Replace(opts.OutputTemplate, "%(ext)s", "mp4", 1)
	return os.WriteFile(path, s.payload, 0o644)
}

type quietLogger struct{}

func (quietLogger) Debug(msg string, fields map[string]interface{}) {}
func (quietLogger) Info(msg string, fields map[string]interface{})  {}
func (quietLogger) Warn(msg string, fields map[string]interface{})  {}
func (quietLogger) Error(msg string, fields map[string]interface{}) {}

// newTestServer wires the full stack around extractor and returns a cookie-aware client
func newTestServer(t *testing.T, extractor interfaces.Extractor) (*httptest.Server, *http.Client) {
	t.Helper()

	deps := interfaces.Dependencies{
		Extractor: extractor,
		Cache:     memory.NewMemoryCache(config.MemoryConfig{}),
		Logger:    quietLogger{},
	}
	svc := download.NewService(deps, download.Config{
		TempDir:    t.TempDir(),
		FilePrefix: "tiktok_",
		Timeout:    5 * time.Second,
	})

	router, err := api.NewRouter(api.RouterConfig{
		Logger:        deps.Logger,
		Cache:         deps.Cache,
		Downloader:    svc,
		Checker:       validate.NewChecker(),
		ServiceName:   "TikTok Downloader",
		SessionSecret: "e2e-secret",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func flashTexts(t *testing.T, body io.Reader) []string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(body)
	require.NoError(t, err)

	var texts []string
	doc.Find(".flash-error").Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

func TestEndToEnd_DownloadSuccess(t *testing.T) {
	extractor := &stubExtractor{title: "My Clip!", payload: []byte("fake mp4 payload")}
	srv, client := newTestServer(t, extractor)

	resp, err := client.PostForm(srv.URL+"/download", url.Values{"url": {videoURL}})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="My-Clip.mp4"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake mp4 payload", string(body))
}

func TestEndToEnd_InvalidURLRedirectsWithFlash(t *testing.T) {
	extractor := &stubExtractor{title: "unused", payload: []byte("x")}
	srv, client := newTestServer(t, extractor)

	resp, err := client.PostForm(srv.URL+"/download", url.Values{"url": {"not-a-url"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	// The client followed the redirect back to the form
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, []string{"Please enter a valid TikTok video URL"}, flashTexts(t, resp.Body))
	assert.Zero(t, extractor.calls.Load())

	// The flash is shown once
	again, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Empty(t, flashTexts(t, again.Body))
}

func TestEndToEnd_ExtractionFailureFlash(t *testing.T) {
	extractor := &stubExtractor{probeErr: assert.AnError}
	srv, client := newTestServer(t, extractor)

	resp, err := client.PostForm(srv.URL+"/download", url.Values{"url": {videoURL}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	texts := flashTexts(t, resp.Body)
	require.Len(t, texts, 1)
	assert.True(t, strings.HasPrefix(texts[0], "Download failed: "), texts[0])
}

func TestEndToEnd_Validate(t *testing.T) {
	srv, client := newTestServer(t, &stubExtractor{})

	tests := []struct {
		url   string
		valid bool
	}{
		{videoURL, true},
		{"https://youtube.com/watch?v=abc", false},
	}

	for _, tt := range tests {
		resp, err := client.Post(srv.URL+"/validate", "application/json", strings.NewReader(`{"url": "`+tt.url+`"}`))
		require.NoError(t, err)

		var out struct {
			Valid   bool   `json:"valid"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, tt.valid, out.Valid, tt.url)
		assert.NotEmpty(t, out.Message)
	}
}

func TestEndToEnd_Health(t *testing.T) {
	srv, client := newTestServer(t, &stubExtractor{})

	resp, err := client.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "TikTok Downloader is running", out["message"])
}

func TestEndToEnd_HeadRequests(t *testing.T) {
	srv, client := newTestServer(t, &stubExtractor{})

	for _, path := range []string{"/", "/health"} {
		t.Run(path, func(t *testing.T) {
			resp, err := client.Head(srv.URL + path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Empty(t, body)
		})
	}
}

func TestEndToEnd_NotFoundRendersForm(t *testing.T) {
	srv, client := newTestServer(t, &stubExtractor{})

	resp, err := client.Get(srv.URL + "/no-such-page")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("form#download-form").Length())
	assert.NotEmpty(t, doc.Find(".page-error").Text())
}
