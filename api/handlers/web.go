// ABOUTME: Web handlers serving the download form, the file download, and the error pages
// ABOUTME: Failures are reported through flash messages and a redirect back to the form

package handlers

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tiktok-downloader/api/middleware"
	"tiktok-downloader/api/web"
	"tiktok-downloader/core/domain"
	coreerrors "tiktok-downloader/core/errors"
	"tiktok-downloader/core/interfaces"
	"tiktok-downloader/core/validate"
	"tiktok-downloader/pkg/utils/filename"
)

// Inline page errors
const (
	MessageNotFound      = "The page you requested does not exist."
	MessageInternalError = "An internal error occurred. Please try again."
)

// maxFormBytes bounds the download form body
const maxFormBytes = 64 << 10

// Substrings of a lower-cased User-Agent that mark a mobile browser
var mobileAgents = []string{"mobile", "android", "iphone", "ipad"}

// Downloader runs one download attempt
type Downloader interface {
	Download(ctx context.Context, url string) *domain.DownloadOutcome
}

// WebHandler serves the HTML form and the download endpoint
type WebHandler struct {
	downloader Downloader
	renderer   *web.Renderer
	flashes    *web.FlashStore
	logger     interfaces.Logger
}

// NewWebHandler creates a new web handler
func NewWebHandler(downloader Downloader, renderer *web.Renderer, flashes *web.FlashStore, logger interfaces.Logger) *WebHandler {
	return &WebHandler{
		downloader: downloader,
		renderer:   renderer,
		flashes:    flashes,
		logger:     logger,
	}
}

// RegisterRoutes registers the web routes and the 404/405 fallbacks
func (h *WebHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.Index)
	router.Post("/download", h.Download)
	router.NotFound(h.NotFound)
	router.MethodNotAllowed(h.MethodNotAllowed)
}

// Index handles GET /
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "")
}

// NotFound re-renders the form with a 404 status
func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, MessageNotFound)
}

// MethodNotAllowed re-renders the form with a 405 status
func (h *WebHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}

// InternalError re-renders the form with a 500 status. It is the panic fallback.
func (h *WebHandler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusInternalServerError, MessageInternalError)
}

// Download handles POST /download
func (h *WebHandler) Download(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, &coreerrors.ValidationError{Field: "url", Message: validate.MessageInvalid}, validate.MessageInvalid)
		return
	}

	rawURL := formURL(r)
	if rawURL == "" {
		h.fail(w, r, &coreerrors.ValidationError{Field: "url", Message: validate.MessageEmpty}, validate.MessageEmpty)
		return
	}
	if !validate.IsValidVideoURL(rawURL) {
		h.fail(w, r, &coreerrors.ValidationError{Field: "url", Message: validate.MessageInvalid}, validate.MessageInvalid)
		return
	}

	// A dropped client connection must not abort the extraction.
	ctx := context.WithoutCancel(r.Context())
	outcome := h.downloader.Download(ctx, rawURL)
	if outcome == nil || !outcome.Success {
		var err error
		var message string
		if outcome != nil {
			err, message = outcome.Err, outcome.ErrorMessage
		}
		h.fail(w, r, err, message)
		return
	}

	h.sendFile(w, r, outcome)
}

// sendFile streams the downloaded file as an attachment. The file stays on
// disk for the janitor.
func (h *WebHandler) sendFile(w http.ResponseWriter, r *http.Request, outcome *domain.DownloadOutcome) {
	f, err := os.Open(outcome.FilePath)
	if err != nil {
		h.fail(w, r, &coreerrors.MissingFileError{Path: outcome.FilePath, Reason: err.Error()}, "")
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		h.fail(w, r, &coreerrors.MissingFileError{Path: outcome.FilePath, Reason: "not a regular file"}, "")
		return
	}

	name := filename.ForDownload(outcome.Title, outcome.Extension)

	header := w.Header()
	header.Set("Content-Disposition", filename.ContentDisposition(name))
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	header.Set("Content-Transfer-Encoding", "binary")
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	if isMobile(r.UserAgent()) {
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("Content-Description", "File Transfer")
	}
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, f)
	fields := map[string]interface{}{
		"request_id": middleware.GetRequestID(r),
		"path":       outcome.FilePath,
		"filename":   name,
		"bytes":      written,
	}
	if err != nil {
		fields["error"] = err.Error()
		h.logger.Warn("File transfer interrupted", fields)
		return
	}
	h.logger.Info("File sent", fields)
}

// fail logs err, queues message as a flash and redirects to the form
func (h *WebHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	text := flashText(err, message)

	fields := middleware.RequestLogFields(r)
	fields["kind"] = errorKind(err)
	fields["status"] = statusFor(err)
	if err != nil {
		fields["error"] = err.Error()
	}
	switch errorKind(err) {
	case kindInput:
		h.logger.Info("Download rejected", fields)
	case kindExtraction:
		h.logger.Warn("Download failed", fields)
	default:
		h.logger.Error("Download failed", fields)
	}

	if ferr := h.flashes.Add(w, r, web.Message{Category: web.CategoryError, Text: text}); ferr != nil {
		h.logger.Error("Failed to store flash message", map[string]interface{}{
			"request_id": middleware.GetRequestID(r),
			"error":      ferr.Error(),
		})
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// render pops pending flashes and renders the form
func (h *WebHandler) render(w http.ResponseWriter, r *http.Request, status int, pageError string) {
	page := web.Page{
		Flashes: h.flashes.Pop(w, r),
		Error:   pageError,
	}
	if err := h.renderer.Render(w, status, page); err != nil {
		h.logger.Error("Failed to render page", map[string]interface{}{
			"request_id": middleware.GetRequestID(r),
			"error":      err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// formURL reads the submitted URL, accepting the legacy video_url field name
func formURL(r *http.Request) string {
	if v := strings.TrimSpace(r.PostForm.Get("url")); v != "" {
		return v
	}
	return strings.TrimSpace(r.PostForm.Get("video_url"))
}

func isMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, m := range mobileAgents {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}
