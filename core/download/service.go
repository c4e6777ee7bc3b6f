// ABOUTME: Download orchestrator validating URLs, driving the extractor, and verifying its output
// ABOUTME: Every attempt yields one DownloadOutcome carrying a typed error on failure

package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"golang.org/x/time/rate"

	"tiktok-downloader/core/domain"
	coreerrors "tiktok-downloader/core/errors"
	"tiktok-downloader/core/interfaces"
	"tiktok-downloader/core/validate"
	"tiktok-downloader/pkg/utils/duration"
)

// User-facing messages
const (
	MessageFailedPrefix = "Download failed: "
	MessageMissingFile  = "the video file was not created"
	MessageUnexpected   = "An unexpected error occurred. Please try again."
)

const maxMessageLength = 200

// Suffixes of in-progress files yt-dlp may leave next to the final output
var partialSuffixes = []string{".part", ".ytdl", ".temp", ".tmp"}

// Config holds the immutable orchestrator configuration
type Config struct {
	TempDir       string
	FilePrefix    string
	Timeout       time.Duration
	RatePerMinute int
	Format        string
	MergeFormat   string
	UserAgent     string
	Referer       string
}

// Service orchestrates one download per call. It is safe for concurrent use.
type Service struct {
	extractor interfaces.Extractor
	logger    interfaces.Logger
	cfg       Config
	limiter   *rate.Limiter
	newID     func() string
}

// NewService creates a new download orchestrator
func NewService(deps interfaces.Dependencies, cfg Config) *Service {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}

	return &Service{
		extractor: deps.Extractor,
		logger:    deps.Logger,
		cfg:       cfg,
		limiter:   limiter,
		newID:     uuid.NewString,
	}
}

// Download validates url, probes and downloads it, and verifies the resulting file.
// ctx bounds the attempt together with the configured timeout.
func (s *Service) Download(ctx context.Context, url string) (outcome *domain.DownloadOutcome) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("download panicked: %v", r)
			s.logger.Error("Unexpected download failure", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			outcome = domain.Failed(err, MessageUnexpected)
		}
	}()

	req := domain.NewDownloadRequest(url)
	if err := checkURL(req.URL); err != nil {
		return domain.Failed(err, UserMessage(err))
	}

	fileID := s.newID()
	base := s.cfg.FilePrefix + fileID
	fields := map[string]interface{}{
		"url":      req.URL,
		"file_id":  fileID,
		"video_id": validate.VideoID(req.URL),
	}
	s.logger.Info("Starting download", fields)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	info, err := s.run(ctx, req.URL, base)
	if err != nil {
		s.removePartial(base)
		s.logFailure(err, fields)
		return domain.Failed(err, UserMessage(err))
	}

	path, size, err := s.resolveOutput(base)
	if err != nil {
		s.removePartial(base)
		s.logFailure(err, fields)
		return domain.Failed(err, UserMessage(err))
	}

	ext, mimeType := s.detectType(path, info)
	s.logger.Info("Download completed", map[string]interface{}{
		"url":      req.URL,
		"file_id":  fileID,
		"path":     path,
		"size":     size,
		"mime":     mimeType,
		"title":    info.Title,
		"duration": duration.FormatSeconds(info.Duration),
	})

	return domain.Succeeded(info, path, ext, mimeType, size)
}

// run performs the paced probe and download steps
func (s *Service) run(ctx context.Context, url, base string) (*domain.VideoInfo, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, s.extractionError(ctx, "pace", "the service is busy, please try again shortly", err)
	}

	headers := s.headers()

	info, err := s.extractor.Probe(ctx, url, headers)
	if err != nil {
		return nil, s.extractionError(ctx, "probe", "", err)
	}
	if info.IsEmpty() {
		return nil, &coreerrors.ExtractionError{
			Stage:   "probe",
			Message: "could not retrieve video information (the video may be private, removed or region-locked)",
		}
	}

	opts := interfaces.FetchOptions{
		OutputTemplate: filepath.Join(s.cfg.TempDir, base+".%(ext)s"),
		Format:         s.cfg.Format,
		MergeFormat:    s.cfg.MergeFormat,
		Headers:        headers,
	}
	if err := s.extractor.Fetch(ctx, url, opts); err != nil {
		return nil, s.extractionError(ctx, "download", "", err)
	}
	return info, nil
}

func (s *Service) headers() map[string]string {
	headers := make(map[string]string, 2)
	if s.cfg.UserAgent != "" {
		headers["User-Agent"] = s.cfg.UserAgent
	}
	if s.cfg.Referer != "" {
		headers["Referer"] = s.cfg.Referer
	}
	return headers
}

// extractionError normalizes an extractor failure. Deadline overruns get a
// fixed message so users are not shown "context deadline exceeded".
func (s *Service) extractionError(ctx context.Context, stage, message string, cause error) error {
	if ctx.Err() == context.DeadlineExceeded {
		message = fmt.Sprintf("the video took longer than %s to download", s.cfg.Timeout)
	}
	if message == "" {
		message = truncate(cause.Error(), maxMessageLength)
	}
	return &coreerrors.ExtractionError{Stage: stage, Message: message, Cause: cause}
}

// resolveOutput finds the file the extractor produced for base and checks it is
// a non-empty regular file.
func (s *Service) resolveOutput(base string) (string, int64, error) {
	pattern := filepath.Join(s.cfg.TempDir, base+".*")

	candidates, err := s.outputs(base)
	if err != nil {
		return "", 0, &coreerrors.MissingFileError{Path: pattern, Reason: err.Error()}
	}

	var (
		best     string
		bestSize int64
		reason   = "no output file found"
	)
	for _, name := range candidates {
		path := filepath.Join(s.cfg.TempDir, name)
		fi, err := os.Stat(path)
		if err != nil {
			reason = err.Error()
			continue
		}
		if !fi.Mode().IsRegular() {
			reason = "output is not a regular file"
			continue
		}
		if fi.Size() == 0 {
			reason = "output file is empty"
			continue
		}
		if fi.Size() > bestSize {
			best, bestSize = path, fi.Size()
		}
	}

	if best == "" {
		return "", 0, &coreerrors.MissingFileError{Path: pattern, Reason: reason}
	}
	return best, bestSize, nil
}

// outputs lists finished files named base.<ext>, skipping partial downloads
func (s *Service) outputs(base string) ([]string, error) {
	entries, err := os.ReadDir(s.cfg.TempDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base+".") || isPartial(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// removePartial deletes every file left behind for base
func (s *Service) removePartial(base string) {
	entries, err := os.ReadDir(s.cfg.TempDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), base) {
			continue
		}
		path := filepath.Join(s.cfg.TempDir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove partial download", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
}

// detectType returns the container extension and MIME type of path. The name
// yt-dlp chose wins; the file header fills the gaps.
func (s *Service) detectType(path string, info *domain.VideoInfo) (string, string) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	mimeType := "application/octet-stream"

	kind, err := filetype.MatchFile(path)
	if err == nil && kind != filetype.Unknown {
		mimeType = kind.MIME.Value
		if ext == "" {
			ext = kind.Extension
		}
		if kind.MIME.Type != "video" && kind.MIME.Type != "audio" {
			s.logger.Warn("Downloaded file is not audio or video", map[string]interface{}{
				"path": path,
				"mime": mimeType,
			})
		}
	}

	if ext == "" && info != nil {
		ext = info.Ext
	}
	if ext == "" {
		ext = "mp4"
	}
	return ext, mimeType
}

func (s *Service) logFailure(err error, fields map[string]interface{}) {
	logFields := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		logFields[k] = v
	}
	logFields["error"] = err.Error()

	if coreerrors.IsMissingFile(err) {
		s.logger.Error("Extractor reported success but no file was produced", logFields)
		return
	}
	s.logger.Warn("Download failed", logFields)
}

// checkURL re-validates input even when the caller already did
func checkURL(url string) error {
	if url == "" {
		return &coreerrors.ValidationError{Field: "url", Message: validate.MessageEmpty}
	}
	if !validate.IsValidVideoURL(url) {
		return &coreerrors.ValidationError{Field: "url", Message: validate.MessageInvalid}
	}
	return nil
}

// UserMessage maps a download error to text safe to show end users
func UserMessage(err error) string {
	var validationErr *coreerrors.ValidationError
	var extractionErr *coreerrors.ExtractionError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &extractionErr):
		return MessageFailedPrefix + extractionErr.Message
	case coreerrors.IsMissingFile(err):
		return MessageFailedPrefix + MessageMissingFile
	default:
		return MessageUnexpected
	}
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
