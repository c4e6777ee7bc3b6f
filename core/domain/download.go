// ABOUTME: Download domain model describing one request, its probed metadata, and its outcome
// ABOUTME: Also describes the temporary files the extractor leaves on disk

package domain

import (
	"strings"
	"time"
)

// DownloadRequest is the input of a single download operation
type DownloadRequest struct {
	// URL is the raw URL submitted by the user
	URL string
}

// NewDownloadRequest creates a request with surrounding whitespace removed
func NewDownloadRequest(rawURL string) DownloadRequest {
	return DownloadRequest{URL: strings.TrimSpace(rawURL)}
}

// VideoInfo holds the metadata the extractor reports before downloading.
// Every field is best-effort and may be zero.
type VideoInfo struct {
	ID         string
	Title      string
	Uploader   string
	Duration   float64 // seconds
	ViewCount  int64
	LikeCount  int64
	Ext        string
	WebpageURL string
}

// IsEmpty reports whether the probe produced nothing usable
func (v *VideoInfo) IsEmpty() bool {
	return v == nil || (v.ID == "" && v.Title == "" && v.WebpageURL == "")
}

// DownloadOutcome is the normalized result of one download attempt
type DownloadOutcome struct {
	Success      bool
	FilePath     string
	Title        string
	ErrorMessage string

	// Best-effort metadata copied from the probe
	VideoID   string
	Uploader  string
	Duration  float64
	ViewCount int64
	LikeCount int64

	// Extension is the container extension without the dot, e.g. "mp4"
	Extension string
	MIMEType  string
	Size      int64

	// Err carries the typed failure for the HTTP boundary; nil on success
	Err error
}

// Succeeded builds a successful outcome from the probed metadata and the verified file
func Succeeded(info *VideoInfo, filePath, ext, mimeType string, size int64) *DownloadOutcome {
	outcome := &DownloadOutcome{
		Success:   true,
		FilePath:  filePath,
		Extension: ext,
		MIMEType:  mimeType,
		Size:      size,
	}
	if info != nil {
		outcome.Title = info.Title
		outcome.VideoID = info.ID
		outcome.Uploader = info.Uploader
		outcome.Duration = info.Duration
		outcome.ViewCount = info.ViewCount
		outcome.LikeCount = info.LikeCount
	}
	return outcome
}

// Failed builds a failed outcome. message is shown to end users and must not leak internals.
func Failed(err error, message string) *DownloadOutcome {
	return &DownloadOutcome{
		Success:      false,
		ErrorMessage: message,
		Err:          err,
	}
}

// TempFile is a file in the shared temporary directory carrying the reserved prefix
type TempFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Age returns how long ago the file was last modified
func (f TempFile) Age(now time.Time) time.Duration {
	return now.Sub(f.ModTime)
}

// Expired reports whether the file is strictly older than the retention threshold
func (f TempFile) Expired(now time.Time, retention time.Duration) bool {
	return f.Age(now) > retention
}
