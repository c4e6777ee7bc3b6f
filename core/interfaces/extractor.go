// ABOUTME: Extractor contract for the external video-extraction library
// ABOUTME: Keeps the orchestrator independent from yt-dlp and easy to stub in tests

package interfaces

import (
	"context"

	"tiktok-downloader/core/domain"
)

// FetchOptions configures a single extractor download
type FetchOptions struct {
	// OutputTemplate is a yt-dlp style template, e.g. "/tmp/tiktok_<id>.%(ext)s"
	OutputTemplate string

	// Format is the stream selector, e.g. "b[ext=mp4]/b"
	Format string

	// MergeFormat is the container used when audio and video are merged
	MergeFormat string

	// Headers are sent with every upstream request (User-Agent, Referer, ...)
	Headers map[string]string
}

// Extractor resolves a video page into metadata and a file on disk.
// Implementations must honour ctx cancellation.
type Extractor interface {
	// Probe returns metadata without downloading media
	Probe(ctx context.Context, url string, headers map[string]string) (*domain.VideoInfo, error)

	// Fetch downloads the media described by url into opts.OutputTemplate
	Fetch(ctx context.Context, url string, opts FetchOptions) error
}
