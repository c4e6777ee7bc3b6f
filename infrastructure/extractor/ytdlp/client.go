// ABOUTME: Extractor implementation driving the yt-dlp binary through go-ytdlp
// ABOUTME: Probes metadata as JSON and downloads media into a caller-supplied output template

package ytdlp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/pkg/errors"

	"tiktok-downloader/core/domain"
	"tiktok-downloader/core/interfaces"
)

// Options configures the yt-dlp client
type Options struct {
	// Executable overrides the yt-dlp binary; empty means go-ytdlp's lookup (cache, then PATH)
	Executable string

	// AutoInstall downloads a yt-dlp release into go-ytdlp's cache when true
	AutoInstall bool
}

// Client implements interfaces.Extractor
type Client struct {
	executable string
	logger     interfaces.Logger
}

// NewClient creates a yt-dlp backed extractor
func NewClient(ctx context.Context, opts Options, logger interfaces.Logger) (*Client, error) {
	if opts.AutoInstall && opts.Executable == "" {
		logger.Info("Installing yt-dlp", nil)
		if _, err := goytdlp.Install(ctx, nil); err != nil {
			return nil, errors.Wrap(err, "install yt-dlp")
		}
	}

	return &Client{
		executable: opts.Executable,
		logger:     logger,
	}, nil
}

// Probe returns metadata for url without downloading media
func (c *Client) Probe(ctx context.Context, url string, headers map[string]string) (*domain.VideoInfo, error) {
	cmd := c.command(headers).SkipDownload().DumpJSON()

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, errors.Wrap(describe(err, res), "probe video metadata")
	}

	info, err := parseInfo(res.Stdout)
	if err != nil {
		return nil, errors.Wrap(err, "decode video metadata")
	}
	return info, nil
}

// Fetch downloads url into opts.OutputTemplate
func (c *Client) Fetch(ctx context.Context, url string, opts interfaces.FetchOptions) error {
	cmd := c.command(opts.Headers).Output(opts.OutputTemplate)
	if opts.Format != "" {
		cmd.Format(opts.Format)
	}
	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}

	cmd.ProgressFunc(2*time.Second, func(update goytdlp.ProgressUpdate) {
		if update.TotalBytes <= 0 {
			return
		}
		c.logger.Debug("Download progress", map[string]interface{}{
			"url":        url,
			"downloaded": update.DownloadedBytes,
			"total":      update.TotalBytes,
		})
	})

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return errors.Wrap(describe(err, res), "download video")
	}
	return nil
}

// command builds the flags shared by probe and download. Config files are
// ignored so a host-level yt-dlp config cannot enable sidecar files.
func (c *Client) command(headers map[string]string) *goytdlp.Command {
	cmd := goytdlp.New().
		IgnoreConfig().
		NoPlaylist().
		NoWarnings()

	if c.executable != "" {
		cmd.SetExecutable(c.executable)
	}

	for _, h := range headerArgs(headers) {
		cmd.AddHeaders(h)
	}
	return cmd
}

// headerArgs renders headers as sorted "Field:Value" pairs for --add-headers
func headerArgs(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		if strings.TrimSpace(headers[k]) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, k+":"+headers[k])
	}
	return args
}

// rawInfo is the subset of yt-dlp's info JSON we read
type rawInfo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Uploader    string  `json:"uploader"`
	Creator     string  `json:"creator"`
	Duration    float64 `json:"duration"`
	ViewCount   int64   `json:"view_count"`
	LikeCount   int64   `json:"like_count"`
	Ext         string  `json:"ext"`
	WebpageURL  string  `json:"webpage_url"`
}

// parseInfo decodes the first JSON object printed by --dump-json
func parseInfo(stdout string) (*domain.VideoInfo, error) {
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}

		var raw rawInfo
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, err
		}

		info := &domain.VideoInfo{
			ID:         raw.ID,
			Title:      raw.Title,
			Uploader:   raw.Uploader,
			Duration:   raw.Duration,
			ViewCount:  raw.ViewCount,
			LikeCount:  raw.LikeCount,
			Ext:        raw.Ext,
			WebpageURL: raw.WebpageURL,
		}
		if info.Title == "" {
			info.Title = firstLine(raw.Description)
		}
		if info.Uploader == "" {
			info.Uploader = raw.Creator
		}
		return info, nil
	}
	return nil, nil
}

// describe prefers yt-dlp's own "ERROR:" line over the bare exit status
func describe(err error, res *goytdlp.Result) error {
	if res == nil {
		return err
	}
	if msg := errorLine(res.Stderr); msg != "" {
		return errors.New(msg)
	}
	return err
}

func errorLine(stderr string) string {
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
