package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewDownloadRequest_TrimsWhitespace(t *testing.T) {
	req := NewDownloadRequest("  https://vm.tiktok.com/abc123 \n")
	if req.URL != "https://vm.tiktok.com/abc123" {
		t.Errorf("URL = %q, want trimmed URL", req.URL)
	}
}

func TestVideoInfo_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		info *VideoInfo
		want bool
	}{
		{"nil info", nil, true},
		{"zero info", &VideoInfo{}, true},
		{"only counters", &VideoInfo{ViewCount: 10}, true},
		{"has id", &VideoInfo{ID: "7234"}, false},
		{"has title", &VideoInfo{Title: "clip"}, false},
		{"has webpage", &VideoInfo{WebpageURL: "https://www.tiktok.com/@a/video/1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSucceeded_CopiesMetadata(t *testing.T) {
	info := &VideoInfo{
		ID:        "7234",
		Title:     "My Clip!",
		Uploader:  "example",
		Duration:  12.5,
		ViewCount: 100,
		LikeCount: 7,
	}

	outcome := Succeeded(info, "/tmp/tiktok_x.mp4", "mp4", "video/mp4", 2048)

	if !outcome.Success {
		t.Fatal("Succeeded() should report success")
	}
	if outcome.FilePath != "/tmp/tiktok_x.mp4" || outcome.Extension != "mp4" || outcome.Size != 2048 {
		t.Errorf("unexpected file fields: %+v", outcome)
	}
	if outcome.Title != "My Clip!" || outcome.VideoID != "7234" || outcome.Uploader != "example" {
		t.Errorf("metadata not copied: %+v", outcome)
	}
	if outcome.Err != nil || outcome.ErrorMessage != "" {
		t.Error("successful outcome should carry no error")
	}
}

func TestSucceeded_NilInfo(t *testing.T) {
	outcome := Succeeded(nil, "/tmp/tiktok_x.mp4", "mp4", "video/mp4", 1)
	if !outcome.Success || outcome.Title != "" {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}

func TestFailed(t *testing.T) {
	cause := errors.New("boom")
	outcome := Failed(cause, "Download failed: boom")

	if outcome.Success {
		t.Error("Failed() should not report success")
	}
	if outcome.FilePath != "" {
		t.Error("failed outcome must not carry a file path")
	}
	if outcome.ErrorMessage != "Download failed: boom" || outcome.Err != cause {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}

func TestTempFile_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	retention := time.Hour

	tests := []struct {
		name    string
		modTime time.Time
		want    bool
	}{
		{"fresh", now.Add(-time.Minute), false},
		{"exactly at threshold", now.Add(-time.Hour), false},
		{"older than threshold", now.Add(-time.Hour - time.Second), true},
		{"future mtime", now.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := TempFile{Name: "tiktok_a.mp4", ModTime: tt.modTime}
			if got := f.Expired(now, retention); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}
