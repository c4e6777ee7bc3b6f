package workers

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

// createFile writes name in dir with the given modification time
func createFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func newTestJanitor(dir string) *Janitor {
	return NewJanitor(JanitorConfig{
		Dir:       dir,
		Prefix:    "tiktok_",
		Interval:  time.Hour,
		Retention: time.Hour,
	}, nopLogger{})
}

func TestJanitor_Sweep(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := createFile(t, dir, "tiktok_old.mp4", now.Add(-2*time.Hour))
	fresh := createFile(t, dir, "tiktok_fresh.mp4", now.Add(-10*time.Minute))
	unrelated := createFile(t, dir, "other_old.mp4", now.Add(-2*time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "tiktok_dir"), 0o755))

	result, err := newTestJanitor(dir).Sweep(now)
	require.NoError(t, err)

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, unrelated)
	assert.DirExists(t, filepath.Join(dir, "tiktok_dir"))

	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, int64(4), result.BytesFreed)
}

func TestJanitor_Sweep_RetentionIsStrict(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Truncate(time.Second)

	exact := createFile(t, dir, "tiktok_exact.mp4", now.Add(-time.Hour))
	older := createFile(t, dir, "tiktok_older.mp4", now.Add(-time.Hour-time.Second))

	_, err := newTestJanitor(dir).Sweep(now)
	require.NoError(t, err)

	assert.FileExists(t, exact)
	assert.NoFileExists(t, older)
}

func TestJanitor_Sweep_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	now := time.Now()
	target := createFile(t, t.TempDir(), "target.mp4", now.Add(-2*time.Hour))
	link := filepath.Join(dir, "tiktok_link.mp4")
	require.NoError(t, os.Symlink(target, link))

	result, err := newTestJanitor(dir).Sweep(now)
	require.NoError(t, err)

	assert.Zero(t, result.Removed)
	assert.FileExists(t, target)
}

func TestJanitor_Sweep_MissingDirectory(t *testing.T) {
	j := newTestJanitor(filepath.Join(t.TempDir(), "missing"))

	_, err := j.Sweep(time.Now())
	assert.Error(t, err)
}

func TestJanitor_Sweep_EmptyDirectory(t *testing.T) {
	result, err := newTestJanitor(t.TempDir()).Sweep(time.Now())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
}

func TestJanitor_StartStop(t *testing.T) {
	dir := t.TempDir()
	old := createFile(t, dir, "tiktok_old.mp4", time.Now().Add(-2*time.Hour))

	j := NewJanitor(JanitorConfig{
		Dir:          dir,
		Prefix:       "tiktok_",
		Interval:     time.Hour,
		Retention:    time.Hour,
		SweepOnStart: true,
	}, nopLogger{})

	require.NoError(t, j.Start())
	assert.True(t, j.Running())

	// Second start is a no-op
	require.NoError(t, j.Start())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(old)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, j.Stop())
	assert.False(t, j.Running())

	// Stopping twice is safe
	require.NoError(t, j.Stop())
}

func TestJanitor_TickerSweeps(t *testing.T) {
	dir := t.TempDir()

	j := NewJanitor(JanitorConfig{
		Dir:       dir,
		Prefix:    "tiktok_",
		Interval:  20 * time.Millisecond,
		Retention: time.Hour,
	}, nopLogger{})

	require.NoError(t, j.Start())
	defer j.Stop()

	old := createFile(t, dir, "tiktok_late.mp4", time.Now().Add(-2*time.Hour))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(old)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewJanitor_Defaults(t *testing.T) {
	j := NewJanitor(JanitorConfig{}, nopLogger{})

	assert.Equal(t, DefaultJanitorConfig().Prefix, j.config.Prefix)
	assert.Equal(t, time.Hour, j.config.Interval)
	assert.Equal(t, time.Hour, j.config.Retention)
	assert.NotEmpty(t, j.config.Dir)
}
