// ABOUTME: Temp file janitor removes expired downloads from the shared temp directory
// ABOUTME: Runs a managed background sweep loop that starts and stops with the server

package workers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tiktok-downloader/core/domain"
	"tiktok-downloader/core/interfaces"
	"tiktok-downloader/pkg/utils/duration"
)

// JanitorConfig holds configuration for the temp file janitor
type JanitorConfig struct {
	// Dir is the shared temp directory to sweep
	Dir string

	// Prefix restricts the sweep to files this service created
	Prefix string

	// Interval between sweeps
	Interval time.Duration

	// Retention is the age a file must exceed before removal
	Retention time.Duration

	// SweepOnStart runs one sweep as soon as the janitor starts
	SweepOnStart bool
}

// DefaultJanitorConfig returns the default janitor configuration
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Dir:          os.TempDir(),
		Prefix:       "tiktok_",
		Interval:     time.Hour,
		Retention:    time.Hour,
		SweepOnStart: true,
	}
}

// SweepResult summarizes one sweep
type SweepResult struct {
	Scanned    int
	Removed    int
	Failed     int
	BytesFreed int64
}

// Janitor periodically deletes expired temp files
type Janitor struct {
	config  JanitorConfig
	logger  interfaces.Logger
	now     func() time.Time
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	sweepMu sync.Mutex
	running bool
}

// NewJanitor creates a new temp file janitor. Zero values fall back to the defaults.
func NewJanitor(config JanitorConfig, logger interfaces.Logger) *Janitor {
	defaults := DefaultJanitorConfig()
	if config.Dir == "" {
		config.Dir = defaults.Dir
	}
	if config.Prefix == "" {
		config.Prefix = defaults.Prefix
	}
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Retention <= 0 {
		config.Retention = defaults.Retention
	}

	return &Janitor{
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Start launches the sweep loop. Calling Start on a running janitor is a no-op.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	j.wg.Add(1)
	go j.run(ctx)

	j.logger.Info("Temp file janitor started", map[string]interface{}{
		"dir":       j.config.Dir,
		"prefix":    j.config.Prefix,
		"interval":  duration.HumanReadable(j.config.Interval),
		"retention": duration.HumanReadable(j.config.Retention),
	})

	j.running = true
	return nil
}

// Stop signals the sweep loop to exit and waits for it. A sweep in progress finishes first.
func (j *Janitor) Stop() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return nil
	}

	j.cancel()
	j.wg.Wait()

	j.running = false
	j.logger.Info("Temp file janitor stopped", nil)
	return nil
}

// Running reports whether the sweep loop is active
func (j *Janitor) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// run is the main loop of the janitor goroutine
func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	if j.config.SweepOnStart {
		j.sweepAndLog()
	}

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweepAndLog()
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweepAndLog() {
	result, err := j.Sweep(j.now())
	if err != nil {
		j.logger.Error("Temp file sweep failed", map[string]interface{}{
			"dir":   j.config.Dir,
			"error": err.Error(),
		})
		return
	}

	fields := map[string]interface{}{
		"scanned":     result.Scanned,
		"removed":     result.Removed,
		"failed":      result.Failed,
		"bytes_freed": result.BytesFreed,
	}
	if result.Removed > 0 || result.Failed > 0 {
		j.logger.Info("Temp file sweep completed", fields)
		return
	}
	j.logger.Debug("Temp file sweep completed", fields)
}

// Sweep removes every regular file carrying the prefix whose age at now exceeds
// the retention. Failures on individual files are logged and skipped; only an
// unreadable directory is returned as an error.
func (j *Janitor) Sweep(now time.Time) (SweepResult, error) {
	j.sweepMu.Lock()
	defer j.sweepMu.Unlock()

	var result SweepResult

	entries, err := os.ReadDir(j.config.Dir)
	if err != nil {
		return result, err
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), j.config.Prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed concurrently
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		result.Scanned++

		file := domain.TempFile{
			Path:    filepath.Join(j.config.Dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if !file.Expired(now, j.config.Retention) {
			continue
		}

		if err := os.Remove(file.Path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			result.Failed++
			j.logger.Warn("Failed to remove temp file", map[string]interface{}{
				"path":  file.Path,
				"error": err.Error(),
			})
			continue
		}

		result.Removed++
		result.BytesFreed += file.Size
		j.logger.Debug("Removed expired temp file", map[string]interface{}{
			"path": file.Path,
			"age":  file.Age(now).Round(time.Second).String(),
		})
	}

	return result, nil
}
