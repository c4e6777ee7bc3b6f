package download

import (
	"context"
	"sync"

	"tiktok-downloader/core/domain"
	"tiktok-downloader/core/interfaces"
)

// mockExtractor is a mock implementation of the Extractor interface
type mockExtractor struct {
	probeFunc func(ctx context.Context, url string, headers map[string]string) (*domain.VideoInfo, error)
	fetchFunc func(ctx context.Context, url string, opts interfaces.FetchOptions) error

	mu         sync.Mutex
	probeCalls int
	fetchCalls int
	lastOpts   interfaces.FetchOptions
}

func (m *mockExtractor) Probe(ctx context.Context, url string, headers map[string]string) (*domain.VideoInfo, error) {
	m.mu.Lock()
	m.probeCalls++
	m.mu.Unlock()

	if m.probeFunc != nil {
		return m.probeFunc(ctx, url, headers)
	}
	return &domain.VideoInfo{ID: "1", Title: "clip"}, nil
}

func (m *mockExtractor) Fetch(ctx context.Context, url string, opts interfaces.FetchOptions) error {
	m.mu.Lock()
	m.fetchCalls++
	m.lastOpts = opts
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, opts)
	}
	return nil
}

func (m *mockExtractor) calls() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probeCalls, m.fetchCalls
}

// mockLogger records messages by level
type mockLogger struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newMockLogger() *mockLogger {
	return &mockLogger{messages: make(map[string][]string)}
}

func (m *mockLogger) record(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[level] = append(m.messages[level], msg)
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record("debug", msg) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record("info", msg) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record("warn", msg) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record("error", msg) }

func (m *mockLogger) at(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages[level]...)
}
