// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the download pipeline

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Extractor resolves and downloads videos
	Extractor Extractor

	// Cache backs short-lived state such as flash messages
	Cache Cache

	// Logger provides structured logging
	Logger Logger
}
