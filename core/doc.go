// Package core contains the business logic of the TikTok downloader.
// It is framework-agnostic and can be used independently of the HTTP layer
// or the yt-dlp binary.
//
// The core package is organized into several sub-packages:
//
// - domain: Download request, probed video metadata, outcome and temp file models
// - validate: Recognition of TikTok video URL shapes
// - download: The orchestrator that validates, probes, downloads and verifies
// - workers: The temp file janitor
// - errors: Typed errors separating input, extraction and missing-file failures
// - interfaces: Contracts for external dependencies (extractor, cache, logger)
//
// # Design Principles
//
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation with stub extractors
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Extractor: myExtractor, // implements interfaces.Extractor
//	    Logger:    myLogger,    // implements interfaces.Logger
//	}
//
//	svc := download.NewService(deps, download.Config{
//	    TempDir:    os.TempDir(),
//	    FilePrefix: "tiktok_",
//	    Timeout:    5 * time.Minute,
//	})
//
//	outcome := svc.Download(ctx, "https://vm.tiktok.com/ZMabc123/")
//	if !outcome.Success {
//	    fmt.Println(outcome.ErrorMessage)
//	}
package core
