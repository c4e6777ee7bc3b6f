// ABOUTME: Main entry point for the TikTok Downloader web service
// ABOUTME: Wires together all components, starts the HTTP server and the temp file janitor

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tiktok-downloader/api"
	"tiktok-downloader/core/download"
	"tiktok-downloader/core/interfaces"
	"tiktok-downloader/core/validate"
	"tiktok-downloader/core/workers"
	"tiktok-downloader/infrastructure/cache/memory"
	"tiktok-downloader/infrastructure/cache/redis"
	"tiktok-downloader/infrastructure/extractor/ytdlp"
	"tiktok-downloader/infrastructure/logger/structured"
	"tiktok-downloader/pkg/config"
)

func main() {
	// A missing .env file is normal outside development
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := structured.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("Failed to read .env file", map[string]interface{}{
			"error": envErr.Error(),
		})
	}

	logger.Info("Starting "+cfg.Server.ServiceName, map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"temp_dir":   cfg.Download.TempDir,
		"timeout":    cfg.Download.Timeout.String(),
	})

	if cfg.UsesDefaultSecret() {
		logger.Warn("SESSION_SECRET is not set; using the development default", nil)
	}

	cache, closeCache := newCache(cfg, logger)
	defer closeCache()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	extractor, err := ytdlp.NewClient(startupCtx, ytdlp.Options{
		Executable:  cfg.Download.YtDlpPath,
		AutoInstall: cfg.Download.AutoInstall,
	}, logger)
	cancelStartup()
	if err != nil {
		logger.Error("Failed to prepare yt-dlp", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	deps := interfaces.Dependencies{
		Extractor: extractor,
		Cache:     cache,
		Logger:    logger,
	}

	downloadService := download.NewService(deps, download.Config{
		TempDir:       cfg.Download.TempDir,
		FilePrefix:    cfg.Download.FilePrefix,
		Timeout:       cfg.Download.Timeout,
		RatePerMinute: cfg.Download.RatePerMinute,
		Format:        cfg.Download.Format,
		MergeFormat:   cfg.Download.MergeFormat,
		UserAgent:     cfg.Download.UserAgent,
		Referer:       cfg.Download.Referer,
	})

	janitor := workers.NewJanitor(workers.JanitorConfig{
		Dir:          cfg.Download.TempDir,
		Prefix:       cfg.Download.FilePrefix,
		Interval:     cfg.Janitor.Interval,
		Retention:    cfg.Janitor.Retention,
		SweepOnStart: cfg.Janitor.SweepOnStart,
	}, logger)
	if err := janitor.Start(); err != nil {
		logger.Error("Failed to start janitor", map[string]interface{}{
			"error": err.Error(),
		})
	}

	router, err := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Cache:         cache,
		Downloader:    downloadService,
		Checker:       validate.NewChecker(),
		ServiceName:   cfg.Server.ServiceName,
		SessionSecret: cfg.Server.SessionSecret,
		SecureCookies: cfg.Server.SecureCookies,
	})
	if err != nil {
		logger.Error("Failed to build router", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	errorLog := logger.Writer()
	defer errorLog.Close()

	// WriteTimeout must outlast a full download plus the file transfer
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Download.Timeout + 2*time.Minute,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     log.New(errorLog, "", 0),
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := janitor.Stop(); err != nil {
		logger.Error("Failed to stop janitor", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

// newCache selects the flash store backend, falling back to memory when Redis is unreachable
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, func()) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
			return redisCache, func() { _ = redisCache.Close() }
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(cfg.Cache.Memory), func() {}
}

func init() {
	fmt.Println(`
  _____ _ _    _____     _      ___                  _              _
 |_   _(_) |__|_   _|__ | |__  |   \ _____ __ ___ _ | |___  __ _ __| |___ _ _
   | | | | / /  | |/ _ \| / /  | |) / _ \ V  V / ' \| / _ \/ _' / _' / -_) '_|
   |_| |_|_\_\  |_|\___/|_\_\  |___/\___/\_/\_/|_||_|_\___/\__,_\__,_\___|_|
	`)
}
