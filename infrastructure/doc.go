// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, running yt-dlp, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache backed by go-cache
// - cache/redis: Redis-based cache for multi-instance deployments
// - extractor/ytdlp: Extractor driving the yt-dlp binary through go-ytdlp
// - logger/structured: logrus logger with optional lumberjack rotation
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(config.MemoryConfig{DefaultExpiration: 300})
//	err := cache.Set(ctx, "key", []byte("value"), 5*time.Minute)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # Extractor
//
//	client, err := ytdlp.NewClient(ctx, ytdlp.Options{AutoInstall: true}, logger)
//	info, err := client.Probe(ctx, url, nil)
//	err = client.Fetch(ctx, url, interfaces.FetchOptions{
//	    OutputTemplate: "/tmp/tiktok_1234.%(ext)s",
//	})
//
// # Logger
//
//	logger, err := structured.NewLogger(config.LogConfig{Level: "info", Format: "json"})
//	logger.Info("Download completed", map[string]interface{}{
//	    "path": "/tmp/tiktok_1234.mp4",
//	})
package infrastructure
