// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, downloads, janitor, cache and logging

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSessionSecret is used when SESSION_SECRET is unset. It is only fit for development.
const DefaultSessionSecret = "dev-secret-change-in-production"

// DefaultUserAgent identifies requests to the upstream platform as a desktop browser
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Download contains extractor and temp file configuration
	Download DownloadConfig

	// Janitor contains temp file cleanup configuration
	Janitor JanitorConfig

	// Cache contains flash store configuration
	Cache CacheConfig

	// Log contains logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// SessionSecret signs flash cookies
	SessionSecret string

	// ServiceName appears in the health message and page title
	ServiceName string

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration

	// SecureCookies marks cookies Secure; enable when served over HTTPS
	SecureCookies bool
}

// DownloadConfig holds extractor configuration
type DownloadConfig struct {
	// TempDir is the shared directory downloads are written to
	TempDir string

	// FilePrefix is the reserved name prefix of every downloaded file
	FilePrefix string

	// Timeout bounds a whole probe+download
	Timeout time.Duration

	// RatePerMinute paces calls to the upstream platform; 0 disables pacing
	RatePerMinute int

	// Format is the yt-dlp stream selector
	Format string

	// MergeFormat is the container for merged audio/video
	MergeFormat string

	// UserAgent and Referer are sent upstream
	UserAgent string
	Referer   string

	// YtDlpPath overrides the yt-dlp executable; empty means PATH lookup
	YtDlpPath string

	// AutoInstall lets go-ytdlp fetch a yt-dlp binary at startup
	AutoInstall bool
}

// JanitorConfig holds temp file cleanup configuration
type JanitorConfig struct {
	// Interval between sweeps
	Interval time.Duration

	// Retention is the maximum age of a temp file
	Retention time.Duration

	// SweepOnStart runs one sweep immediately when the janitor starts
	SweepOnStart bool
}

// CacheConfig holds flash store backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key written by this service
	KeyPrefix string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is a logrus level name
	Level string

	// Format is "text" or "json"
	Format string

	// File enables rotating file output when set
	File string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "5000"),
			SessionSecret:   getEnvOrDefault("SESSION_SECRET", DefaultSessionSecret),
			ServiceName:     getEnvOrDefault("SERVICE_NAME", "TikTok Downloader"),
			ShutdownTimeout: getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),
			SecureCookies:   getEnvAsBoolOrDefault("COOKIE_SECURE", false),
		},
		Download: DownloadConfig{
			TempDir:       getEnvOrDefault("TEMP_DIR", os.TempDir()),
			FilePrefix:    getEnvOrDefault("FILE_PREFIX", "tiktok_"),
			Timeout:       getEnvAsDurationOrDefault("DOWNLOAD_TIMEOUT", 5*time.Minute),
			RatePerMinute: getEnvAsIntOrDefault("EXTRACT_RATE_PER_MINUTE", 0),
			Format:        getEnvOrDefault("DOWNLOAD_FORMAT", "b[ext=mp4]/bv*[ext=mp4]+ba[ext=m4a]/b"),
			MergeFormat:   getEnvOrDefault("MERGE_FORMAT", "mp4"),
			UserAgent:     getEnvOrDefault("USER_AGENT", DefaultUserAgent),
			Referer:       getEnvOrDefault("REFERER", "https://www.tiktok.com/"),
			YtDlpPath:     getEnvOrDefault("YTDLP_PATH", ""),
			AutoInstall:   getEnvAsBoolOrDefault("YTDLP_AUTO_INSTALL", false),
		},
		Janitor: JanitorConfig{
			Interval:     getEnvAsDurationOrDefault("JANITOR_INTERVAL", time.Hour),
			Retention:    getEnvAsDurationOrDefault("JANITOR_RETENTION", time.Hour),
			SweepOnStart: getEnvAsBoolOrDefault("JANITOR_SWEEP_ON_START", true),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "tiktok-downloader:"),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 300),
				CleanupInterval:   getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP", 600),
			},
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether the flash signing key is the development placeholder
func (c *Config) UsesDefaultSecret() bool {
	return c.Server.SessionSecret == DefaultSessionSecret
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or bare seconds ("90")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}

	if c.Server.SessionSecret == "" {
		return errors.New("session secret cannot be empty")
	}

	if c.Download.TempDir == "" {
		return errors.New("temp dir cannot be empty")
	}

	if c.Download.FilePrefix == "" || strings.ContainsAny(c.Download.FilePrefix, `/\`) {
		return errors.New("file prefix must be a non-empty file name fragment")
	}

	if c.Download.Timeout <= 0 {
		return errors.New("download timeout must be positive")
	}

	if c.Download.RatePerMinute < 0 {
		return errors.New("extract rate cannot be negative")
	}

	if c.Janitor.Interval <= 0 {
		return errors.New("janitor interval must be positive")
	}

	if c.Janitor.Retention <= 0 {
		return errors.New("janitor retention must be positive")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("log format must be 'text' or 'json'")
	}

	return nil
}
