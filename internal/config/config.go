package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey  = errors.New("YouTube API key is required")
	ErrInvalidBackend = errors.New("invalid cache backend")
)

// Cache backends
const (
	BackendMemory      = "memory"
	BackendRedis       = "redis"
	BackendSQLiteCloud = "sqlitecloud"
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey  string
	Port           string
	AllowedOrigins []string
	LogLevel       string

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBPath        string

	SourceCacheTTL time.Duration
	FeedCacheTTL   time.Duration
	NotifyTimeout  time.Duration
	YouTubeRPS     float64
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CacheBackend:   strings.ToLower(getEnv("CACHE_BACKEND", BackendMemory)),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		DBPath:         os.Getenv("DB_PATH"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SourceCacheTTL, err = getDuration("SOURCE_CACHE_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.FeedCacheTTL, err = getDuration("FEED_CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.NotifyTimeout, err = getDuration("NOTIFY_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.YouTubeRPS, err = getFloat("YOUTUBE_RPS", 10); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}

	switch c.CacheBackend {
	case BackendMemory, BackendRedis:
	case BackendSQLiteCloud:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the %s cache backend", BackendSQLiteCloud)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.CacheBackend)
	}

	if c.SourceCacheTTL < 0 || c.FeedCacheTTL < 0 || c.NotifyTimeout < 0 {
		return errors.New("cache TTLs and notify timeout must not be negative")
	}
	if c.YouTubeRPS < 0 {
		return errors.New("YOUTUBE_RPS must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
