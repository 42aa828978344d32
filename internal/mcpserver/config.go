package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Compile tool defaults.
	MaxDepth        int
	DiagnosticLimit int
	MaxLimit        int
	Inline          bool

	// Input limits.
	MaxInlineSize   int64
	MaxFileSize     int64
	HTTPTimeout     time.Duration
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASCOMPILER_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASCOMPILER_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASCOMPILER_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASCOMPILER_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OASCOMPILER_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OASCOMPILER_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASCOMPILER_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxDepth:           envInt("OASCOMPILER_MAX_DEPTH", 256),
		DiagnosticLimit:    envInt("OASCOMPILER_DIAGNOSTIC_LIMIT", 100),
		MaxLimit:           envInt("OASCOMPILER_MAX_LIMIT", 1000),
		Inline:             envBool("OASCOMPILER_INLINE", false),
		MaxInlineSize:      int64(envInt("OASCOMPILER_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxFileSize:        int64(envInt("OASCOMPILER_MAX_FILE_SIZE", 100*1024*1024)),
		HTTPTimeout:        envDuration("OASCOMPILER_HTTP_TIMEOUT", 30*time.Second),
		AllowPrivateIPs:    envBool("OASCOMPILER_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
