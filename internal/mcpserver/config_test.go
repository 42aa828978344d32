package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv clears all OASCOMPILER_* env vars to isolate tests from the ambient environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASCOMPILER_CACHE_ENABLED", "OASCOMPILER_CACHE_MAX_SIZE",
		"OASCOMPILER_CACHE_FILE_TTL", "OASCOMPILER_CACHE_URL_TTL",
		"OASCOMPILER_CACHE_CONTENT_TTL", "OASCOMPILER_CACHE_SWEEP_INTERVAL",
		"OASCOMPILER_MAX_DEPTH", "OASCOMPILER_DIAGNOSTIC_LIMIT",
		"OASCOMPILER_MAX_LIMIT", "OASCOMPILER_INLINE",
		"OASCOMPILER_MAX_INLINE_SIZE", "OASCOMPILER_MAX_FILE_SIZE",
		"OASCOMPILER_HTTP_TIMEOUT", "OASCOMPILER_ALLOW_PRIVATE_IPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 256, c.MaxDepth)
	assert.Equal(t, 100, c.DiagnosticLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.False(t, c.Inline)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, int64(100*1024*1024), c.MaxFileSize)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.False(t, c.AllowPrivateIPs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OASCOMPILER_CACHE_ENABLED", "false")
	t.Setenv("OASCOMPILER_CACHE_MAX_SIZE", "50")
	t.Setenv("OASCOMPILER_CACHE_URL_TTL", "2m")
	t.Setenv("OASCOMPILER_MAX_DEPTH", "32")
	t.Setenv("OASCOMPILER_DIAGNOSTIC_LIMIT", "20")
	t.Setenv("OASCOMPILER_INLINE", "true")
	t.Setenv("OASCOMPILER_HTTP_TIMEOUT", "5s")
	t.Setenv("OASCOMPILER_ALLOW_PRIVATE_IPS", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 2*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 32, c.MaxDepth)
	assert.Equal(t, 20, c.DiagnosticLimit)
	assert.True(t, c.Inline)
	assert.Equal(t, 5*time.Second, c.HTTPTimeout)
	assert.True(t, c.AllowPrivateIPs)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OASCOMPILER_CACHE_MAX_SIZE", "banana")
	t.Setenv("OASCOMPILER_CACHE_FILE_TTL", "not-a-duration")
	t.Setenv("OASCOMPILER_CACHE_ENABLED", "maybe")
	t.Setenv("OASCOMPILER_MAX_DEPTH", "-5")
	t.Setenv("OASCOMPILER_MAX_INLINE_SIZE", "abc")
	t.Setenv("OASCOMPILER_HTTP_TIMEOUT", "0s")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 256, c.MaxDepth)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
}
