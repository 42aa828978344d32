package mcpserver

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/compile"
	"github.com/erraggy/oascompiler/reader"
)

// specInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI or Discovery document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch the document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

// cacheKey identifies one compilation: the input source and every option
// that changes the result. A zero source means the input cannot be keyed.
type cacheKey struct {
	source     string
	format     oascompiler.Format
	inline     bool
	strict     bool
	maxDepth   int
	extensions *compiler.ExtensionRegistry
}

// resultCache is a session-scoped LRU of compiled documents with per-entry
// expiry. The front of order is the most recently used entry.
type resultCache struct {
	mu             sync.Mutex
	order          *list.List
	entries        map[cacheKey]*list.Element
	maxSize        int
	sweeperStarted atomic.Bool
}

type cachedResult struct {
	key       cacheKey
	result    *compile.Result
	expiresAt time.Time
}

func newResultCache(maxSize int) *resultCache {
	return &resultCache{order: list.New(), entries: make(map[cacheKey]*list.Element), maxSize: maxSize}
}

var specCache = newResultCache(cfg.CacheMaxSize)

// get returns a live cached result or nil, marking it recently used.
func (c *resultCache) get(key cacheKey) *compile.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil
	}
	cr := el.Value.(*cachedResult)
	if time.Now().After(cr.expiresAt) {
		c.remove(el)
		return nil
	}
	c.order.MoveToFront(el)
	return cr.result
}

// put stores result until ttl elapses, evicting the least recently used
// entries beyond maxSize.
func (c *resultCache) put(key cacheKey, result *compile.Result, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	expiresAt := time.Now().Add(ttl)
	if el, ok := c.entries[key]; ok {
		cr := el.Value.(*cachedResult)
		cr.result, cr.expiresAt = result, expiresAt
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cachedResult{key: key, result: result, expiresAt: expiresAt})
	for c.maxSize > 0 && c.order.Len() > c.maxSize {
		c.remove(c.order.Back())
	}
}

func (c *resultCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*cachedResult).key)
}

// sweep drops every expired entry.
func (c *resultCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if now.After(el.Value.(*cachedResult).expiresAt) {
			c.remove(el)
		}
		el = next
	}
}

// startSweeper sweeps every interval until ctx is done. Only the first
// call while a sweeper is running has any effect.
func (c *resultCache) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *resultCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[cacheKey]*list.Element)
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// makeCacheKey keys s under opts. Files are keyed by absolute path and
// modification time, content by its SHA-256 and URLs by their text. The
// second result is false when s cannot be keyed, e.g. a file that cannot
// be stat'ed.
func makeCacheKey(s specInput, opts compile.Options) (cacheKey, bool) {
	key := cacheKey{
		format:     opts.Format,
		inline:     opts.Inline,
		strict:     opts.Strict,
		maxDepth:   opts.MaxDepth,
		extensions: opts.Extensions,
	}
	switch {
	case s.File != "":
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return cacheKey{}, false
		}
		info, err := os.Stat(abs)
		if err != nil {
			return cacheKey{}, false
		}
		key.source = fmt.Sprintf("file:%s:%d", abs, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		key.source = "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		key.source = "url:" + s.URL
	default:
		return cacheKey{}, false
	}
	return key, true
}

// ttl returns how long a compilation of s stays cached.
func (s specInput) ttl() time.Duration {
	switch {
	case s.File != "":
		return cfg.CacheFileTTL
	case s.URL != "":
		return cfg.CacheURLTTL
	}
	return cfg.CacheContentTTL
}

// resolve compiles the document from whichever input was provided, using
// the cache for file, URL, and content inputs.
func (s specInput) resolve(ctx context.Context, opts compile.Options) (*compile.Result, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	// Enforce inline content size limit.
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASCOMPILER_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	key, cacheable := makeCacheKey(s, opts)
	cacheable = cacheable && cfg.CacheEnabled
	if cacheable {
		if cached := specCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var (
		result *compile.Result
		err    error
	)
	if s.Content != "" {
		result, err = compile.Bytes(ctx, []byte(s.Content), opts)
	} else {
		var r *reader.Reader
		if r, err = newDocumentReader(); err != nil {
			return nil, err
		}
		locator := s.File
		if s.URL != "" {
			locator = s.URL
		}
		result, err = compile.Locator(ctx, r, locator, opts)
	}
	if err != nil {
		return nil, err
	}

	if cacheable {
		specCache.put(key, result, s.ttl())
	}
	return result, nil
}

// newDocumentReader returns a reader for one tool call. Remote fetches use
// the SSRF-safe client unless private IPs are allowed.
func newDocumentReader() (*reader.Reader, error) {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	if !cfg.AllowPrivateIPs {
		client = newSafeHTTPClient(cfg.HTTPTimeout)
	}
	return reader.New(
		reader.WithHTTPClient(client),
		reader.WithMaxFileSize(cfg.MaxFileSize),
		reader.WithUserAgent(oascompiler.UserAgent()),
	)
}
