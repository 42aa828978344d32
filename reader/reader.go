// Package reader loads API description documents from the filesystem and
// over HTTP(S), memoizing them by normalized locator.
//
// A [Reader] is safe for concurrent use. Cached entries are shared by all
// callers and never evicted; concurrent first fetches of the same locator
// collapse into a single read, and every waiting caller observes that read's
// outcome. Failed reads are not cached, so a later fetch retries.
//
//	r, err := reader.New(reader.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	data, err := r.Fetch(ctx, "https://example.com/api/openapi.yaml")
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/pathutil"
	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/oaserrors"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxFileSize bounds a single document. 10MB is sufficient for most
// API descriptions.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Fetcher reads the raw bytes of a normalized locator. It replaces the
// built-in filesystem and HTTP transport when set with WithFetcher.
type Fetcher func(ctx context.Context, locator string) ([]byte, error)

// cacheEntry is one fetched document.
type cacheEntry struct {
	key     string
	data    []byte
	fetched time.Time
	parsed  *node.Node
}

// Reader fetches and caches documents.
type Reader struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	group   singleflight.Group

	client      *http.Client
	userAgent   string
	maxFileSize int64
	fetcher     Fetcher
	logger      compiler.Logger
	metrics     *metrics
}

// New creates a Reader.
func New(opts ...Option) (*Reader, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("reader: invalid options: %w", err)
	}
	r := &Reader{
		entries:     make(map[string]*cacheEntry),
		client:      cfg.httpClient,
		userAgent:   cfg.userAgent,
		maxFileSize: cfg.maxFileSize,
		fetcher:     cfg.fetcher,
		logger:      cfg.logger,
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: 30 * time.Second}
	}
	if r.userAgent == "" {
		r.userAgent = oascompiler.UserAgent()
	}
	if cfg.registerer != nil {
		m, err := newMetrics(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("reader: registering metrics: %w", err)
		}
		r.metrics = m
	}
	return r, nil
}

// Fetch returns the bytes of the document at locator. Relative paths are
// resolved against the working directory. The returned slice is shared with
// the cache and must not be modified.
func (r *Reader) Fetch(ctx context.Context, locator string) ([]byte, error) {
	e, err := r.entry(ctx, "", locator)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

// ReadNode fetches locator and returns its parsed node tree. The parsed tree
// is cached alongside the bytes and must not be modified.
func (r *Reader) ReadNode(ctx context.Context, locator string) (*node.Node, error) {
	e, err := r.entry(ctx, "", locator)
	if err != nil {
		return nil, err
	}
	return r.parsed(e)
}

// ReadRef resolves a reference such as "common.yaml#/definitions/Error"
// against base, fetches the document and returns the node the fragment
// points at together with the document's normalized locator. A reference
// with an empty document part refers to base itself.
func (r *Reader) ReadRef(ctx context.Context, base, ref string) (*node.Node, string, error) {
	document, fragment := pathutil.SplitReference(ref)
	e, err := r.entry(ctx, base, document)
	if err != nil {
		return nil, "", err
	}
	root, err := r.parsed(e)
	if err != nil {
		return nil, "", err
	}
	target, err := resolvePointer(root, fragment)
	if err != nil {
		return nil, "", &oaserrors.ReferenceError{Ref: ref, Document: e.key, Cause: err}
	}
	return target, e.key, nil
}

// Cached reports whether locator is in the cache.
func (r *Reader) Cached(locator string) bool {
	key, err := Normalize("", locator)
	if err != nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of cached documents.
func (r *Reader) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset empties the cache.
func (r *Reader) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*cacheEntry)
}

func (r *Reader) lookup(key string) *cacheEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[key]
}

// entry normalizes ref against base and returns the cache entry, loading it
// at most once across concurrent callers.
func (r *Reader) entry(ctx context.Context, base, ref string) (*cacheEntry, error) {
	key, err := Normalize(base, ref)
	if err != nil {
		r.metrics.observe(resultError, 0)
		return nil, err
	}
	if e := r.lookup(key); e != nil {
		r.logger.Debug("cache hit", "locator", key)
		r.metrics.observe(resultHit, 0)
		return e, nil
	}

	// The shared load must not fail for every waiter because the first
	// caller's context was cancelled.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		if e := r.lookup(key); e != nil {
			return e, nil
		}
		start := time.Now()
		r.logger.Debug("fetching document", "locator", key)
		data, err := r.load(loadCtx, key)
		if err != nil {
			r.metrics.observe(resultError, time.Since(start))
			r.logger.Debug("fetch failed", "locator", key, "error", err)
			return nil, err
		}
		r.metrics.observe(resultMiss, time.Since(start))
		e := &cacheEntry{key: key, data: data, fetched: time.Now()}
		r.mu.Lock()
		r.entries[key] = e
		r.mu.Unlock()
		return e, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cacheEntry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// parsed returns the entry's node tree, parsing it on first use.
func (r *Reader) parsed(e *cacheEntry) (*node.Node, error) {
	r.mu.RLock()
	n := e.parsed
	r.mu.RUnlock()
	if n != nil {
		return n, nil
	}
	n, err := node.Parse(e.data)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: e.key, Cause: err}
	}
	r.mu.Lock()
	if e.parsed == nil {
		e.parsed = n
	}
	n = e.parsed
	r.mu.Unlock()
	return n, nil
}

func (r *Reader) load(ctx context.Context, key string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case r.fetcher != nil:
		data, err = r.fetcher(ctx, key)
		if err != nil {
			var re *oaserrors.ReadError
			if !errors.As(err, &re) {
				err = &oaserrors.ReadError{Locator: key, Kind: KindFor(err), Cause: err}
			}
			return nil, err
		}
	case isURL(key):
		data, err = r.fetchURL(ctx, key)
	default:
		data, err = r.readFile(key)
	}
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, r.sizeError(key, int64(len(data)))
	}
	return data, nil
}

// KindFor classifies an arbitrary error from a custom Fetcher.
func KindFor(err error) oaserrors.ReadKind {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, oaserrors.ErrNotFound) {
		return oaserrors.KindNotFound
	}
	return oaserrors.KindTransport
}

func (r *Reader) sizeError(key string, actual int64) error {
	return &oaserrors.ReadError{
		Locator: key,
		Kind:    oaserrors.KindTransport,
		Cause: &oaserrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        r.maxFileSize,
			Actual:       actual,
		},
	}
}

func (r *Reader) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		kind := oaserrors.KindTransport
		if errors.Is(err, os.ErrNotExist) {
			kind = oaserrors.KindNotFound
		}
		return nil, &oaserrors.ReadError{Locator: path, Kind: kind, Cause: err}
	}
	if info.IsDir() {
		return nil, &oaserrors.ReadError{Locator: path, Kind: oaserrors.KindNotFound, Message: "is a directory"}
	}
	if info.Size() > r.maxFileSize {
		return nil, r.sizeError(path, info.Size())
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading caller-supplied documents is the purpose of this package
	if err != nil {
		return nil, &oaserrors.ReadError{Locator: path, Kind: oaserrors.KindTransport, Cause: err}
	}
	return data, nil
}

func (r *Reader) fetchURL(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &oaserrors.ReadError{Locator: urlStr, Kind: oaserrors.KindNormalization, Cause: err}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req) //nolint:gosec // G107: URL is the caller-supplied document locator
	if err != nil {
		return nil, &oaserrors.ReadError{Locator: urlStr, Kind: oaserrors.KindTransport, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, &oaserrors.ReadError{Locator: urlStr, Kind: oaserrors.KindNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, &oaserrors.ReadError{Locator: urlStr, Kind: oaserrors.KindTransport, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxFileSize+1))
	if err != nil {
		return nil, &oaserrors.ReadError{Locator: urlStr, Kind: oaserrors.KindTransport, Message: "reading response body", Cause: err}
	}
	return data, nil
}

// resolvePointer walks a JSON Pointer fragment through mappings and
// sequences.
func resolvePointer(root *node.Node, fragment string) (*node.Node, error) {
	current := root
	for _, token := range pathutil.SplitPointer(fragment) {
		switch {
		case current.IsMapping():
			next := current.Lookup(token)
			if next == nil {
				return nil, fmt.Errorf("missing key %q", token)
			}
			current = next
		case current.IsSequence():
			i, ok := parseIndex(token)
			if !ok || i >= len(current.Items) {
				return nil, fmt.Errorf("invalid index %q", token)
			}
			current = current.Items[i]
		default:
			return nil, fmt.Errorf("cannot descend into %s at %q", current.Describe(), token)
		}
	}
	return current, nil
}
