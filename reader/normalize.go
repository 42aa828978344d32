package reader

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/erraggy/oascompiler/oaserrors"
)

// isURL determines if the given locator is an http:// or https:// URL.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Normalize resolves ref against base and returns the canonical locator used
// as the cache key. URLs have their scheme and host lower-cased, dot
// segments removed and the fragment dropped. Filesystem paths are made
// absolute and cleaned. An empty ref refers to base itself; an empty base
// resolves relative paths against the working directory.
//
// Only http and https URLs and plain filesystem paths are accepted; other
// schemes, file:// included, are rejected with a normalization ReadError.
// A ref resolved against a URL base always stays a URL, so a remote
// document can never point the reader at the local filesystem.
func Normalize(base, ref string) (string, error) {
	ref, _ = splitFragment(ref)
	base, _ = splitFragment(base)
	if ref == "" {
		ref, base = base, ""
	}
	if ref == "" {
		return "", normalizationError(ref, "empty locator")
	}

	u, err := parseLocator(ref)
	if err != nil {
		return "", normalizationError(ref, err.Error())
	}
	switch {
	case u == nil:
		// plain filesystem path, handled below
	case u.Scheme == "http" || u.Scheme == "https":
		return canonicalURL(u)
	default:
		return "", normalizationError(ref, "unsupported scheme "+strconv.Quote(u.Scheme))
	}

	if isURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", normalizationError(base, err.Error())
		}
		rel, err := url.Parse(filepath.ToSlash(ref))
		if err != nil {
			return "", normalizationError(ref, err.Error())
		}
		resolved := b.ResolveReference(rel)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return "", normalizationError(ref, "reference from "+base+" must resolve to an http or https URL")
		}
		return canonicalURL(resolved)
	}

	p := ref
	if !filepath.IsAbs(p) && base != "" {
		if fb, err := Normalize("", base); err == nil && !isURL(fb) {
			p = filepath.Join(filepath.Dir(fb), p)
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", normalizationError(ref, err.Error())
	}
	return filepath.Clean(abs), nil
}

// parseLocator returns the URL form of s, or nil when s is a plain path.
// Single-letter schemes are Windows drive letters, not URLs.
func parseLocator(s string) (*url.URL, error) {
	scheme, _, ok := strings.Cut(s, ":")
	if !ok || len(scheme) < 2 || strings.ContainsAny(scheme, `/\`) {
		return nil, nil
	}
	return url.Parse(s)
}

func canonicalURL(u *url.URL) (string, error) {
	if u.Host == "" {
		return "", normalizationError(u.String(), "missing host")
	}
	resolved := (&url.URL{}).ResolveReference(u)
	resolved.Scheme = strings.ToLower(resolved.Scheme)
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Path == "" {
		resolved.Path = "/"
	}
	return resolved.String(), nil
}

func splitFragment(s string) (string, string) {
	document, fragment, _ := strings.Cut(s, "#")
	return document, fragment
}

func normalizationError(locator, msg string) error {
	return &oaserrors.ReadError{Locator: locator, Kind: oaserrors.KindNormalization, Message: msg}
}

// parseIndex parses a JSON Pointer array index: a non-negative decimal
// without leading zeros.
func parseIndex(token string) (int, bool) {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return 0, false
	}
	i, err := strconv.Atoi(token)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
