package pathutil

import "strings"

// SplitPointer splits a JSON Pointer fragment such as "/definitions/Pet"
// into unescaped reference tokens. A leading "#" is ignored. The empty
// pointer and "/" refer to the whole document and yield no tokens.
func SplitPointer(fragment string) []string {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" || fragment == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	for i, part := range parts {
		parts[i] = UnescapePointerToken(part)
	}
	return parts
}

// UnescapePointerToken unescapes a JSON Pointer token.
// Per RFC 6901, ~1 represents / and ~0 represents ~.
func UnescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// EscapePointerToken is the inverse of UnescapePointerToken.
func EscapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// SplitReference splits a reference into its document part and fragment.
// "other.yaml#/a/b" yields ("other.yaml", "/a/b").
func SplitReference(ref string) (document, fragment string) {
	document, fragment, _ = strings.Cut(ref, "#")
	return document, fragment
}
