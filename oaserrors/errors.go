// Package oaserrors provides the structured error types returned by the
// compiler, the document reader and the format builders.
//
// Structural problems inside a document are never errors: they are recorded
// as diagnostics on the parse context. The types here cover the failures that
// abort an operation:
//
//   - ParseError: bytes that cannot be decoded, or a root that is not a mapping
//   - ReadError: a locator that cannot be normalized, found or transferred
//   - ReferenceError: a fragment that does not resolve inside its document
//   - ResourceLimitError: a document larger than the configured limit
//   - ConfigError: invalid options
//
// # Usage with errors.Is
//
//	data, err := r.Fetch(ctx, "https://example.com/api.yaml")
//	if errors.Is(err, oaserrors.ErrNotFound) {
//	    // fall back to a bundled copy
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a document could not be decoded or has a malformed root.
	ErrParse = errors.New("parse error")

	// ErrRead indicates any document read failure.
	ErrRead = errors.New("read error")

	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTransport indicates an I/O or network failure while reading.
	ErrTransport = errors.New("transport failure")

	// ErrNormalization indicates a locator could not be normalized.
	ErrNormalization = errors.New("invalid locator")

	// ErrReference indicates a reference fragment could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError reports a document that could not be turned into a model at all.
type ParseError struct {
	// Path is the file path or locator of the document, if known
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReadKind classifies a ReadError.
type ReadKind int

const (
	// KindTransport is an I/O or network failure, including unexpected HTTP status codes.
	KindTransport ReadKind = iota
	// KindNotFound means the file or remote resource does not exist.
	KindNotFound
	// KindNormalization means the locator is malformed or uses an unsupported scheme.
	KindNormalization
)

// String returns the name of the kind.
func (k ReadKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindNormalization:
		return "normalization"
	default:
		return "transport"
	}
}

// ReadError reports a failed document fetch. It is fatal to that fetch only.
type ReadError struct {
	// Locator is the path or URL that was being read
	Locator string
	// Kind classifies the failure
	Kind ReadKind
	// StatusCode is the HTTP status code for remote failures (0 otherwise)
	StatusCode int
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReadError) Error() string {
	msg := "read error (" + e.Kind.String() + ")"
	if e.Locator != "" {
		msg += ": " + e.Locator
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrRead, and the sentinel of the error's Kind.
func (e *ReadError) Is(target error) bool {
	switch target {
	case ErrRead:
		return true
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrNormalization:
		return e.Kind == KindNormalization
	}
	return false
}

// ReferenceError represents a reference whose fragment cannot be resolved
// inside the fetched document.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Document is the normalized locator of the document the fragment was applied to
	Document string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "could not resolve"
	if e.Ref != "" {
		msg += " " + e.Ref
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded, e.g. "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid option or input.
type ConfigError struct {
	// Option is the name of the problematic option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
