package compiler

import (
	"strings"

	"github.com/erraggy/oascompiler/node"
)

// Matcher selects the extension keys a handler is registered for.
type Matcher func(key string) bool

// MatchName matches exactly one key.
func MatchName(name string) Matcher {
	return func(key string) bool { return key == name }
}

// MatchPrefix matches every key starting with prefix.
func MatchPrefix(prefix string) Matcher {
	return func(key string) bool { return strings.HasPrefix(key, prefix) }
}

// ExtensionHandler converts the node stored under key into an extension
// value. Returning (nil, nil) declines the key so that later handlers, and
// finally the raw passthrough, are tried.
type ExtensionHandler func(key string, n *node.Node, ctx *Context) (*Any, error)

type registration struct {
	match   Matcher
	handler ExtensionHandler
}

// ExtensionRegistry maps extension keys to handlers. The zero value and
// NewExtensionRegistry both produce a registry with only the raw passthrough.
type ExtensionRegistry struct {
	handlers []registration
}

// NewExtensionRegistry creates an empty registry.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{}
}

// Register adds a handler. Handlers are tried in registration order.
func (r *ExtensionRegistry) Register(m Matcher, h ExtensionHandler) {
	r.handlers = append(r.handlers, registration{match: m, handler: h})
}

// Len returns the number of registered handlers.
func (r *ExtensionRegistry) Len() int {
	return len(r.handlers)
}

// Resolve converts one unconsumed key. The first matching handler that
// produces a value wins; a failing handler is reported and skipped. When no
// handler produces a value the node is wrapped with RawAny.
func (r *ExtensionRegistry) Resolve(key string, n *node.Node, ctx *Context) *Any {
	if r != nil {
		for _, reg := range r.handlers {
			if !reg.match(key) {
				continue
			}
			v, err := reg.handler(key, n, ctx)
			if err != nil {
				ctx.ReportAtf(n, "extension handler failed: %v", err)
				continue
			}
			if v != nil {
				return v
			}
		}
	}
	return RawAny(n)
}
