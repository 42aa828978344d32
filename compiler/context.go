package compiler

import (
	"context"
	"fmt"

	"github.com/erraggy/oascompiler/internal/pathutil"
	"github.com/erraggy/oascompiler/node"
)

// DefaultMaxDepth bounds the nesting depth of a single build.
const DefaultMaxDepth = 256

// RefReader loads the node an external reference points at. ref is resolved
// against base; the returned locator identifies the document the node came
// from so that references nested inside it resolve relative to that document.
type RefReader interface {
	ReadRef(ctx context.Context, base, ref string) (n *node.Node, locator string, err error)
}

// Context carries the state of one build call: the current field path,
// the diagnostics reported so far and the collaborators builders consult.
// A Context is not safe for concurrent use and must not be shared between
// unrelated builds.
type Context struct {
	path        pathutil.PathBuilder
	diagnostics []Diagnostic

	extensions *ExtensionRegistry
	logger     Logger
	maxDepth   int

	ctx      context.Context
	refs     RefReader
	base     string
	inline   bool
	inlining map[string]bool
}

// Option configures a Context.
type Option func(*Context)

// WithExtensions sets the registry consulted for unconsumed mapping keys.
func WithExtensions(r *ExtensionRegistry) Option {
	return func(c *Context) {
		if r != nil {
			c.extensions = r
		}
	}
}

// WithLogger sets the logger. Default: NopLogger.
func WithLogger(l Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxDepth caps the path depth; deeper nodes are reported and skipped.
// Non-positive values keep DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Context) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithRefReader enables eager inlining of cross-document references.
// base is the locator of the document being built.
func WithRefReader(r RefReader, base string) Option {
	return func(c *Context) {
		c.refs = r
		c.base = base
		c.inline = r != nil
	}
}

// WithGoContext sets the context.Context passed to the RefReader.
func WithGoContext(ctx context.Context) Option {
	return func(c *Context) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// NewContext creates a Context for one build call.
func NewContext(opts ...Option) *Context {
	c := &Context{
		extensions: NewExtensionRegistry(),
		logger:     NopLogger{},
		maxDepth:   DefaultMaxDepth,
		ctx:        context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Push descends into a named field.
func (c *Context) Push(name string) { c.path.Push(name) }

// PushIndex descends into a sequence element.
func (c *Context) PushIndex(i int) { c.path.PushIndex(i) }

// Pop leaves the innermost segment. Every Push must be paired with a Pop.
func (c *Context) Pop() { c.path.Pop() }

// Depth returns the number of segments on the path.
func (c *Context) Depth() int { return c.path.Len() }

// Path renders the current path.
func (c *Context) Path() string { return c.path.String() }

// Extensions returns the extension registry in use.
func (c *Context) Extensions() *ExtensionRegistry { return c.extensions }

// Logger returns the configured logger.
func (c *Context) Logger() Logger { return c.logger }

// Report records a diagnostic at the current path.
func (c *Context) Report(msg string) {
	c.diagnostics = append(c.diagnostics, Diagnostic{Path: c.path.Snapshot(), Message: msg})
}

// Reportf is Report with formatting.
func (c *Context) Reportf(format string, args ...any) {
	c.Report(fmt.Sprintf(format, args...))
}

// ReportAt records a diagnostic at the current path using n's position.
func (c *Context) ReportAt(n *node.Node, msg string) {
	d := Diagnostic{Path: c.path.Snapshot(), Message: msg}
	if n != nil {
		d.Line, d.Column = n.Line, n.Column
	}
	c.diagnostics = append(c.diagnostics, d)
}

// ReportAtf is ReportAt with formatting.
func (c *Context) ReportAtf(n *node.Node, format string, args ...any) {
	c.ReportAt(n, fmt.Sprintf(format, args...))
}

// Diagnostics returns a copy of the diagnostics in traversal order.
func (c *Context) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Err returns an *ErrorGroup holding all diagnostics, or nil if there are none.
func (c *Context) Err() error {
	return NewErrorGroup(c.Diagnostics())
}

// CheckDepth reports and returns false when the path is at the depth cap.
// Recursive builders call it before descending into n.
func (c *Context) CheckDepth(n *node.Node) bool {
	if c.path.Len() < c.maxDepth {
		return true
	}
	c.ReportAtf(n, "exceeds maximum nesting depth of %d", c.maxDepth)
	return false
}

// Inlining reports whether cross-document references are inlined.
func (c *Context) Inlining() bool { return c.inline }

// InlineRef loads the target of an external reference. It returns false when
// inlining is disabled, when ref points into the root document, or when the
// target cannot be loaded or is already being inlined; the latter two cases
// are reported. A local reference inside an inlined document is resolved
// against that document, since it would dangle in the root. On success the
// caller must invoke done after building the returned node, which restores
// the previous base document.
func (c *Context) InlineRef(n *node.Node, ref string) (target *node.Node, done func(), ok bool) {
	if !c.inline || ref == "" || (ref[0] == '#' && len(c.inlining) == 0) {
		return nil, nil, false
	}
	target, locator, err := c.refs.ReadRef(c.ctx, c.base, ref)
	if err != nil {
		c.ReportAt(n, err.Error())
		return nil, nil, false
	}
	_, fragment := pathutil.SplitReference(ref)
	key := locator + "#" + fragment
	if c.inlining[key] {
		c.ReportAtf(n, "has circular reference: %s", ref)
		return nil, nil, false
	}
	c.logger.Debug("inlined reference", "ref", ref, "document", locator, "path", c.Path())

	if c.inlining == nil {
		c.inlining = make(map[string]bool)
	}
	c.inlining[key] = true
	prev := c.base
	c.base = locator
	return target, func() {
		c.base = prev
		delete(c.inlining, key)
	}, true
}
