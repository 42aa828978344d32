package compiler

import (
	"strings"

	"github.com/erraggy/oascompiler/node"
)

// Fields reads the known keys of one mapping while a record is built and
// remembers which keys were consumed. After all known fields are read,
// Extensions turns the remaining keys into the record's extension list.
//
// Accessors for a key with the wrong node type report a diagnostic at the
// key's path and return the typed default.
type Fields struct {
	ctx      *Context
	n        *node.Node
	consumed []bool
}

// NewFields starts reading n. A nil or non-mapping n yields a Fields on
// which every accessor returns its default.
func NewFields(ctx *Context, n *node.Node) *Fields {
	f := &Fields{ctx: ctx, n: n}
	if n.IsMapping() {
		f.consumed = make([]bool, len(n.Keys))
	}
	return f
}

// Source returns the mapping node being read.
func (f *Fields) Source() *node.Node { return f.n }

func (f *Fields) index(key string) int {
	if f.consumed == nil {
		return -1
	}
	for i, k := range f.n.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Has reports whether key is present, without consuming it.
func (f *Fields) Has(key string) bool { return f.index(key) >= 0 }

// Peek returns the value of key without consuming it.
func (f *Fields) Peek(key string) *node.Node {
	if i := f.index(key); i >= 0 {
		return f.n.Items[i]
	}
	return nil
}

// Node consumes key and returns its raw value, or nil when absent.
func (f *Fields) Node(key string) *node.Node {
	i := f.index(key)
	if i < 0 {
		return nil
	}
	f.consumed[i] = true
	return f.n.Items[i]
}

// Consume marks key as read without returning its value.
func (f *Fields) Consume(key string) {
	f.Node(key)
}

// Unexpected reports that key holds a value of the wrong shape.
func (f *Fields) Unexpected(key string, v *node.Node) {
	f.ctx.Push(key)
	f.ctx.ReportAtf(v, "has unexpected value: %s", v.Describe())
	f.ctx.Pop()
}

// String consumes a string field. Strings, integers and null are accepted.
func (f *Fields) String(key string) string {
	v := f.Node(key)
	if v == nil {
		return ""
	}
	s, ok := StringForScalarNode(v)
	if !ok {
		f.Unexpected(key, v)
	}
	return s
}

// Bool consumes a boolean field.
func (f *Fields) Bool(key string) bool {
	v := f.Node(key)
	if v == nil {
		return false
	}
	b, ok := v.Bool()
	if !ok {
		f.Unexpected(key, v)
	}
	return b
}

// BoolPtr is Bool for optional fields. It returns nil when key is absent or
// holds a value of the wrong type.
func (f *Fields) BoolPtr(key string) *bool {
	if !f.Has(key) {
		return nil
	}
	before := len(f.ctx.diagnostics)
	b := f.Bool(key)
	if len(f.ctx.diagnostics) > before {
		return nil
	}
	return &b
}

// Int consumes an integer field.
func (f *Fields) Int(key string) int64 {
	v := f.Node(key)
	if v == nil {
		return 0
	}
	if v.Kind == node.Number && v.IsInteger() {
		i, _ := v.Int()
		return i
	}
	f.Unexpected(key, v)
	return 0
}

// IntPtr is Int for optional fields. It returns nil when key is absent or
// holds a value of the wrong type.
func (f *Fields) IntPtr(key string) *int64 {
	if !f.Has(key) {
		return nil
	}
	before := len(f.ctx.diagnostics)
	i := f.Int(key)
	if len(f.ctx.diagnostics) > before {
		return nil
	}
	return &i
}

// Float consumes a number field. Integers are accepted.
func (f *Fields) Float(key string) float64 {
	v := f.Node(key)
	if v == nil {
		return 0
	}
	if fl, ok := v.Float(); ok {
		return fl
	}
	f.Unexpected(key, v)
	return 0
}

// Strings consumes a sequence of strings. A single scalar is reported and
// ignored; non-string entries are reported and skipped.
func (f *Fields) Strings(key string) []string {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	if !v.IsSequence() {
		f.Unexpected(key, v)
		return nil
	}
	out := make([]string, 0, len(v.Items))
	f.ctx.Push(key)
	for i, item := range v.Items {
		s, ok := StringForScalarNode(item)
		if !ok {
			f.ctx.PushIndex(i)
			f.ctx.ReportAtf(item, "has unexpected value: %s", item.Describe())
			f.ctx.Pop()
			continue
		}
		out = append(out, s)
	}
	f.ctx.Pop()
	return out
}

// StringMap consumes a mapping of string values, preserving order. Entries
// with non-string values are reported and skipped.
func (f *Fields) StringMap(key string) []*NamedString {
	m := f.Mapping(key)
	if m == nil {
		return nil
	}
	out := make([]*NamedString, 0, len(m.Keys))
	f.ctx.Push(key)
	EachEntry(f.ctx, m, func(name string, v *node.Node) {
		s, ok := StringForScalarNode(v)
		if !ok {
			f.ctx.ReportAtf(v, "has unexpected value: %s", v.Describe())
			return
		}
		out = append(out, &NamedString{Name: name, Value: s})
	})
	f.ctx.Pop()
	return out
}

// Mapping consumes a field that must be a mapping. Wrong types are reported
// and yield nil.
func (f *Fields) Mapping(key string) *node.Node {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	if !v.IsMapping() {
		f.Unexpected(key, v)
		return nil
	}
	return v
}

// Sequence consumes a field that must be a sequence. Wrong types are
// reported and yield nil.
func (f *Fields) Sequence(key string) *node.Node {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	if !v.IsSequence() {
		f.Unexpected(key, v)
		return nil
	}
	return v
}

// Any consumes a free-form field such as default or example.
func (f *Fields) Any(key string) *Any {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	return RawAny(v)
}

// Anys consumes a sequence of free-form values such as enum. An empty
// sequence yields an empty, non-nil slice.
func (f *Fields) Anys(key string) []*Any {
	s := f.Sequence(key)
	if s == nil {
		return nil
	}
	out := make([]*Any, len(s.Items))
	for i, item := range s.Items {
		out[i] = RawAny(item)
	}
	return out
}

// EachEntry consumes a mapping field and calls fn for every entry in
// declaration order with the entry's name pushed on the path.
func (f *Fields) EachEntry(key string, fn func(name string, v *node.Node)) bool {
	m := f.Mapping(key)
	if m == nil {
		return false
	}
	f.ctx.Push(key)
	EachEntry(f.ctx, m, fn)
	f.ctx.Pop()
	return true
}

// EachItem consumes a sequence field and calls fn for every element with
// its index pushed on the path.
func (f *Fields) EachItem(key string, fn func(i int, v *node.Node)) bool {
	s := f.Sequence(key)
	if s == nil {
		return false
	}
	f.ctx.Push(key)
	EachItem(f.ctx, s, fn)
	f.ctx.Pop()
	return true
}

// Patterned consumes every not yet consumed key accepted by match and calls
// fn for it with the key pushed on the path. It is used for patterned
// fields such as path templates or response codes.
func (f *Fields) Patterned(match func(key string) bool, fn func(key string, v *node.Node)) {
	if f.consumed == nil {
		return
	}
	for i, k := range f.n.Keys {
		if f.consumed[i] || !match(k) {
			continue
		}
		f.consumed[i] = true
		f.ctx.Push(k)
		fn(k, f.n.Items[i])
		f.ctx.Pop()
	}
}

// Require reports every listed key that is absent.
func (f *Fields) Require(keys ...string) {
	if f.consumed == nil {
		return
	}
	for _, missing := range MissingKeysInMap(f.n, keys...) {
		f.ctx.ReportAtf(f.n, "is missing required property: %s", missing)
	}
}

// Rest returns the keys not consumed so far, in declaration order.
func (f *Fields) Rest() []string {
	if f.consumed == nil {
		return nil
	}
	var rest []string
	for i, k := range f.n.Keys {
		if !f.consumed[i] {
			rest = append(rest, k)
		}
	}
	return rest
}

// Extensions consumes all remaining keys and resolves them through the
// context's extension registry. Keys without the "x-" prefix are kept as
// well, and reported as invalid properties. The result is never nil.
func (f *Fields) Extensions() Extensions {
	exts := Extensions{}
	if f.consumed == nil {
		return exts
	}
	for i, k := range f.n.Keys {
		if f.consumed[i] {
			continue
		}
		f.consumed[i] = true
		v := f.n.Items[i]
		if !strings.HasPrefix(k, ExtensionPrefix) {
			f.ctx.ReportAtf(v, "has invalid property: %s", k)
		}
		f.ctx.Push(k)
		exts = append(exts, &NamedAny{Name: k, Value: f.ctx.extensions.Resolve(k, v, f.ctx)})
		f.ctx.Pop()
	}
	return exts
}

// Ignore consumes all remaining keys without producing extensions, for
// records that the grammar marks as not extensible. Every remaining key is
// reported as an invalid property.
func (f *Fields) Ignore() {
	if f.consumed == nil {
		return
	}
	for i, k := range f.n.Keys {
		if !f.consumed[i] {
			f.consumed[i] = true
			f.ctx.ReportAtf(f.n.Items[i], "has invalid property: %s", k)
		}
	}
}

// EachEntry calls fn for every entry of the mapping m with the entry's name
// pushed on the path.
func EachEntry(ctx *Context, m *node.Node, fn func(name string, v *node.Node)) {
	if !m.IsMapping() {
		return
	}
	for i, k := range m.Keys {
		ctx.Push(k)
		fn(k, m.Items[i])
		ctx.Pop()
	}
}

// EachItem calls fn for every element of the sequence s with its index
// pushed on the path.
func EachItem(ctx *Context, s *node.Node, fn func(i int, v *node.Node)) {
	if !s.IsSequence() {
		return
	}
	for i, item := range s.Items {
		ctx.PushIndex(i)
		fn(i, item)
		ctx.Pop()
	}
}
