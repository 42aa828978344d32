package compiler

import "github.com/erraggy/oascompiler/node"

// Named is one entry of an ordered mapping in a model, such as a path item
// under its template or a response under its status code.
type Named[T any] struct {
	Name  string `json:"name,omitempty"`
	Value T      `json:"value,omitempty"`
}

// Lookup returns the value stored under name.
func Lookup[T any](entries []*Named[T], name string) (T, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	var zero T
	return zero, false
}

// EntryNames returns the names in declaration order.
func EntryNames[T any](entries []*Named[T]) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// MapOf consumes a mapping field and builds every entry with build, which
// returns false to drop an entry it could not build. The result is nil when
// key is absent or not a mapping, and non-nil otherwise.
func MapOf[T any](f *Fields, key string, build func(name string, v *node.Node) (T, bool)) []*Named[T] {
	out := []*Named[T]{}
	if !f.EachEntry(key, func(name string, v *node.Node) {
		if value, ok := build(name, v); ok {
			out = append(out, &Named[T]{Name: name, Value: value})
		}
	}) {
		return nil
	}
	return out
}

// ListOf consumes a sequence field and builds every element with build.
// The result is nil when key is absent or not a sequence.
func ListOf[T any](f *Fields, key string, build func(v *node.Node) (T, bool)) []T {
	out := []T{}
	if !f.EachItem(key, func(_ int, v *node.Node) {
		if value, ok := build(v); ok {
			out = append(out, value)
		}
	}) {
		return nil
	}
	return out
}

// PutMapOf writes an ordered mapping of rendered entries. A nil list is
// skipped; an empty one is written as an empty mapping.
func PutMapOf[T any](m *node.Node, key string, entries []*Named[T], render func(T) *node.Node) {
	if entries == nil {
		return
	}
	out := node.NewMapping()
	for _, e := range entries {
		out.Set(e.Name, render(e.Value))
	}
	m.Set(key, out)
}

// PutListOf writes a sequence of rendered elements. A nil list is skipped.
func PutListOf[T any](m *node.Node, key string, items []T, render func(T) *node.Node) {
	if items == nil {
		return
	}
	out := node.NewSequence()
	for _, item := range items {
		out.Append(render(item))
	}
	m.Set(key, out)
}
