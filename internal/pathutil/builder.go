package pathutil

import (
	"strconv"
	"strings"
)

// Root is the rendering of an empty path.
const Root = "$"

// Segment is one step of a path: a field name or a sequence index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

// String renders the segment as it appears inside a path.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Name
}

// PathBuilder provides incremental path construction for recursive descent.
type PathBuilder struct {
	segments []Segment
}

// Push adds a field segment to the path.
func (p *PathBuilder) Push(name string) {
	p.segments = append(p.segments, Segment{Name: name})
}

// PushIndex adds a sequence index segment: "[0]", "[1]", etc.
func (p *PathBuilder) PushIndex(i int) {
	p.segments = append(p.segments, Segment{Index: i, IsIndex: true})
}

// Pop removes the last segment. Popping an empty path is a no-op.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	p.segments = p.segments[:len(p.segments)-1]
}

// Len returns the number of segments.
func (p *PathBuilder) Len() int {
	return len(p.segments)
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
}

// Snapshot returns a copy of the current segments.
func (p *PathBuilder) Snapshot() []Segment {
	if len(p.segments) == 0 {
		return nil
	}
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// String materializes the full path. Only call when the path is needed.
func (p *PathBuilder) String() string {
	return Format(p.segments)
}

// Format renders segments rooted at "$", joining field names with dots and
// appending indices in brackets.
func Format(segments []Segment) string {
	n := len(Root)
	for _, s := range segments {
		n += len(s.Name) + 4
	}
	var b strings.Builder
	b.Grow(n)
	b.WriteString(Root)
	for _, s := range segments {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(s.Name)
	}
	return b.String()
}
