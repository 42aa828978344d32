// Package node provides the format-agnostic tree that YAML and JSON API
// descriptions are decoded into before they are compiled into typed models.
//
// A [Node] is one of null, boolean, number, string, sequence or mapping.
// Mappings preserve the declaration order of their keys, and scalars keep
// their source text so that "1.0" and "1" remain distinguishable until a
// typed accessor interprets them.
//
//	root, err := node.Parse(data)
//	if err != nil {
//	    return err
//	}
//	if title := root.Lookup("info").Lookup("title"); title != nil {
//	    fmt.Println(title.Value)
//	}
package node

import (
	"strconv"
	"strings"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	// Null is an explicit null or an empty scalar.
	Null Kind = iota
	// Bool is a true/false scalar.
	Bool
	// Number is an integer or floating point scalar.
	Number
	// String is any other scalar.
	String
	// Sequence is an ordered list of nodes.
	Sequence
	// Mapping is an ordered list of unique string keys with node values.
	Mapping
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is a single value of an untyped document tree.
//
// For mappings, Keys and Items are parallel slices. For sequences only Items
// is used. Scalars store their source text in Value.
type Node struct {
	Kind  Kind
	Value string
	Keys  []string
	Items []*Node

	// Line and Column are 1-based source positions, or 0 when the node was
	// constructed in memory.
	Line   int
	Column int
}

// NewNull returns a null node.
func NewNull() *Node { return &Node{Kind: Null, Value: "null"} }

// NewBool returns a boolean scalar.
func NewBool(b bool) *Node { return &Node{Kind: Bool, Value: strconv.FormatBool(b)} }

// NewInt returns an integer scalar.
func NewInt(i int64) *Node { return &Node{Kind: Number, Value: strconv.FormatInt(i, 10)} }

// NewFloat returns a floating point scalar.
func NewFloat(f float64) *Node {
	return &Node{Kind: Number, Value: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewString returns a string scalar.
func NewString(s string) *Node { return &Node{Kind: String, Value: s} }

// NewSequence returns a sequence holding items.
func NewSequence(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{Kind: Sequence, Items: items}
}

// NewStrings returns a sequence of string scalars.
func NewStrings(values []string) *Node {
	seq := NewSequence()
	for _, v := range values {
		seq.Items = append(seq.Items, NewString(v))
	}
	return seq
}

// NewMapping returns an empty mapping.
func NewMapping() *Node { return &Node{Kind: Mapping, Keys: []string{}, Items: []*Node{}} }

// IsNull reports whether n is nil or a null node.
func (n *Node) IsNull() bool { return n == nil || n.Kind == Null }

// IsMapping reports whether n is a mapping.
func (n *Node) IsMapping() bool { return n != nil && n.Kind == Mapping }

// IsSequence reports whether n is a sequence.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == Sequence }

// IsScalar reports whether n is a null, boolean, number or string node.
func (n *Node) IsScalar() bool {
	return n != nil && n.Kind != Mapping && n.Kind != Sequence
}

// Len returns the number of entries of a mapping or sequence, and 0 otherwise.
func (n *Node) Len() int {
	if n == nil || (n.Kind != Mapping && n.Kind != Sequence) {
		return 0
	}
	return len(n.Items)
}

// index returns the position of key in a mapping, or -1.
func (n *Node) index(key string) int {
	if n == nil || n.Kind != Mapping {
		return -1
	}
	for i, k := range n.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Lookup returns the value stored under key, or nil when n is not a mapping
// or does not contain the key. Lookup is nil-safe so calls can be chained.
func (n *Node) Lookup(key string) *Node {
	if i := n.index(key); i >= 0 {
		return n.Items[i]
	}
	return nil
}

// Has reports whether the mapping contains key.
func (n *Node) Has(key string) bool { return n.index(key) >= 0 }

// Set stores value under key, replacing an existing entry in place.
func (n *Node) Set(key string, value *Node) {
	if i := n.index(key); i >= 0 {
		n.Items[i] = value
		return
	}
	n.Keys = append(n.Keys, key)
	n.Items = append(n.Items, value)
}

// Append adds value to the end of a sequence.
func (n *Node) Append(value *Node) {
	n.Items = append(n.Items, value)
}

// Bool returns the boolean value of a Bool node.
func (n *Node) Bool() (bool, bool) {
	if n == nil || n.Kind != Bool {
		return false, false
	}
	b, err := strconv.ParseBool(strings.ToLower(n.Value))
	return b, err == nil
}

// Int returns the integer value of a Number node. Floats with no fractional
// part are accepted.
func (n *Node) Int() (int64, bool) {
	if n == nil || n.Kind != Number {
		return 0, false
	}
	return parseInt(n.Value)
}

// Float returns the floating point value of a Number node.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.Kind != Number {
		return 0, false
	}
	return parseFloat(n.Value)
}

// IsInteger reports whether n is a Number whose source text is an integer.
func (n *Node) IsInteger() bool {
	if n == nil || n.Kind != Number {
		return false
	}
	_, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64)
	return err == nil
}

func parseInt(s string) (int64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, true
	}
	f, ok := parseFloat(s)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func parseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		s = "+Inf"
	case "-.inf":
		s = "-Inf"
	case ".nan":
		s = "NaN"
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), true
	}
	return 0, false
}

// Describe renders n for use in diagnostics, for example "42 (integer)".
func (n *Node) Describe() string {
	if n == nil {
		return "null"
	}
	switch n.Kind {
	case Null:
		return "null"
	case Bool:
		return n.Value + " (boolean)"
	case Number:
		if n.IsInteger() {
			return n.Value + " (integer)"
		}
		return n.Value + " (float)"
	case String:
		return n.Value + " (string)"
	case Sequence:
		return "[array]"
	case Mapping:
		return "{object}"
	}
	return n.Kind.String()
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Keys != nil {
		c.Keys = append([]string(nil), n.Keys...)
	}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = item.Clone()
		}
	}
	return &c
}
