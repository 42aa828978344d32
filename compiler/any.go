package compiler

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/oascompiler/node"
)

// ExtensionPrefix marks vendor extension keys.
const ExtensionPrefix = "x-"

// Any is an opaque value attached to a model: either the raw YAML rendering
// of a node, or a handler-produced typed value.
type Any struct {
	Value *TypedValue `json:"value,omitempty"`
	YAML  string      `json:"yaml,omitempty"`
}

// TypedValue is a handler-specific structured value identified by a type URL.
type TypedValue struct {
	TypeURL string          `json:"@type"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// RawAny wraps n as its YAML rendering, e.g. "42\n" for the integer 42.
func RawAny(n *node.Node) *Any {
	out, err := node.MarshalYAML(n)
	if err != nil {
		// Every Node is encodable; fall back to the scalar text.
		return &Any{YAML: n.Value}
	}
	return &Any{YAML: string(out)}
}

// NewTypedAny encodes v as JSON under typeURL.
func NewTypedAny(typeURL string, v any) (*Any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("compiler: encoding %s: %w", typeURL, err)
	}
	return &Any{Value: &TypedValue{TypeURL: typeURL, Value: raw}}, nil
}

// Node decodes the value back into a Node. Raw values decode their YAML;
// typed values decode their JSON payload.
func (a *Any) Node() (*node.Node, error) {
	if a == nil {
		return node.NewNull(), nil
	}
	if a.YAML != "" {
		return node.Parse([]byte(a.YAML))
	}
	if a.Value != nil && len(a.Value.Value) > 0 {
		return node.Parse(a.Value.Value)
	}
	return node.NewNull(), nil
}

// NamedAny pairs an extension key with its value.
type NamedAny struct {
	Name  string `json:"name,omitempty"`
	Value *Any   `json:"value,omitempty"`
}

// NamedString is one entry of an ordered string to string mapping.
type NamedString struct {
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// Extensions is the ordered list of extension values attached to a record.
// Builders always set it to a non-nil (possibly empty) list.
type Extensions []*NamedAny

// Get returns the value stored for name, or nil.
func (e Extensions) Get(name string) *Any {
	for _, na := range e {
		if na.Name == name {
			return na.Value
		}
	}
	return nil
}

// Names returns the extension keys in declaration order.
func (e Extensions) Names() []string {
	names := make([]string, len(e))
	for i, na := range e {
		names[i] = na.Name
	}
	return names
}

// WriteTo appends every extension to the mapping m. Values that cannot be
// decoded are written as strings.
func (e Extensions) WriteTo(m *node.Node) {
	for _, na := range e {
		v, err := na.Value.Node()
		if err != nil {
			v = node.NewString(na.Value.YAML)
		}
		m.Set(na.Name, v)
	}
}
