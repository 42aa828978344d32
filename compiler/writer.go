package compiler

import "github.com/erraggy/oascompiler/node"

// The Put helpers write model fields back into a mapping node, skipping
// zero values so that only populated fields appear.

// PutString writes a non-empty string.
func PutString(m *node.Node, key, v string) {
	if v != "" {
		m.Set(key, node.NewString(v))
	}
}

// PutBool writes a true boolean.
func PutBool(m *node.Node, key string, v bool) {
	if v {
		m.Set(key, node.NewBool(true))
	}
}

// PutInt writes a non-zero integer.
func PutInt(m *node.Node, key string, v int64) {
	if v != 0 {
		m.Set(key, node.NewInt(v))
	}
}

// PutFloat writes a non-zero number.
func PutFloat(m *node.Node, key string, v float64) {
	if v != 0 {
		m.Set(key, node.NewFloat(v))
	}
}

// PutStrings writes a non-empty string sequence.
func PutStrings(m *node.Node, key string, v []string) {
	if len(v) > 0 {
		m.Set(key, node.NewStrings(v))
	}
}

// PutNode writes a non-nil node.
func PutNode(m *node.Node, key string, v *node.Node) {
	if v != nil {
		m.Set(key, v)
	}
}

// PutAny writes a free-form value.
func PutAny(m *node.Node, key string, a *Any) {
	if a == nil {
		return
	}
	v, err := a.Node()
	if err != nil {
		v = node.NewString(a.YAML)
	}
	m.Set(key, v)
}

// PutIntPtr writes an optional integer, including an explicit zero.
func PutIntPtr(m *node.Node, key string, v *int64) {
	if v != nil {
		m.Set(key, node.NewInt(*v))
	}
}

// PutBoolPtr writes an optional boolean, including an explicit false.
func PutBoolPtr(m *node.Node, key string, v *bool) {
	if v != nil {
		m.Set(key, node.NewBool(*v))
	}
}

// PutStringMap writes an ordered string mapping. A nil list is skipped; an
// empty one is written as an empty mapping.
func PutStringMap(m *node.Node, key string, v []*NamedString) {
	if v == nil {
		return
	}
	out := node.NewMapping()
	for _, ns := range v {
		out.Set(ns.Name, node.NewString(ns.Value))
	}
	m.Set(key, out)
}

// PutAnys writes a sequence of free-form values. A nil list is skipped.
func PutAnys(m *node.Node, key string, v []*Any) {
	if v == nil {
		return
	}
	out := node.NewSequence()
	for _, a := range v {
		item, err := a.Node()
		if err != nil {
			item = node.NewString(a.YAML)
		}
		out.Append(item)
	}
	m.Set(key, out)
}
