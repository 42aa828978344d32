package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/erraggy/oascompiler/oaserrors"
	"go.yaml.in/yaml/v4"
)

// Parse decodes a YAML or JSON document into a Node tree.
//
// The document wrapper is removed, aliases are expanded and every node keeps
// its source line and column. An empty document decodes to a null node.
// Duplicate mapping keys keep the first position with the last value.
//
// Alias expansion copies the anchored subtree at every use. When aliases
// would produce more nodes than the expansion budget allows, Parse returns
// a *oaserrors.ResourceLimitError instead of the tree.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return NewNull(), nil
	}
	return FromYAML(&doc)
}

// FromYAML converts a yaml.Node tree into a Node tree. It fails only when
// alias expansion exceeds the budget described at Parse.
func FromYAML(y *yaml.Node) (*Node, error) {
	c := &converter{limit: aliasBudget(y)}
	c.budget = c.limit
	n := c.convert(y, 0)
	if c.err != nil {
		return nil, c.err
	}
	return n, nil
}

const (
	// maxAliasDepth bounds nested alias expansion so that self-referencing
	// anchors cannot recurse forever.
	maxAliasDepth = 64
	// minAliasBudget is the number of nodes aliases may always produce.
	minAliasBudget = 100_000
	// aliasBudgetRatio scales the budget with the size of the source tree.
	aliasBudgetRatio = 10
)

// aliasBudget returns how many nodes alias expansion may produce for y.
func aliasBudget(y *yaml.Node) int {
	return max(minAliasBudget, aliasBudgetRatio*countNodes(y))
}

// countNodes counts the nodes of y without following aliases.
func countNodes(y *yaml.Node) int {
	if y == nil {
		return 0
	}
	n := 1
	for _, c := range y.Content {
		n += countNodes(c)
	}
	return n
}

type converter struct {
	limit  int
	budget int
	err    error
}

// spend charges one node produced inside an alias expansion.
func (c *converter) spend(aliasDepth int) bool {
	if c.err != nil {
		return false
	}
	if aliasDepth == 0 {
		return true
	}
	c.budget--
	if c.budget < 0 {
		c.err = &oaserrors.ResourceLimitError{
			ResourceType: "alias_expansion",
			Limit:        int64(c.limit),
			Message:      "YAML aliases expand to too many nodes",
		}
		return false
	}
	return true
}

func (c *converter) convert(y *yaml.Node, aliasDepth int) *Node {
	if y == nil || !c.spend(aliasDepth) {
		return NewNull()
	}
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewNull()
		}
		return c.convert(y.Content[0], aliasDepth)

	case yaml.AliasNode:
		if y.Alias == nil || aliasDepth >= maxAliasDepth {
			return &Node{Kind: Null, Value: "null", Line: y.Line, Column: y.Column}
		}
		n := c.convert(y.Alias, aliasDepth+1)
		n.Line, n.Column = y.Line, y.Column
		return n

	case yaml.MappingNode:
		n := &Node{Kind: Mapping, Keys: []string{}, Items: []*Node{}, Line: y.Line, Column: y.Column}
		for i := 0; i+1 < len(y.Content) && c.err == nil; i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
				mergeInto(n, c.convert(v, aliasDepth))
				continue
			}
			n.Set(k.Value, c.convert(v, aliasDepth))
		}
		return n

	case yaml.SequenceNode:
		n := &Node{Kind: Sequence, Items: make([]*Node, 0, len(y.Content)), Line: y.Line, Column: y.Column}
		for _, item := range y.Content {
			if c.err != nil {
				break
			}
			n.Items = append(n.Items, c.convert(item, aliasDepth))
		}
		return n

	case yaml.ScalarNode:
		n := &Node{Value: y.Value, Line: y.Line, Column: y.Column}
		switch y.ShortTag() {
		case "!!null":
			n.Kind = Null
		case "!!bool":
			n.Kind = Bool
		case "!!int", "!!float":
			n.Kind = Number
		default:
			n.Kind = String
		}
		return n
	}
	return NewNull()
}

// mergeInto applies a YAML merge key; explicitly declared keys win.
func mergeInto(dst, src *Node) {
	sources := []*Node{src}
	if src.IsSequence() {
		sources = src.Items
	}
	for _, s := range sources {
		if !s.IsMapping() {
			continue
		}
		for i, k := range s.Keys {
			if !dst.Has(k) {
				dst.Set(k, s.Items[i])
			}
		}
	}
}

// ToYAML converts n back into a yaml.Node tree.
func (n *Node) ToYAML() *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch n.Kind {
	case Mapping:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, k := range n.Keys {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				n.Items[i].ToYAML())
		}
		return y
	case Sequence:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			y.Content = append(y.Content, item.ToYAML())
		}
		return y
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: n.Value}
	case Number:
		tag := "!!float"
		if n.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.Value}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Value}
	}
}

// MarshalYAML renders n as a YAML document with two-space indentation.
func MarshalYAML(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n.ToYAML()); err != nil {
		return nil, fmt.Errorf("node: encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("node: encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders n as compact JSON, preserving mapping key order.
func MarshalJSON(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return MarshalJSON(n)
}

func writeJSON(buf *bytes.Buffer, n *Node) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		b, _ := n.Bool()
		buf.WriteString(strconv.FormatBool(b))
	case Number:
		if i, ok := n.Int(); ok && n.IsInteger() {
			buf.WriteString(strconv.FormatInt(i, 10))
			return nil
		}
		f, ok := n.Float()
		if !ok {
			return fmt.Errorf("node: invalid number %q", n.Value)
		}
		out, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("node: encoding number %q: %w", n.Value, err)
		}
		buf.Write(out)
	case String:
		out, err := json.Marshal(n.Value)
		if err != nil {
			return err
		}
		buf.Write(out)
	case Sequence:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Mapping:
		buf.WriteByte('{')
		for i, k := range n.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Items[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
