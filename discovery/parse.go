package discovery

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// ParseDocument decodes a Discovery document and builds it.
func ParseDocument(data []byte, opts ...compiler.Option) (*Document, []compiler.Diagnostic, error) {
	root, err := compiler.Decode(data, documentKind)
	if err != nil {
		return nil, nil, err
	}
	ctx := compiler.NewContext(opts...)
	doc, err := Build(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	return doc, ctx.Diagnostics(), nil
}

// MarshalJSON renders the model with two-space indentation, emitting only
// populated fields.
func MarshalJSON(d *Document) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("discovery: encoding document: %w", err)
	}
	return out, nil
}

// MarshalYAML renders the document as YAML in Discovery spelling.
func MarshalYAML(d *Document) ([]byte, error) {
	return node.MarshalYAML(d.ToNode())
}
