package openapiv2

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// ParseDocument decodes YAML or JSON bytes and builds a Swagger document.
// Only undecodable bytes and a non-mapping root fail; everything else is a
// diagnostic.
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

// Version returns the swagger field, e.g. "2.0".
func (d *Document) Version() string {
	if d == nil {
		return ""
	}
	return d.Swagger
}

// MarshalJSON renders the model with two-space indentation, emitting only
// populated fields.
func MarshalJSON(d *Document) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapiv2: encoding document: %w", err)
	}
	return out, nil
}

// MarshalYAML renders the document as Swagger YAML.
func MarshalYAML(d *Document) ([]byte, error) {
	return node.MarshalYAML(d.ToNode())
}
