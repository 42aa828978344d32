package openapiv3

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// ParseDocument decodes YAML or JSON bytes and builds a document.
// Undecodable bytes and a root that is not a mapping are returned as
// *oaserrors.ParseError; all other problems come back as diagnostics next
// to a complete document.
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

// Version returns the major.minor part of the openapi field, e.g. "3.0".
func (d *Document) Version() string {
	if d == nil {
		return ""
	}
	parts := strings.SplitN(d.OpenAPI, ".", 3)
	if len(parts) < 2 {
		return d.OpenAPI
	}
	return parts[0] + "." + parts[1]
}

// MarshalJSON renders the model with two-space indentation, emitting only
// populated fields.
func MarshalJSON(d *Document) ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapiv3: encoding document: %w", err)
	}
	return out, nil
}

// MarshalYAML renders the document in OpenAPI spelling.
func MarshalYAML(d *Document) ([]byte, error) {
	return node.MarshalYAML(d.ToNode())
}
