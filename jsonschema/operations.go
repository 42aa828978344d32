package jsonschema

import (
	"github.com/erraggy/oascompiler/compiler"
)

// IsEmpty reports whether the schema carries none of the identifying or
// structural keywords, so that it accepts any instance.
func (s *Schema) IsEmpty() bool {
	return s == nil || (s.Schema == "" &&
		s.ID == "" &&
		s.Ref == "" &&
		s.Title == "" &&
		s.Description == "" &&
		s.Type == nil &&
		s.Properties == nil &&
		s.Required == nil &&
		s.Items == nil &&
		s.AllOf == nil &&
		s.AnyOf == nil &&
		s.OneOf == nil &&
		s.Not == nil)
}

// TypeName returns the schema's type, or the first entry of a type list.
// The second result is false when the type is unconstrained.
func (s *Schema) TypeName() (string, bool) {
	if s == nil {
		return "", false
	}
	switch t := s.Type.(type) {
	case SingleType:
		return string(t), true
	case MultipleTypes:
		if len(t) > 0 {
			return t[0], true
		}
	}
	return "", false
}

// Parse builds a stand-alone Draft-4 schema document from YAML or JSON
// bytes. Undecodable input and a root that is not a mapping are returned
// as *oaserrors.ParseError; structural problems are returned as
// diagnostics alongside the schema.
func Parse(data []byte, opts ...compiler.Option) (*Schema, []compiler.Diagnostic, error) {
	root, err := compiler.Decode(data, "schema")
	if err != nil {
		return nil, nil, err
	}
	if err := compiler.CheckRoot(root, "schema"); err != nil {
		return nil, nil, err
	}
	ctx := compiler.NewContext(opts...)
	s := Builder{Dialect: Draft4}.Build(ctx, root)
	return s, ctx.Diagnostics(), nil
}
