package jsonschema

import (
	"strconv"
	"strings"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// ToNode renders the schema back into an untyped mapping using the keyword
// spelling of dialect d. Building the result with the same dialect yields an
// equal schema.
func (s *Schema) ToNode(d Dialect) *node.Node {
	if s == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "$schema", s.Schema)
	compiler.PutString(m, "id", s.ID)
	compiler.PutString(m, "$ref", s.Ref)
	compiler.PutString(m, "title", s.Title)
	compiler.PutString(m, "description", s.Description)
	compiler.PutAny(m, "default", s.Default)

	PutNumber(m, "multipleOf", s.MultipleOf)
	PutNumber(m, "maximum", s.Maximum)
	compiler.PutBoolPtr(m, "exclusiveMaximum", s.ExclusiveMaximum)
	PutNumber(m, "minimum", s.Minimum)
	compiler.PutBoolPtr(m, "exclusiveMinimum", s.ExclusiveMinimum)

	compiler.PutIntPtr(m, "maxLength", s.MaxLength)
	compiler.PutIntPtr(m, "minLength", s.MinLength)
	compiler.PutString(m, "pattern", s.Pattern)

	putSchemaOrBoolean(m, "additionalItems", s.AdditionalItems, d)
	switch items := s.Items.(type) {
	case *Schema:
		m.Set("items", items.ToNode(d))
	case SchemaList:
		m.Set("items", schemaSequence(items, d))
	}
	compiler.PutIntPtr(m, "maxItems", s.MaxItems)
	compiler.PutIntPtr(m, "minItems", s.MinItems)
	compiler.PutBoolPtr(m, "uniqueItems", s.UniqueItems)

	compiler.PutIntPtr(m, "maxProperties", s.MaxProperties)
	compiler.PutIntPtr(m, "minProperties", s.MinProperties)
	if s.Required != nil {
		m.Set("required", node.NewStrings(s.Required))
	}
	putSchemaOrBoolean(m, "additionalProperties", s.AdditionalProperties, d)
	putNamedSchemas(m, "definitions", s.Definitions, d)
	putNamedSchemas(m, "properties", s.Properties, d)
	putNamedSchemas(m, "patternProperties", s.PatternProperties, d)
	if s.Dependencies != nil {
		deps := node.NewMapping()
		for _, dep := range s.Dependencies {
			switch v := dep.Value.(type) {
			case *Schema:
				deps.Set(dep.Name, v.ToNode(d))
			case StringArray:
				deps.Set(dep.Name, node.NewStrings(v))
			}
		}
		m.Set("dependencies", deps)
	}

	compiler.PutAnys(m, "enum", s.Enum)
	switch t := s.Type.(type) {
	case SingleType:
		m.Set("type", node.NewString(string(t)))
	case MultipleTypes:
		m.Set("type", node.NewStrings(t))
	}
	compiler.PutString(m, "format", s.Format)

	putSchemaList(m, "allOf", s.AllOf, d)
	putSchemaList(m, "anyOf", s.AnyOf, d)
	putSchemaList(m, "oneOf", s.OneOf, d)
	if s.Not != nil {
		m.Set("not", s.Not.ToNode(d))
	}

	compiler.PutBool(m, "nullable", s.Nullable)
	if s.Discriminator != nil {
		if d == OpenAPIv2 {
			compiler.PutString(m, "discriminator", s.Discriminator.PropertyName)
		} else {
			dm := node.NewMapping()
			compiler.PutString(dm, "propertyName", s.Discriminator.PropertyName)
			compiler.PutStringMap(dm, "mapping", s.Discriminator.Mapping)
			s.Discriminator.Extensions.WriteTo(dm)
			m.Set("discriminator", dm)
		}
	}
	compiler.PutBool(m, "readOnly", s.ReadOnly)
	compiler.PutBool(m, "writeOnly", s.WriteOnly)
	if s.XML != nil {
		xm := node.NewMapping()
		compiler.PutString(xm, "name", s.XML.Name)
		compiler.PutString(xm, "namespace", s.XML.Namespace)
		compiler.PutString(xm, "prefix", s.XML.Prefix)
		compiler.PutBool(xm, "attribute", s.XML.Attribute)
		compiler.PutBool(xm, "wrapped", s.XML.Wrapped)
		s.XML.Extensions.WriteTo(xm)
		m.Set("xml", xm)
	}
	compiler.PutNode(m, "externalDocs", s.ExternalDocs.ToNode())
	compiler.PutAny(m, "example", s.Example)
	compiler.PutBool(m, "deprecated", s.Deprecated)

	s.Extensions.WriteTo(m)
	return m
}

// ToNode renders the external documentation object.
func (e *ExternalDocs) ToNode() *node.Node {
	if e == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "description", e.Description)
	compiler.PutString(m, "url", e.URL)
	e.Extensions.WriteTo(m)
	return m
}

// PutNumber writes a numeric keyword. Integral floats keep a fraction so
// that they read back as floats.
func PutNumber(m *node.Node, key string, n Number) {
	switch v := n.(type) {
	case Integer:
		m.Set(key, node.NewInt(int64(v)))
	case Float:
		m.Set(key, &node.Node{Kind: node.Number, Value: formatFloat(float64(v))})
	}
}

// formatFloat keeps a fraction on integral floats so that they read back as
// floats.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func putSchemaOrBoolean(m *node.Node, key string, v SchemaOrBoolean, d Dialect) {
	switch v := v.(type) {
	case Boolean:
		m.Set(key, node.NewBool(bool(v)))
	case *Schema:
		m.Set(key, v.ToNode(d))
	}
}

func putNamedSchemas(m *node.Node, key string, ns NamedSchemas, d Dialect) {
	if ns == nil {
		return
	}
	out := node.NewMapping()
	for _, n := range ns {
		out.Set(n.Name, n.Value.ToNode(d))
	}
	m.Set(key, out)
}

func putSchemaList(m *node.Node, key string, list []*Schema, d Dialect) {
	if list != nil {
		m.Set(key, schemaSequence(list, d))
	}
}

func schemaSequence(list []*Schema, d Dialect) *node.Node {
	out := node.NewSequence()
	for _, s := range list {
		out.Append(s.ToNode(d))
	}
	return out
}
