package jsonschema

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// draft4Only lists keywords the OpenAPI dialects do not define.
var draft4Only = map[string]bool{
	"$schema":           true,
	"id":                true,
	"additionalItems":   true,
	"definitions":       true,
	"patternProperties": true,
	"dependencies":      true,
}

// supports reports whether the dialect defines the keyword. Unsupported
// keywords are left for the extension registry.
func (d Dialect) supports(keyword string) bool {
	if d == Draft4 {
		return true
	}
	if draft4Only[keyword] {
		return false
	}
	switch keyword {
	case "anyOf", "oneOf", "not":
		return d == OpenAPIv3
	}
	return true
}

// Builder builds schemas for one dialect.
type Builder struct {
	Dialect Dialect
}

// Build builds a schema from the mapping n at the context's current path.
// It returns nil, after reporting, when n is not a mapping or the nesting
// depth is exhausted.
//
// When the context inlines external references and n is a reference to
// another document, the referenced schema is built in its place.
func (b Builder) Build(ctx *compiler.Context, n *node.Node) *Schema {
	if n == nil {
		return nil
	}
	if !n.IsMapping() {
		ctx.ReportAtf(n, "has unexpected value: %s", n.Describe())
		return nil
	}
	if !ctx.CheckDepth(n) {
		return nil
	}
	if ref := n.Lookup("$ref"); ref != nil && ref.Kind == node.String {
		if target, done, ok := ctx.InlineRef(ref, ref.Value); ok {
			defer done()
			return b.Build(ctx, target)
		}
	}

	f := compiler.NewFields(ctx, n)
	s := &Schema{}
	d := b.Dialect

	if d.supports("$schema") {
		s.Schema = f.String("$schema")
		s.ID = f.String("id")
	}
	s.Ref = f.String("$ref")
	s.Title = f.String("title")
	s.Description = f.String("description")
	s.Default = f.Any("default")

	s.MultipleOf = ReadNumber(f, "multipleOf")
	s.Maximum = ReadNumber(f, "maximum")
	s.ExclusiveMaximum = f.BoolPtr("exclusiveMaximum")
	s.Minimum = ReadNumber(f, "minimum")
	s.ExclusiveMinimum = f.BoolPtr("exclusiveMinimum")

	s.MaxLength = f.IntPtr("maxLength")
	s.MinLength = f.IntPtr("minLength")
	s.Pattern = f.String("pattern")

	if d.supports("additionalItems") {
		s.AdditionalItems = b.schemaOrBoolean(ctx, f, "additionalItems")
	}
	s.Items = b.items(ctx, f)
	s.MaxItems = f.IntPtr("maxItems")
	s.MinItems = f.IntPtr("minItems")
	s.UniqueItems = f.BoolPtr("uniqueItems")

	s.MaxProperties = f.IntPtr("maxProperties")
	s.MinProperties = f.IntPtr("minProperties")
	s.Required = f.Strings("required")
	s.AdditionalProperties = b.schemaOrBoolean(ctx, f, "additionalProperties")
	if d.supports("definitions") {
		s.Definitions = b.namedSchemas(ctx, f, "definitions")
	}
	s.Properties = b.namedSchemas(ctx, f, "properties")
	if d.supports("patternProperties") {
		s.PatternProperties = b.namedSchemas(ctx, f, "patternProperties")
	}
	if d.supports("dependencies") {
		s.Dependencies = b.dependencies(ctx, f)
	}

	s.Enum = f.Anys("enum")
	s.Type = b.typeValue(f)
	s.Format = f.String("format")

	s.AllOf = b.schemaList(ctx, f, "allOf")
	if d.supports("anyOf") {
		s.AnyOf = b.schemaList(ctx, f, "anyOf")
		s.OneOf = b.schemaList(ctx, f, "oneOf")
		if v := f.Node("not"); v != nil {
			ctx.Push("not")
			s.Not = b.Build(ctx, v)
			ctx.Pop()
		}
	}

	switch d {
	case OpenAPIv2:
		if name := f.String("discriminator"); name != "" {
			s.Discriminator = &Discriminator{PropertyName: name, Extensions: compiler.Extensions{}}
		}
		s.ReadOnly = f.Bool("readOnly")
		s.XML = buildXML(ctx, f)
		s.ExternalDocs = BuildExternalDocs(ctx, f)
		s.Example = f.Any("example")
	case OpenAPIv3:
		s.Nullable = f.Bool("nullable")
		s.Discriminator = buildDiscriminator(ctx, f)
		s.ReadOnly = f.Bool("readOnly")
		s.WriteOnly = f.Bool("writeOnly")
		s.XML = buildXML(ctx, f)
		s.ExternalDocs = BuildExternalDocs(ctx, f)
		s.Example = f.Any("example")
		s.Deprecated = f.Bool("deprecated")
	}

	s.Extensions = f.Extensions()
	return s
}

// ReadNumber consumes a numeric keyword, keeping integers and floats apart.
// Other values are reported and yield nil.
func ReadNumber(f *compiler.Fields, key string) Number {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	if v.Kind == node.Number {
		if i, ok := v.Int(); ok && v.IsInteger() {
			return Integer(i)
		}
		if fl, ok := v.Float(); ok {
			return Float(fl)
		}
	}
	f.Unexpected(key, v)
	return nil
}

func (b Builder) typeValue(f *compiler.Fields) TypeValue {
	v := f.Peek("type")
	if v == nil {
		return nil
	}
	switch {
	case v.Kind == node.String:
		f.Consume("type")
		return SingleType(v.Value)
	case v.IsSequence() && b.Dialect != OpenAPIv3:
		return MultipleTypes(f.Strings("type"))
	}
	f.Unexpected("type", f.Node("type"))
	return nil
}

func (b Builder) items(ctx *compiler.Context, f *compiler.Fields) Items {
	v := f.Node("items")
	if v == nil {
		return nil
	}
	ctx.Push("items")
	defer ctx.Pop()
	switch {
	case v.IsMapping():
		if s := b.Build(ctx, v); s != nil {
			return s
		}
		return nil
	case v.IsSequence():
		list := SchemaList{}
		compiler.EachItem(ctx, v, func(_ int, item *node.Node) {
			if s := b.Build(ctx, item); s != nil {
				list = append(list, s)
			}
		})
		return list
	}
	ctx.ReportAtf(v, "has unexpected value: %s", v.Describe())
	return nil
}

func (b Builder) schemaOrBoolean(ctx *compiler.Context, f *compiler.Fields, key string) SchemaOrBoolean {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	if flag, ok := v.Bool(); ok {
		return Boolean(flag)
	}
	if !v.IsMapping() {
		f.Unexpected(key, v)
		return nil
	}
	ctx.Push(key)
	defer ctx.Pop()
	if s := b.Build(ctx, v); s != nil {
		return s
	}
	return nil
}

func (b Builder) namedSchemas(ctx *compiler.Context, f *compiler.Fields, key string) NamedSchemas {
	out := NamedSchemas{}
	if !f.EachEntry(key, func(name string, v *node.Node) {
		if s := b.Build(ctx, v); s != nil {
			out = append(out, &NamedSchema{Name: name, Value: s})
		}
	}) {
		return nil
	}
	return out
}

func (b Builder) schemaList(ctx *compiler.Context, f *compiler.Fields, key string) []*Schema {
	out := []*Schema{}
	if !f.EachItem(key, func(_ int, v *node.Node) {
		if s := b.Build(ctx, v); s != nil {
			out = append(out, s)
		}
	}) {
		return nil
	}
	return out
}

func (b Builder) dependencies(ctx *compiler.Context, f *compiler.Fields) []*NamedDependency {
	out := []*NamedDependency{}
	if !f.EachEntry("dependencies", func(name string, v *node.Node) {
		switch {
		case v.IsMapping():
			if s := b.Build(ctx, v); s != nil {
				out = append(out, &NamedDependency{Name: name, Value: s})
			}
		case v.IsSequence():
			names := StringArray{}
			compiler.EachItem(ctx, v, func(_ int, item *node.Node) {
				if s, ok := compiler.StringForScalarNode(item); ok {
					names = append(names, s)
					return
				}
				ctx.ReportAtf(item, "has unexpected value: %s", item.Describe())
			})
			out = append(out, &NamedDependency{Name: name, Value: names})
		default:
			ctx.ReportAtf(v, "has unexpected value: %s", v.Describe())
		}
	}) {
		return nil
	}
	return out
}

func buildDiscriminator(ctx *compiler.Context, f *compiler.Fields) *Discriminator {
	m := f.Mapping("discriminator")
	if m == nil {
		return nil
	}
	ctx.Push("discriminator")
	defer ctx.Pop()
	df := compiler.NewFields(ctx, m)
	df.Require("propertyName")
	return &Discriminator{
		PropertyName: df.String("propertyName"),
		Mapping:      df.StringMap("mapping"),
		Extensions:   df.Extensions(),
	}
}

func buildXML(ctx *compiler.Context, f *compiler.Fields) *XML {
	m := f.Mapping("xml")
	if m == nil {
		return nil
	}
	ctx.Push("xml")
	defer ctx.Pop()
	xf := compiler.NewFields(ctx, m)
	return &XML{
		Name:       xf.String("name"),
		Namespace:  xf.String("namespace"),
		Prefix:     xf.String("prefix"),
		Attribute:  xf.Bool("attribute"),
		Wrapped:    xf.Bool("wrapped"),
		Extensions: xf.Extensions(),
	}
}

// BuildExternalDocs consumes the externalDocs field of the record being read.
func BuildExternalDocs(ctx *compiler.Context, f *compiler.Fields) *ExternalDocs {
	m := f.Mapping("externalDocs")
	if m == nil {
		return nil
	}
	ctx.Push("externalDocs")
	defer ctx.Pop()
	ef := compiler.NewFields(ctx, m)
	ef.Require("url")
	return &ExternalDocs{
		Description: ef.String("description"),
		URL:         ef.String("url"),
		Extensions:  ef.Extensions(),
	}
}
