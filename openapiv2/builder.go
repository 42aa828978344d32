package openapiv2

import (
	"strings"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/httputil"
	"github.com/erraggy/oascompiler/jsonschema"
	"github.com/erraggy/oascompiler/node"
)

const documentKind = "OpenAPI v2 document"

var methods = httputil.OpenAPIv2Methods

// Build builds a document from root. A root that is not a mapping is
// returned as *oaserrors.ParseError; every other problem is reported to ctx.
func Build(ctx *compiler.Context, root *node.Node) (*Document, error) {
	if err := compiler.CheckRoot(root, documentKind); err != nil {
		return nil, err
	}
	b := &builder{ctx: ctx, schemas: jsonschema.Builder{Dialect: jsonschema.OpenAPIv2}}
	return b.document(root), nil
}

type builder struct {
	ctx     *compiler.Context
	schemas jsonschema.Builder
}

func (b *builder) fields(n *node.Node) *compiler.Fields {
	return compiler.NewFields(b.ctx, n)
}

func record[T any](b *builder, f *compiler.Fields, key string, build func(*node.Node) T) T {
	var zero T
	m := f.Mapping(key)
	if m == nil {
		return zero
	}
	b.ctx.Push(key)
	defer b.ctx.Pop()
	return build(m)
}

func (b *builder) mapping(n *node.Node) bool {
	if n.IsMapping() {
		return true
	}
	b.ctx.ReportAtf(n, "has unexpected value: %s", n.Describe())
	return false
}

func (b *builder) document(n *node.Node) *Document {
	f := b.fields(n)
	f.Require("swagger", "info", "paths")
	d := &Document{
		Swagger:  f.String("swagger"),
		Info:     record(b, f, "info", b.info),
		Host:     f.String("host"),
		BasePath: f.String("basePath"),
		Schemes:  f.Strings("schemes"),
		Consumes: f.Strings("consumes"),
		Produces: f.Strings("produces"),
	}
	d.Paths = record(b, f, "paths", b.paths)
	d.Definitions = compiler.MapOf(f, "definitions", b.namedSchema)
	d.Parameters = compiler.MapOf(f, "parameters", func(_ string, v *node.Node) (Parameter, bool) {
		return b.parameter(v)
	})
	d.Responses = compiler.MapOf(f, "responses", func(_ string, v *node.Node) (*Response, bool) {
		if !b.mapping(v) {
			return nil, false
		}
		return b.response(v), true
	})
	d.Security = b.securityRequirements(f)
	d.SecurityDefinitions = compiler.MapOf(f, "securityDefinitions", b.securityDefinition)
	d.Tags = compiler.ListOf(f, "tags", b.tag)
	d.ExternalDocs = jsonschema.BuildExternalDocs(b.ctx, f)
	d.Extensions = f.Extensions()
	return d
}

func (b *builder) info(n *node.Node) *Info {
	f := b.fields(n)
	f.Require("title", "version")
	i := &Info{
		Title:          f.String("title"),
		Version:        f.String("version"),
		Description:    f.String("description"),
		TermsOfService: f.String("termsOfService"),
	}
	i.Contact = record(b, f, "contact", func(n *node.Node) *Contact {
		f := b.fields(n)
		return &Contact{Name: f.String("name"), URL: f.String("url"), Email: f.String("email"), Extensions: f.Extensions()}
	})
	i.License = record(b, f, "license", func(n *node.Node) *License {
		f := b.fields(n)
		f.Require("name")
		return &License{Name: f.String("name"), URL: f.String("url"), Extensions: f.Extensions()}
	})
	i.Extensions = f.Extensions()
	return i
}

func (b *builder) paths(n *node.Node) *Paths {
	f := b.fields(n)
	p := &Paths{Path: []*Named[*PathItem]{}}
	f.Patterned(func(key string) bool { return strings.HasPrefix(key, "/") }, func(name string, v *node.Node) {
		if item, ok := b.pathItem(v); ok {
			p.Path = append(p.Path, &Named[*PathItem]{Name: name, Value: item})
		}
	})
	p.Extensions = f.Extensions()
	return p
}

func (b *builder) pathItem(n *node.Node) (*PathItem, bool) {
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return nil, false
	}
	f := b.fields(n)
	p := &PathItem{Ref: f.String("$ref")}
	ops := []**Operation{&p.Get, &p.Put, &p.Post, &p.Delete, &p.Options, &p.Head, &p.Patch}
	for i, method := range methods {
		*ops[i] = record(b, f, method, b.operation)
	}
	p.Parameters = compiler.ListOf(f, "parameters", b.parameter)
	p.Extensions = f.Extensions()
	return p, true
}

func (b *builder) operation(n *node.Node) *Operation {
	f := b.fields(n)
	f.Require("responses")
	return &Operation{
		Tags:         f.Strings("tags"),
		Summary:      f.String("summary"),
		Description:  f.String("description"),
		ExternalDocs: jsonschema.BuildExternalDocs(b.ctx, f),
		OperationID:  f.String("operationId"),
		Produces:     f.Strings("produces"),
		Consumes:     f.Strings("consumes"),
		Parameters:   compiler.ListOf(f, "parameters", b.parameter),
		Responses:    record(b, f, "responses", b.responses),
		Schemes:      f.Strings("schemes"),
		Deprecated:   f.Bool("deprecated"),
		Security:     b.securityRequirements(f),
		Extensions:   f.Extensions(),
	}
}

// inline follows an external $ref in n when the context inlines references.
// It returns the target to build and a func restoring the context.
func (b *builder) inline(n *node.Node) (*node.Node, func(), bool) {
	ref := n.Lookup("$ref")
	if ref == nil || ref.Kind != node.String {
		return nil, nil, false
	}
	return b.ctx.InlineRef(ref, ref.Value)
}

func (b *builder) jsonReference(n *node.Node) *JSONReference {
	f := b.fields(n)
	r := &JSONReference{Ref: f.String("$ref"), Description: f.String("description")}
	f.Ignore()
	return r
}

// parameter dispatches on $ref and then on in. An unknown or missing in is
// reported and the parameter is built as formData, which accepts every
// non-body field.
func (b *builder) parameter(n *node.Node) (Parameter, bool) {
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return nil, false
	}
	if n.Lookup("$ref") != nil {
		if target, done, ok := b.inline(n); ok {
			defer done()
			return b.parameter(target)
		}
		return b.jsonReference(n), true
	}
	f := b.fields(n)
	f.Require("name", "in")
	in := ""
	if v := f.Node("in"); v != nil {
		in, _ = compiler.StringForScalarNode(v)
		switch in {
		case "body", "header", "formData", "query", "path":
		default:
			f.Unexpected("in", v)
		}
	}
	switch in {
	case "body":
		f.Require("schema")
		return &BodyParameter{
			Description: f.String("description"),
			Name:        f.String("name"),
			Required:    f.Bool("required"),
			Schema:      b.schema(f, "schema"),
			Extensions:  f.Extensions(),
		}, true
	case "header":
		p := &HeaderParameter{Required: f.Bool("required"), Description: f.String("description"), Name: f.String("name")}
		p.Primitive = b.primitive(f, true)
		p.Extensions = f.Extensions()
		return p, true
	case "query":
		p := &QueryParameter{Required: f.Bool("required"), Description: f.String("description"), Name: f.String("name")}
		p.AllowEmptyValue = f.Bool("allowEmptyValue")
		p.Primitive = b.primitive(f, true)
		p.Extensions = f.Extensions()
		return p, true
	case "path":
		f.Require("required")
		p := &PathParameter{Required: f.Bool("required"), Description: f.String("description"), Name: f.String("name")}
		p.Primitive = b.primitive(f, true)
		p.Extensions = f.Extensions()
		return p, true
	default:
		p := &FormDataParameter{Required: f.Bool("required"), Description: f.String("description"), Name: f.String("name")}
		p.AllowEmptyValue = f.Bool("allowEmptyValue")
		p.Primitive = b.primitive(f, true)
		p.Extensions = f.Extensions()
		return p, true
	}
}

// primitive reads the keywords shared by non-body parameters, headers and
// items. Type is required everywhere it appears.
func (b *builder) primitive(f *compiler.Fields, required bool) Primitive {
	if required {
		f.Require("type")
	}
	p := Primitive{
		Type:   f.String("type"),
		Format: f.String("format"),
	}
	p.Items = record(b, f, "items", b.primitivesItems)
	p.CollectionFormat = f.String("collectionFormat")
	p.Default = f.Any("default")
	p.Maximum = jsonschema.ReadNumber(f, "maximum")
	p.ExclusiveMaximum = f.Bool("exclusiveMaximum")
	p.Minimum = jsonschema.ReadNumber(f, "minimum")
	p.ExclusiveMinimum = f.Bool("exclusiveMinimum")
	p.MaxLength = f.IntPtr("maxLength")
	p.MinLength = f.IntPtr("minLength")
	p.Pattern = f.String("pattern")
	p.MaxItems = f.IntPtr("maxItems")
	p.MinItems = f.IntPtr("minItems")
	p.UniqueItems = f.Bool("uniqueItems")
	p.Enum = f.Anys("enum")
	p.MultipleOf = jsonschema.ReadNumber(f, "multipleOf")
	return p
}

func (b *builder) primitivesItems(n *node.Node) *PrimitivesItems {
	if !b.ctx.CheckDepth(n) {
		return nil
	}
	f := b.fields(n)
	return &PrimitivesItems{Primitive: b.primitive(f, false), Extensions: f.Extensions()}
}

func (b *builder) schema(f *compiler.Fields, key string) *jsonschema.Schema {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	b.ctx.Push(key)
	defer b.ctx.Pop()
	return b.schemas.Build(b.ctx, v)
}

func (b *builder) namedSchema(_ string, n *node.Node) (*jsonschema.Schema, bool) {
	s := b.schemas.Build(b.ctx, n)
	return s, s != nil
}

func (b *builder) responses(n *node.Node) *Responses {
	f := b.fields(n)
	r := &Responses{ResponseCode: []*Named[ResponseValue]{}}
	f.Patterned(func(key string) bool { return key == "default" || httputil.IsStatusCode(key) }, func(code string, v *node.Node) {
		if resp, ok := b.responseValue(v); ok {
			r.ResponseCode = append(r.ResponseCode, &Named[ResponseValue]{Name: code, Value: resp})
		}
	})
	r.Extensions = f.Extensions()
	return r
}

func (b *builder) responseValue(n *node.Node) (ResponseValue, bool) {
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return nil, false
	}
	if n.Lookup("$ref") != nil {
		if target, done, ok := b.inline(n); ok {
			defer done()
			return b.responseValue(target)
		}
		return b.jsonReference(n), true
	}
	return b.response(n), true
}

func (b *builder) response(n *node.Node) *Response {
	f := b.fields(n)
	f.Require("description")
	r := &Response{
		Description: f.String("description"),
		Schema:      b.schema(f, "schema"),
		Headers: compiler.MapOf(f, "headers", func(_ string, v *node.Node) (*Header, bool) {
			if !b.mapping(v) {
				return nil, false
			}
			hf := b.fields(v)
			h := &Header{Primitive: b.primitive(hf, true), Description: hf.String("description")}
			h.Extensions = hf.Extensions()
			return h, true
		}),
	}
	if m := f.Mapping("examples"); m != nil {
		r.Examples = make([]*compiler.NamedAny, 0, m.Len())
		for i, mime := range m.Keys {
			r.Examples = append(r.Examples, &compiler.NamedAny{Name: mime, Value: compiler.RawAny(m.Items[i])})
		}
	}
	r.Extensions = f.Extensions()
	return r
}

// securityDefinition dispatches on type and, for oauth2, on flow. Unknown
// values are reported and fall back to the access code flow, which carries
// every oauth2 field.
func (b *builder) securityDefinition(_ string, n *node.Node) (SecurityDefinition, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	f.Require("type")
	kind := b.discriminator(f, "type", "basic", "apiKey", "oauth2")
	switch kind {
	case "basic":
		return &BasicAuthenticationSecurity{Description: f.String("description"), Extensions: f.Extensions()}, true
	case "apiKey":
		f.Require("name", "in")
		s := &APIKeySecurity{Name: f.String("name")}
		if v := f.Node("in"); v != nil {
			s.In, _ = compiler.StringForScalarNode(v)
			if s.In != "header" && s.In != "query" {
				f.Unexpected("in", v)
			}
		}
		s.Description = f.String("description")
		s.Extensions = f.Extensions()
		return s, true
	}
	if kind == "oauth2" {
		f.Require("flow", "scopes")
	}
	flow := b.discriminator(f, "flow", "implicit", "password", "application", "accessCode")
	switch flow {
	case "implicit":
		f.Require("authorizationUrl")
		return &OAuth2ImplicitSecurity{
			Scopes:           f.StringMap("scopes"),
			AuthorizationURL: f.String("authorizationUrl"),
			Description:      f.String("description"),
			Extensions:       f.Extensions(),
		}, true
	case "password":
		f.Require("tokenUrl")
		return &OAuth2PasswordSecurity{
			Scopes:      f.StringMap("scopes"),
			TokenURL:    f.String("tokenUrl"),
			Description: f.String("description"),
			Extensions:  f.Extensions(),
		}, true
	case "application":
		f.Require("tokenUrl")
		return &OAuth2ApplicationSecurity{
			Scopes:      f.StringMap("scopes"),
			TokenURL:    f.String("tokenUrl"),
			Description: f.String("description"),
			Extensions:  f.Extensions(),
		}, true
	}
	return &OAuth2AccessCodeSecurity{
		Scopes:           f.StringMap("scopes"),
		AuthorizationURL: f.String("authorizationUrl"),
		TokenURL:         f.String("tokenUrl"),
		Description:      f.String("description"),
		Extensions:       f.Extensions(),
	}, true
}

// discriminator consumes key and returns its value when it is one of
// allowed. Other values are reported and yield "".
func (b *builder) discriminator(f *compiler.Fields, key string, allowed ...string) string {
	v := f.Node(key)
	if v == nil {
		return ""
	}
	if s, ok := compiler.StringForScalarNode(v); ok && compiler.StringArrayContainsValues(allowed, s) {
		return s
	}
	f.Unexpected(key, v)
	return ""
}

func (b *builder) securityRequirements(f *compiler.Fields) []*SecurityRequirement {
	return compiler.ListOf(f, "security", func(n *node.Node) (*SecurityRequirement, bool) {
		if !b.mapping(n) {
			return nil, false
		}
		r := &SecurityRequirement{AdditionalProperties: []*Named[[]string]{}}
		compiler.EachEntry(b.ctx, n, func(name string, v *node.Node) {
			if !v.IsSequence() {
				b.ctx.ReportAtf(v, "has unexpected value: %s", v.Describe())
				return
			}
			r.AdditionalProperties = append(r.AdditionalProperties,
				&Named[[]string]{Name: name, Value: compiler.StringArrayForSequenceNode(v)})
		})
		return r, true
	})
}

func (b *builder) tag(n *node.Node) (*Tag, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	f.Require("name")
	return &Tag{
		Name:         f.String("name"),
		Description:  f.String("description"),
		ExternalDocs: jsonschema.BuildExternalDocs(b.ctx, f),
		Extensions:   f.Extensions(),
	}, true
}
