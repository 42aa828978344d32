package openapiv3

import (
	"strings"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/httputil"
	"github.com/erraggy/oascompiler/jsonschema"
	"github.com/erraggy/oascompiler/node"
)

const documentKind = "OpenAPI v3 document"

var methods = httputil.OpenAPIv3Methods

// Build builds a document from root. A root that is not a mapping is
// returned as *oaserrors.ParseError; every other problem is reported to ctx
// and the affected field keeps its zero value.
func Build(ctx *compiler.Context, root *node.Node) (*Document, error) {
	if err := compiler.CheckRoot(root, documentKind); err != nil {
		return nil, err
	}
	b := &builder{ctx: ctx, schemas: jsonschema.Builder{Dialect: jsonschema.OpenAPIv3}}
	return b.document(root), nil
}

type builder struct {
	ctx     *compiler.Context
	schemas jsonschema.Builder
}

func (b *builder) fields(n *node.Node) *compiler.Fields {
	return compiler.NewFields(b.ctx, n)
}

// record pushes key, builds the mapping under it and pops.
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

// mapping reports n when it is not a mapping.
func (b *builder) mapping(n *node.Node) bool {
	if n.IsMapping() {
		return true
	}
	b.ctx.ReportAtf(n, "has unexpected value: %s", n.Describe())
	return false
}

func (b *builder) document(n *node.Node) *Document {
	f := b.fields(n)
	f.Require("openapi", "info", "paths")
	d := &Document{}
	d.OpenAPI = f.String("openapi")
	d.Info = record(b, f, "info", b.info)
	d.Servers = b.servers(f)
	d.Paths = record(b, f, "paths", b.paths)
	d.Components = record(b, f, "components", b.components)
	d.Security = b.securityRequirements(f)
	d.Tags = compiler.ListOf(f, "tags", b.tag)
	d.ExternalDocs = jsonschema.BuildExternalDocs(b.ctx, f)
	d.Extensions = f.Extensions()
	return d
}

func (b *builder) info(n *node.Node) *Info {
	f := b.fields(n)
	f.Require("title", "version")
	return &Info{
		Title:          f.String("title"),
		Description:    f.String("description"),
		TermsOfService: f.String("termsOfService"),
		Contact:        record(b, f, "contact", b.contact),
		License:        record(b, f, "license", b.license),
		Version:        f.String("version"),
		Extensions:     f.Extensions(),
	}
}

func (b *builder) contact(n *node.Node) *Contact {
	f := b.fields(n)
	return &Contact{
		Name:       f.String("name"),
		URL:        f.String("url"),
		Email:      f.String("email"),
		Extensions: f.Extensions(),
	}
}

func (b *builder) license(n *node.Node) *License {
	f := b.fields(n)
	f.Require("name")
	return &License{
		Name:       f.String("name"),
		URL:        f.String("url"),
		Extensions: f.Extensions(),
	}
}

func (b *builder) servers(f *compiler.Fields) []*Server {
	return compiler.ListOf(f, "servers", b.server)
}

func (b *builder) server(n *node.Node) (*Server, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	f.Require("url")
	return &Server{
		URL:         f.String("url"),
		Description: f.String("description"),
		Variables:   compiler.MapOf(f, "variables", b.serverVariable),
		Extensions:  f.Extensions(),
	}, true
}

func (b *builder) serverVariable(_ string, n *node.Node) (*ServerVariable, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	f.Require("default")
	return &ServerVariable{
		Enum:        f.Strings("enum"),
		Default:     f.String("default"),
		Description: f.String("description"),
		Extensions:  f.Extensions(),
	}, true
}

func (b *builder) paths(n *node.Node) *Paths {
	f := b.fields(n)
	p := &Paths{Path: []*Named[*PathItem]{}}
	f.Patterned(isPathTemplate, func(name string, v *node.Node) {
		if item, ok := b.pathItem(name, v); ok {
			p.Path = append(p.Path, &Named[*PathItem]{Name: name, Value: item})
		}
	})
	p.Extensions = f.Extensions()
	return p
}

func isPathTemplate(key string) bool { return strings.HasPrefix(key, "/") }

func (b *builder) pathItem(_ string, n *node.Node) (*PathItem, bool) {
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return nil, false
	}
	f := b.fields(n)
	p := &PathItem{
		Ref:         f.String("$ref"),
		Summary:     f.String("summary"),
		Description: f.String("description"),
	}
	ops := []**Operation{&p.Get, &p.Put, &p.Post, &p.Delete, &p.Options, &p.Head, &p.Patch, &p.Trace}
	for i, method := range methods {
		*ops[i] = record(b, f, method, b.operation)
	}
	p.Servers = b.servers(f)
	p.Parameters = compiler.ListOf(f, "parameters", b.parameterOrReference)
	p.Extensions = f.Extensions()
	return p, true
}

func (b *builder) operation(n *node.Node) *Operation {
	f := b.fields(n)
	f.Require("responses")
	op := &Operation{
		Tags:         f.Strings("tags"),
		Summary:      f.String("summary"),
		Description:  f.String("description"),
		ExternalDocs: jsonschema.BuildExternalDocs(b.ctx, f),
		OperationID:  f.String("operationId"),
		Parameters:   compiler.ListOf(f, "parameters", b.parameterOrReference),
	}
	if v := f.Node("requestBody"); v != nil {
		b.ctx.Push("requestBody")
		op.RequestBody, _ = b.requestBodyOrReference(v)
		b.ctx.Pop()
	}
	op.Responses = record(b, f, "responses", b.responses)
	op.Callbacks = compiler.MapOf(f, "callbacks", b.callbackOrReference)
	op.Deprecated = f.Bool("deprecated")
	op.Security = b.securityRequirements(f)
	op.Servers = b.servers(f)
	op.Extensions = f.Extensions()
	return op
}

// location resolves the in discriminator of a parameter. Unknown values
// are reported and fall back to query.
func (b *builder) location(f *compiler.Fields) ParameterLocation {
	v := f.Node("in")
	if v == nil {
		return InQuery
	}
	if s, ok := compiler.StringForScalarNode(v); ok {
		switch in := ParameterLocation(s); in {
		case InQuery, InHeader, InPath, InCookie:
			return in
		}
	}
	f.Unexpected("in", v)
	return InQuery
}

func (b *builder) parameter(n *node.Node) *Parameter {
	f := b.fields(n)
	f.Require("name", "in")
	p := &Parameter{
		Name:            f.String("name"),
		In:              b.location(f),
		Description:     f.String("description"),
		Required:        f.Bool("required"),
		Deprecated:      f.Bool("deprecated"),
		AllowEmptyValue: f.Bool("allowEmptyValue"),
		Style:           f.String("style"),
		Explode:         f.Bool("explode"),
		AllowReserved:   f.Bool("allowReserved"),
		Schema:          b.schema(f, "schema"),
		Example:         f.Any("example"),
		Examples:        compiler.MapOf(f, "examples", b.exampleOrReference),
		Content:         compiler.MapOf(f, "content", b.mediaType),
	}
	p.Extensions = f.Extensions()
	return p
}

func (b *builder) header(n *node.Node) *Header {
	f := b.fields(n)
	return &Header{
		Description:     f.String("description"),
		Required:        f.Bool("required"),
		Deprecated:      f.Bool("deprecated"),
		AllowEmptyValue: f.Bool("allowEmptyValue"),
		Style:           f.String("style"),
		Explode:         f.Bool("explode"),
		AllowReserved:   f.Bool("allowReserved"),
		Schema:          b.schema(f, "schema"),
		Example:         f.Any("example"),
		Examples:        compiler.MapOf(f, "examples", b.exampleOrReference),
		Content:         compiler.MapOf(f, "content", b.mediaType),
		Extensions:      f.Extensions(),
	}
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

func (b *builder) requestBody(n *node.Node) *RequestBody {
	f := b.fields(n)
	f.Require("content")
	return &RequestBody{
		Description: f.String("description"),
		Content:     compiler.MapOf(f, "content", b.mediaType),
		Required:    f.Bool("required"),
		Extensions:  f.Extensions(),
	}
}

func (b *builder) mediaType(_ string, n *node.Node) (*MediaType, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	return &MediaType{
		Schema:     b.schema(f, "schema"),
		Example:    f.Any("example"),
		Examples:   compiler.MapOf(f, "examples", b.exampleOrReference),
		Encoding:   compiler.MapOf(f, "encoding", b.encoding),
		Extensions: f.Extensions(),
	}, true
}

func (b *builder) encoding(_ string, n *node.Node) (*Encoding, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	return &Encoding{
		ContentType:   f.String("contentType"),
		Headers:       compiler.MapOf(f, "headers", b.headerOrReference),
		Style:         f.String("style"),
		Explode:       f.Bool("explode"),
		AllowReserved: f.Bool("allowReserved"),
		Extensions:    f.Extensions(),
	}, true
}

// isResponseCode accepts status codes such as "200" and ranges such as
// "2XX".
func isResponseCode(key string) bool {
	if httputil.IsStatusRange(key) {
		return true
	}
	return httputil.IsStatusCode(key) && key[0] >= '1' && key[0] <= '5'
}

func (b *builder) responses(n *node.Node) *Responses {
	f := b.fields(n)
	r := &Responses{ResponseOrReference: []*Named[ResponseOrReference]{}}
	if v := f.Node("default"); v != nil {
		b.ctx.Push("default")
		r.Default, _ = b.responseOrReference(v)
		b.ctx.Pop()
	}
	f.Patterned(isResponseCode, func(code string, v *node.Node) {
		if resp, ok := b.responseOrReference(v); ok {
			r.ResponseOrReference = append(r.ResponseOrReference, &Named[ResponseOrReference]{Name: code, Value: resp})
		}
	})
	r.Extensions = f.Extensions()
	return r
}

func (b *builder) response(n *node.Node) *Response {
	f := b.fields(n)
	f.Require("description")
	return &Response{
		Description: f.String("description"),
		Headers:     compiler.MapOf(f, "headers", b.headerOrReference),
		Content:     compiler.MapOf(f, "content", b.mediaType),
		Links:       compiler.MapOf(f, "links", b.linkOrReference),
		Extensions:  f.Extensions(),
	}
}

func (b *builder) callback(n *node.Node) *Callback {
	f := b.fields(n)
	c := &Callback{Path: []*Named[*PathItem]{}}
	f.Patterned(func(key string) bool { return !strings.HasPrefix(key, compiler.ExtensionPrefix) },
		func(expr string, v *node.Node) {
			if item, ok := b.pathItem(expr, v); ok {
				c.Path = append(c.Path, &Named[*PathItem]{Name: expr, Value: item})
			}
		})
	c.Extensions = f.Extensions()
	return c
}

func (b *builder) example(n *node.Node) *Example {
	f := b.fields(n)
	return &Example{
		Summary:       f.String("summary"),
		Description:   f.String("description"),
		Value:         f.Any("value"),
		ExternalValue: f.String("externalValue"),
		Extensions:    f.Extensions(),
	}
}

func (b *builder) link(n *node.Node) *Link {
	f := b.fields(n)
	l := &Link{
		OperationRef: f.String("operationRef"),
		OperationID:  f.String("operationId"),
	}
	if m := f.Mapping("parameters"); m != nil {
		l.Parameters = make([]*compiler.NamedAny, 0, m.Len())
		for i, k := range m.Keys {
			l.Parameters = append(l.Parameters, &compiler.NamedAny{Name: k, Value: compiler.RawAny(m.Items[i])})
		}
	}
	l.RequestBody = f.Any("requestBody")
	l.Description = f.String("description")
	l.Server = record(b, f, "server", func(n *node.Node) *Server {
		s, _ := b.server(n)
		return s
	})
	l.Extensions = f.Extensions()
	return l
}

func (b *builder) components(n *node.Node) *Components {
	f := b.fields(n)
	return &Components{
		Schemas:         compiler.MapOf(f, "schemas", b.namedSchema),
		Responses:       compiler.MapOf(f, "responses", b.namedResponseOrReference),
		Parameters:      compiler.MapOf(f, "parameters", b.namedParameterOrReference),
		Examples:        compiler.MapOf(f, "examples", b.exampleOrReference),
		RequestBodies:   compiler.MapOf(f, "requestBodies", b.namedRequestBodyOrReference),
		Headers:         compiler.MapOf(f, "headers", b.headerOrReference),
		SecuritySchemes: compiler.MapOf(f, "securitySchemes", b.securitySchemeOrReference),
		Links:           compiler.MapOf(f, "links", b.linkOrReference),
		Callbacks:       compiler.MapOf(f, "callbacks", b.callbackOrReference),
		Extensions:      f.Extensions(),
	}
}

// schemeType resolves the type discriminator of a security scheme. Unknown
// values are reported and kept as written so that no field is lost.
func (b *builder) schemeType(f *compiler.Fields) SecuritySchemeType {
	v := f.Node("type")
	if v == nil {
		return ""
	}
	s, _ := compiler.StringForScalarNode(v)
	t := SecuritySchemeType(s)
	switch t {
	case SchemeAPIKey, SchemeHTTP, SchemeOAuth2, SchemeOpenIDConnect:
	default:
		f.Unexpected("type", v)
	}
	return t
}

func (b *builder) securityScheme(n *node.Node) *SecurityScheme {
	f := b.fields(n)
	f.Require("type")
	s := &SecurityScheme{
		Type:        b.schemeType(f),
		Description: f.String("description"),
	}
	s.Name = f.String("name")
	s.In = f.String("in")
	s.Scheme = f.String("scheme")
	s.BearerFormat = f.String("bearerFormat")
	s.Flows = record(b, f, "flows", b.oauthFlows)
	s.OpenIDConnectURL = f.String("openIdConnectUrl")
	switch s.Type {
	case SchemeAPIKey:
		f.Require("name", "in")
	case SchemeHTTP:
		f.Require("scheme")
	case SchemeOAuth2:
		f.Require("flows")
	case SchemeOpenIDConnect:
		f.Require("openIdConnectUrl")
	}
	s.Extensions = f.Extensions()
	return s
}

func (b *builder) oauthFlows(n *node.Node) *OAuthFlows {
	f := b.fields(n)
	return &OAuthFlows{
		Implicit:          record(b, f, "implicit", b.oauthFlow),
		Password:          record(b, f, "password", b.oauthFlow),
		ClientCredentials: record(b, f, "clientCredentials", b.oauthFlow),
		AuthorizationCode: record(b, f, "authorizationCode", b.oauthFlow),
		Extensions:        f.Extensions(),
	}
}

func (b *builder) oauthFlow(n *node.Node) *OAuthFlow {
	f := b.fields(n)
	f.Require("scopes")
	return &OAuthFlow{
		AuthorizationURL: f.String("authorizationUrl"),
		TokenURL:         f.String("tokenUrl"),
		RefreshURL:       f.String("refreshUrl"),
		Scopes:           f.StringMap("scopes"),
		Extensions:       f.Extensions(),
	}
}

func (b *builder) securityRequirements(f *compiler.Fields) []*SecurityRequirement {
	return compiler.ListOf(f, "security", b.securityRequirement)
}

func (b *builder) securityRequirement(n *node.Node) (*SecurityRequirement, bool) {
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
