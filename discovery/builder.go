package discovery

import (
	"strconv"
	"strings"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

const documentKind = "Discovery document"

// Build builds a document from root. A root sequence holding exactly one
// document is unwrapped. Any other root that is not a mapping is returned
// as *oaserrors.ParseError.
func Build(ctx *compiler.Context, root *node.Node) (*Document, error) {
	if root.IsSequence() && len(root.Items) == 1 {
		root = root.Items[0]
	}
	if err := compiler.CheckRoot(root, documentKind); err != nil {
		return nil, err
	}
	b := &builder{ctx: ctx}
	return b.document(root), nil
}

type builder struct {
	ctx *compiler.Context
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

func (b *builder) document(n *node.Node) *Document {
	f := b.fields(n)
	d := &Document{
		Kind:              f.String("kind"),
		DiscoveryVersion:  f.String("discoveryVersion"),
		ID:                f.String("id"),
		Name:              f.String("name"),
		Version:           f.String("version"),
		Revision:          f.String("revision"),
		Title:             f.String("title"),
		Description:       f.String("description"),
		Icons:             record(b, f, "icons", b.icons),
		DocumentationLink: f.String("documentationLink"),
		Labels:            f.Strings("labels"),
		Protocol:          f.String("protocol"),
		BaseURL:           f.String("baseUrl"),
		BasePath:          f.String("basePath"),
		RootURL:           f.String("rootUrl"),
		ServicePath:       f.String("servicePath"),
		BatchPath:         f.String("batchPath"),
	}
	d.Parameters = compiler.MapOf(f, "parameters", b.namedSchema)
	d.Auth = record(b, f, "auth", b.auth)
	d.Features = f.Strings("features")
	d.Schemas = compiler.MapOf(f, "schemas", b.namedSchema)
	d.Methods = compiler.MapOf(f, "methods", b.method)
	d.Resources = compiler.MapOf(f, "resources", b.resource)
	d.Etag = f.String("etag")
	d.OwnerDomain = f.String("ownerDomain")
	d.OwnerName = f.String("ownerName")
	d.VersionModule = f.Bool("version_module")
	d.CanonicalName = f.String("canonicalName")
	d.FullyEncodeReservedExpansion = f.Bool("fullyEncodeReservedExpansion")
	d.PackagePath = f.String("packagePath")
	d.MTLSRootURL = f.String("mtlsRootUrl")
	d.Extensions = f.Extensions()
	return d
}

func (b *builder) icons(n *node.Node) *Icons {
	f := b.fields(n)
	return &Icons{X16: f.String("x16"), X32: f.String("x32"), Extensions: f.Extensions()}
}

func (b *builder) auth(n *node.Node) *Auth {
	f := b.fields(n)
	a := &Auth{}
	a.OAuth2 = record(b, f, "oauth2", func(n *node.Node) *OAuth2 {
		f := b.fields(n)
		o := &OAuth2{}
		o.Scopes = compiler.MapOf(f, "scopes", func(_ string, v *node.Node) (*Scope, bool) {
			if !b.mapping(v) {
				return nil, false
			}
			sf := b.fields(v)
			return &Scope{Description: sf.String("description"), Extensions: sf.Extensions()}, true
		})
		o.Extensions = f.Extensions()
		return o
	})
	a.Extensions = f.Extensions()
	return a
}

func (b *builder) mapping(n *node.Node) bool {
	if n.IsMapping() {
		return true
	}
	b.ctx.ReportAtf(n, "has unexpected value: %s", n.Describe())
	return false
}

func (b *builder) namedSchema(_ string, n *node.Node) (*Schema, bool) {
	s := b.schema(n)
	return s, s != nil
}

// schema builds a schema or parameter. An unknown type is reported and
// read as any, which admits every other field.
func (b *builder) schema(n *node.Node) *Schema {
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return nil
	}
	f := b.fields(n)
	s := &Schema{
		ID:          f.String("id"),
		Type:        b.schemaType(f),
		Ref:         f.String("$ref"),
		Description: f.String("description"),
		Default:     f.String("default"),
		Required:    f.Bool("required"),
		Format:      f.String("format"),
		Pattern:     f.String("pattern"),
		Minimum:     b.number(f, "minimum"),
		Maximum:     b.number(f, "maximum"),
	}
	s.Enum = f.Strings("enum")
	s.EnumDescriptions = f.Strings("enumDescriptions")
	s.Repeated = f.Bool("repeated")
	s.Location = f.String("location")
	s.Properties = compiler.MapOf(f, "properties", b.namedSchema)
	s.AdditionalProperties = b.subschema(f, "additionalProperties")
	s.Items = b.subschema(f, "items")
	s.Annotations = record(b, f, "annotations", func(n *node.Node) *Annotations {
		f := b.fields(n)
		return &Annotations{Required: f.Strings("required"), Extensions: f.Extensions()}
	})
	s.ReadOnly = f.Bool("readOnly")
	s.Deprecated = f.Bool("deprecated")
	s.Extensions = f.Extensions()
	return s
}

func (b *builder) subschema(f *compiler.Fields, key string) *Schema {
	v := f.Node(key)
	if v == nil {
		return nil
	}
	b.ctx.Push(key)
	defer b.ctx.Pop()
	return b.schema(v)
}

func (b *builder) schemaType(f *compiler.Fields) SchemaType {
	v := f.Node("type")
	if v == nil {
		return ""
	}
	if s, ok := compiler.StringForScalarNode(v); ok {
		switch t := SchemaType(s); t {
		case TypeAny, TypeArray, TypeBoolean, TypeInteger, TypeNumber, TypeNull, TypeObject, TypeString:
			return t
		}
	}
	f.Unexpected("type", v)
	return TypeAny
}

// number reads a numeric bound written as a JSON number or as a numeric
// string and keeps its text.
func (b *builder) number(f *compiler.Fields, key string) string {
	v := f.Node(key)
	if v == nil {
		return ""
	}
	switch v.Kind {
	case node.Number:
		return v.Value
	case node.String:
		if _, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64); err == nil {
			return v.Value
		}
	}
	f.Unexpected(key, v)
	return ""
}

func (b *builder) resource(_ string, n *node.Node) (*Resource, bool) {
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return nil, false
	}
	f := b.fields(n)
	return &Resource{
		Methods:    compiler.MapOf(f, "methods", b.method),
		Resources:  compiler.MapOf(f, "resources", b.resource),
		Deprecated: f.Bool("deprecated"),
		Extensions: f.Extensions(),
	}, true
}

func (b *builder) method(_ string, n *node.Node) (*Method, bool) {
	if !b.mapping(n) {
		return nil, false
	}
	f := b.fields(n)
	m := &Method{
		ID:             f.String("id"),
		Path:           f.String("path"),
		HTTPMethod:     f.String("httpMethod"),
		Description:    f.String("description"),
		Parameters:     compiler.MapOf(f, "parameters", b.namedSchema),
		ParameterOrder: f.Strings("parameterOrder"),
	}
	m.Request = record(b, f, "request", func(n *node.Node) *Request {
		f := b.fields(n)
		return &Request{Ref: f.String("$ref"), ParameterName: f.String("parameterName"), Extensions: f.Extensions()}
	})
	m.Response = record(b, f, "response", func(n *node.Node) *Response {
		f := b.fields(n)
		return &Response{Ref: f.String("$ref"), Extensions: f.Extensions()}
	})
	m.Scopes = f.Strings("scopes")
	m.SupportsMediaDownload = f.Bool("supportsMediaDownload")
	m.SupportsMediaUpload = f.Bool("supportsMediaUpload")
	m.UseMediaDownloadService = f.Bool("useMediaDownloadService")
	m.MediaUpload = record(b, f, "mediaUpload", b.mediaUpload)
	m.SupportsSubscription = f.Bool("supportsSubscription")
	m.FlatPath = f.String("flatPath")
	m.EtagRequired = f.Bool("etagRequired")
	m.StreamingType = f.String("streamingType")
	m.APIVersion = f.String("apiVersion")
	m.Deprecated = f.Bool("deprecated")
	m.Extensions = f.Extensions()
	return m, true
}

func (b *builder) mediaUpload(n *node.Node) *MediaUpload {
	f := b.fields(n)
	u := &MediaUpload{
		Accept:  f.Strings("accept"),
		MaxSize: f.String("maxSize"),
	}
	u.Protocols = record(b, f, "protocols", func(n *node.Node) *Protocols {
		f := b.fields(n)
		p := &Protocols{}
		p.Simple = record(b, f, "simple", func(n *node.Node) *Simple {
			f := b.fields(n)
			return &Simple{Multipart: f.Bool("multipart"), Path: f.String("path"), Extensions: f.Extensions()}
		})
		p.Resumable = record(b, f, "resumable", func(n *node.Node) *Resumable {
			f := b.fields(n)
			return &Resumable{Multipart: f.Bool("multipart"), Path: f.String("path"), Extensions: f.Extensions()}
		})
		p.Extensions = f.Extensions()
		return p
	})
	u.SupportsSubscription = f.Bool("supportsSubscription")
	u.Extensions = f.Extensions()
	return u
}
