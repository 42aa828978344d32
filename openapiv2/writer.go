package openapiv2

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/jsonschema"
	"github.com/erraggy/oascompiler/node"
)

// ToNode renders the document back into an untyped tree in Swagger
// spelling. Building the result yields an equal document.
func (d *Document) ToNode() *node.Node {
	if d == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "swagger", d.Swagger)
	compiler.PutNode(m, "info", d.Info.toNode())
	compiler.PutString(m, "host", d.Host)
	compiler.PutString(m, "basePath", d.BasePath)
	putStrings(m, "schemes", d.Schemes)
	putStrings(m, "consumes", d.Consumes)
	putStrings(m, "produces", d.Produces)
	compiler.PutNode(m, "paths", d.Paths.toNode())
	compiler.PutMapOf(m, "definitions", d.Definitions, schemaNode)
	compiler.PutMapOf(m, "parameters", d.Parameters, parameterNode)
	compiler.PutMapOf(m, "responses", d.Responses, (*Response).toNode)
	compiler.PutListOf(m, "security", d.Security, (*SecurityRequirement).toNode)
	compiler.PutMapOf(m, "securityDefinitions", d.SecurityDefinitions, securityDefinitionNode)
	compiler.PutListOf(m, "tags", d.Tags, (*Tag).toNode)
	compiler.PutNode(m, "externalDocs", d.ExternalDocs.ToNode())
	d.Extensions.WriteTo(m)
	return m
}

// putStrings keeps an empty list, which PutStrings drops.
func putStrings(m *node.Node, key string, v []string) {
	if v != nil {
		m.Set(key, node.NewStrings(v))
	}
}

func schemaNode(s *jsonschema.Schema) *node.Node {
	return s.ToNode(jsonschema.OpenAPIv2)
}

func (i *Info) toNode() *node.Node {
	if i == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "title", i.Title)
	compiler.PutString(m, "version", i.Version)
	compiler.PutString(m, "description", i.Description)
	compiler.PutString(m, "termsOfService", i.TermsOfService)
	if c := i.Contact; c != nil {
		cm := node.NewMapping()
		compiler.PutString(cm, "name", c.Name)
		compiler.PutString(cm, "url", c.URL)
		compiler.PutString(cm, "email", c.Email)
		c.Extensions.WriteTo(cm)
		m.Set("contact", cm)
	}
	if l := i.License; l != nil {
		lm := node.NewMapping()
		compiler.PutString(lm, "name", l.Name)
		compiler.PutString(lm, "url", l.URL)
		l.Extensions.WriteTo(lm)
		m.Set("license", lm)
	}
	i.Extensions.WriteTo(m)
	return m
}

func (p *Paths) toNode() *node.Node {
	if p == nil {
		return nil
	}
	m := node.NewMapping()
	for _, item := range p.Path {
		m.Set(item.Name, item.Value.toNode())
	}
	p.Extensions.WriteTo(m)
	return m
}

func (p *PathItem) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutString(m, "$ref", p.Ref)
	ops := []*Operation{p.Get, p.Put, p.Post, p.Delete, p.Options, p.Head, p.Patch}
	for i, method := range methods {
		compiler.PutNode(m, method, ops[i].toNode())
	}
	compiler.PutListOf(m, "parameters", p.Parameters, parameterNode)
	p.Extensions.WriteTo(m)
	return m
}

func (o *Operation) toNode() *node.Node {
	if o == nil {
		return nil
	}
	m := node.NewMapping()
	putStrings(m, "tags", o.Tags)
	compiler.PutString(m, "summary", o.Summary)
	compiler.PutString(m, "description", o.Description)
	compiler.PutNode(m, "externalDocs", o.ExternalDocs.ToNode())
	compiler.PutString(m, "operationId", o.OperationID)
	putStrings(m, "produces", o.Produces)
	putStrings(m, "consumes", o.Consumes)
	compiler.PutListOf(m, "parameters", o.Parameters, parameterNode)
	compiler.PutNode(m, "responses", o.Responses.toNode())
	putStrings(m, "schemes", o.Schemes)
	compiler.PutBool(m, "deprecated", o.Deprecated)
	compiler.PutListOf(m, "security", o.Security, (*SecurityRequirement).toNode)
	o.Extensions.WriteTo(m)
	return m
}

func parameterNode(p Parameter) *node.Node {
	if r, ok := p.(*JSONReference); ok {
		return r.toNode()
	}
	m := node.NewMapping()
	switch p := p.(type) {
	case *BodyParameter:
		compiler.PutString(m, "description", p.Description)
		compiler.PutString(m, "name", p.Name)
		compiler.PutString(m, "in", p.Location())
		compiler.PutBool(m, "required", p.Required)
		compiler.PutNode(m, "schema", schemaNode(p.Schema))
		p.Extensions.WriteTo(m)
	case *HeaderParameter:
		putCommon(m, p, p.Name, p.Description, p.Required)
		p.Primitive.writeTo(m)
		p.Extensions.WriteTo(m)
	case *FormDataParameter:
		putCommon(m, p, p.Name, p.Description, p.Required)
		compiler.PutBool(m, "allowEmptyValue", p.AllowEmptyValue)
		p.Primitive.writeTo(m)
		p.Extensions.WriteTo(m)
	case *QueryParameter:
		putCommon(m, p, p.Name, p.Description, p.Required)
		compiler.PutBool(m, "allowEmptyValue", p.AllowEmptyValue)
		p.Primitive.writeTo(m)
		p.Extensions.WriteTo(m)
	case *PathParameter:
		putCommon(m, p, p.Name, p.Description, p.Required)
		p.Primitive.writeTo(m)
		p.Extensions.WriteTo(m)
	}
	return m
}

func putCommon(m *node.Node, p Parameter, name, description string, required bool) {
	compiler.PutString(m, "name", name)
	compiler.PutString(m, "in", p.Location())
	compiler.PutString(m, "description", description)
	compiler.PutBool(m, "required", required)
}

func (p *Primitive) writeTo(m *node.Node) {
	compiler.PutString(m, "type", p.Type)
	compiler.PutString(m, "format", p.Format)
	if p.Items != nil {
		im := node.NewMapping()
		p.Items.Primitive.writeTo(im)
		p.Items.Extensions.WriteTo(im)
		m.Set("items", im)
	}
	compiler.PutString(m, "collectionFormat", p.CollectionFormat)
	compiler.PutAny(m, "default", p.Default)
	jsonschema.PutNumber(m, "maximum", p.Maximum)
	compiler.PutBool(m, "exclusiveMaximum", p.ExclusiveMaximum)
	jsonschema.PutNumber(m, "minimum", p.Minimum)
	compiler.PutBool(m, "exclusiveMinimum", p.ExclusiveMinimum)
	compiler.PutIntPtr(m, "maxLength", p.MaxLength)
	compiler.PutIntPtr(m, "minLength", p.MinLength)
	compiler.PutString(m, "pattern", p.Pattern)
	compiler.PutIntPtr(m, "maxItems", p.MaxItems)
	compiler.PutIntPtr(m, "minItems", p.MinItems)
	compiler.PutBool(m, "uniqueItems", p.UniqueItems)
	compiler.PutAnys(m, "enum", p.Enum)
	jsonschema.PutNumber(m, "multipleOf", p.MultipleOf)
}

func (r *JSONReference) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutString(m, "$ref", r.Ref)
	compiler.PutString(m, "description", r.Description)
	return m
}

func (r *Responses) toNode() *node.Node {
	if r == nil {
		return nil
	}
	m := node.NewMapping()
	for _, code := range r.ResponseCode {
		switch v := code.Value.(type) {
		case *Response:
			m.Set(code.Name, v.toNode())
		case *JSONReference:
			m.Set(code.Name, v.toNode())
		}
	}
	r.Extensions.WriteTo(m)
	return m
}

func (r *Response) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutString(m, "description", r.Description)
	compiler.PutNode(m, "schema", schemaNode(r.Schema))
	compiler.PutMapOf(m, "headers", r.Headers, func(h *Header) *node.Node {
		hm := node.NewMapping()
		h.Primitive.writeTo(hm)
		compiler.PutString(hm, "description", h.Description)
		h.Extensions.WriteTo(hm)
		return hm
	})
	if r.Examples != nil {
		em := node.NewMapping()
		for _, e := range r.Examples {
			compiler.PutAny(em, e.Name, e.Value)
		}
		m.Set("examples", em)
	}
	r.Extensions.WriteTo(m)
	return m
}

func securityDefinitionNode(s SecurityDefinition) *node.Node {
	m := node.NewMapping()
	switch s := s.(type) {
	case *BasicAuthenticationSecurity:
		compiler.PutString(m, "type", "basic")
		compiler.PutString(m, "description", s.Description)
		s.Extensions.WriteTo(m)
	case *APIKeySecurity:
		compiler.PutString(m, "type", "apiKey")
		compiler.PutString(m, "name", s.Name)
		compiler.PutString(m, "in", s.In)
		compiler.PutString(m, "description", s.Description)
		s.Extensions.WriteTo(m)
	case *OAuth2ImplicitSecurity:
		putFlow(m, "implicit", s.Scopes)
		compiler.PutString(m, "authorizationUrl", s.AuthorizationURL)
		compiler.PutString(m, "description", s.Description)
		s.Extensions.WriteTo(m)
	case *OAuth2PasswordSecurity:
		putFlow(m, "password", s.Scopes)
		compiler.PutString(m, "tokenUrl", s.TokenURL)
		compiler.PutString(m, "description", s.Description)
		s.Extensions.WriteTo(m)
	case *OAuth2ApplicationSecurity:
		putFlow(m, "application", s.Scopes)
		compiler.PutString(m, "tokenUrl", s.TokenURL)
		compiler.PutString(m, "description", s.Description)
		s.Extensions.WriteTo(m)
	case *OAuth2AccessCodeSecurity:
		putFlow(m, "accessCode", s.Scopes)
		compiler.PutString(m, "authorizationUrl", s.AuthorizationURL)
		compiler.PutString(m, "tokenUrl", s.TokenURL)
		compiler.PutString(m, "description", s.Description)
		s.Extensions.WriteTo(m)
	}
	return m
}

func putFlow(m *node.Node, flow string, scopes []*compiler.NamedString) {
	compiler.PutString(m, "type", "oauth2")
	compiler.PutString(m, "flow", flow)
	compiler.PutStringMap(m, "scopes", scopes)
}

func (r *SecurityRequirement) toNode() *node.Node {
	m := node.NewMapping()
	for _, req := range r.AdditionalProperties {
		m.Set(req.Name, node.NewStrings(req.Value))
	}
	return m
}

func (t *Tag) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutString(m, "name", t.Name)
	compiler.PutString(m, "description", t.Description)
	compiler.PutNode(m, "externalDocs", t.ExternalDocs.ToNode())
	t.Extensions.WriteTo(m)
	return m
}
