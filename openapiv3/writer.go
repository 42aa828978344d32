package openapiv3

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/jsonschema"
	"github.com/erraggy/oascompiler/node"
)

// ToNode renders the document back into an untyped tree in OpenAPI
// spelling. Building the result yields an equal document.
func (d *Document) ToNode() *node.Node {
	if d == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "openapi", d.OpenAPI)
	compiler.PutNode(m, "info", d.Info.toNode())
	compiler.PutListOf(m, "servers", d.Servers, (*Server).toNode)
	compiler.PutNode(m, "paths", d.Paths.toNode())
	compiler.PutNode(m, "components", d.Components.toNode())
	compiler.PutListOf(m, "security", d.Security, (*SecurityRequirement).toNode)
	compiler.PutListOf(m, "tags", d.Tags, (*Tag).toNode)
	compiler.PutNode(m, "externalDocs", d.ExternalDocs.ToNode())
	d.Extensions.WriteTo(m)
	return m
}

func (i *Info) toNode() *node.Node {
	if i == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "title", i.Title)
	compiler.PutString(m, "description", i.Description)
	compiler.PutString(m, "termsOfService", i.TermsOfService)
	if i.Contact != nil {
		c := node.NewMapping()
		compiler.PutString(c, "name", i.Contact.Name)
		compiler.PutString(c, "url", i.Contact.URL)
		compiler.PutString(c, "email", i.Contact.Email)
		i.Contact.Extensions.WriteTo(c)
		m.Set("contact", c)
	}
	if i.License != nil {
		l := node.NewMapping()
		compiler.PutString(l, "name", i.License.Name)
		compiler.PutString(l, "url", i.License.URL)
		i.License.Extensions.WriteTo(l)
		m.Set("license", l)
	}
	compiler.PutString(m, "version", i.Version)
	i.Extensions.WriteTo(m)
	return m
}

func (s *Server) toNode() *node.Node {
	if s == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "url", s.URL)
	compiler.PutString(m, "description", s.Description)
	compiler.PutMapOf(m, "variables", s.Variables, func(v *ServerVariable) *node.Node {
		vm := node.NewMapping()
		if v.Enum != nil {
			vm.Set("enum", node.NewStrings(v.Enum))
		}
		compiler.PutString(vm, "default", v.Default)
		compiler.PutString(vm, "description", v.Description)
		v.Extensions.WriteTo(vm)
		return vm
	})
	s.Extensions.WriteTo(m)
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
	compiler.PutString(m, "summary", p.Summary)
	compiler.PutString(m, "description", p.Description)
	ops := []*Operation{p.Get, p.Put, p.Post, p.Delete, p.Options, p.Head, p.Patch, p.Trace}
	for i, method := range methods {
		compiler.PutNode(m, method, ops[i].toNode())
	}
	compiler.PutListOf(m, "servers", p.Servers, (*Server).toNode)
	compiler.PutListOf(m, "parameters", p.Parameters, parameterNode)
	p.Extensions.WriteTo(m)
	return m
}

func (o *Operation) toNode() *node.Node {
	if o == nil {
		return nil
	}
	m := node.NewMapping()
	if o.Tags != nil {
		m.Set("tags", node.NewStrings(o.Tags))
	}
	compiler.PutString(m, "summary", o.Summary)
	compiler.PutString(m, "description", o.Description)
	compiler.PutNode(m, "externalDocs", o.ExternalDocs.ToNode())
	compiler.PutString(m, "operationId", o.OperationID)
	compiler.PutListOf(m, "parameters", o.Parameters, parameterNode)
	compiler.PutNode(m, "requestBody", requestBodyNode(o.RequestBody))
	compiler.PutNode(m, "responses", o.Responses.toNode())
	compiler.PutMapOf(m, "callbacks", o.Callbacks, callbackNode)
	compiler.PutBool(m, "deprecated", o.Deprecated)
	compiler.PutListOf(m, "security", o.Security, (*SecurityRequirement).toNode)
	compiler.PutListOf(m, "servers", o.Servers, (*Server).toNode)
	o.Extensions.WriteTo(m)
	return m
}

func parameterNode(p ParameterOrReference) *node.Node {
	switch p := p.(type) {
	case *Parameter:
		m := node.NewMapping()
		compiler.PutString(m, "name", p.Name)
		compiler.PutString(m, "in", string(p.In))
		compiler.PutString(m, "description", p.Description)
		compiler.PutBool(m, "required", p.Required)
		compiler.PutBool(m, "deprecated", p.Deprecated)
		compiler.PutBool(m, "allowEmptyValue", p.AllowEmptyValue)
		compiler.PutString(m, "style", p.Style)
		compiler.PutBool(m, "explode", p.Explode)
		compiler.PutBool(m, "allowReserved", p.AllowReserved)
		compiler.PutNode(m, "schema", schemaNode(p.Schema))
		compiler.PutAny(m, "example", p.Example)
		compiler.PutMapOf(m, "examples", p.Examples, exampleNode)
		compiler.PutMapOf(m, "content", p.Content, (*MediaType).toNode)
		p.Extensions.WriteTo(m)
		return m
	case *Reference:
		return p.ToNode()
	}
	return nil
}

func headerNode(h HeaderOrReference) *node.Node {
	switch h := h.(type) {
	case *Header:
		m := node.NewMapping()
		compiler.PutString(m, "description", h.Description)
		compiler.PutBool(m, "required", h.Required)
		compiler.PutBool(m, "deprecated", h.Deprecated)
		compiler.PutBool(m, "allowEmptyValue", h.AllowEmptyValue)
		compiler.PutString(m, "style", h.Style)
		compiler.PutBool(m, "explode", h.Explode)
		compiler.PutBool(m, "allowReserved", h.AllowReserved)
		compiler.PutNode(m, "schema", schemaNode(h.Schema))
		compiler.PutAny(m, "example", h.Example)
		compiler.PutMapOf(m, "examples", h.Examples, exampleNode)
		compiler.PutMapOf(m, "content", h.Content, (*MediaType).toNode)
		h.Extensions.WriteTo(m)
		return m
	case *Reference:
		return h.ToNode()
	}
	return nil
}

func schemaNode(s *jsonschema.Schema) *node.Node {
	return s.ToNode(jsonschema.OpenAPIv3)
}

func requestBodyNode(r RequestBodyOrReference) *node.Node {
	switch r := r.(type) {
	case *RequestBody:
		m := node.NewMapping()
		compiler.PutString(m, "description", r.Description)
		compiler.PutMapOf(m, "content", r.Content, (*MediaType).toNode)
		compiler.PutBool(m, "required", r.Required)
		r.Extensions.WriteTo(m)
		return m
	case *Reference:
		return r.ToNode()
	}
	return nil
}

func (mt *MediaType) toNode() *node.Node {
	m := node.NewMapping()
	compiler.PutNode(m, "schema", schemaNode(mt.Schema))
	compiler.PutAny(m, "example", mt.Example)
	compiler.PutMapOf(m, "examples", mt.Examples, exampleNode)
	compiler.PutMapOf(m, "encoding", mt.Encoding, func(e *Encoding) *node.Node {
		em := node.NewMapping()
		compiler.PutString(em, "contentType", e.ContentType)
		compiler.PutMapOf(em, "headers", e.Headers, headerNode)
		compiler.PutString(em, "style", e.Style)
		compiler.PutBool(em, "explode", e.Explode)
		compiler.PutBool(em, "allowReserved", e.AllowReserved)
		e.Extensions.WriteTo(em)
		return em
	})
	mt.Extensions.WriteTo(m)
	return m
}

func (r *Responses) toNode() *node.Node {
	if r == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutNode(m, "default", responseNode(r.Default))
	for _, code := range r.ResponseOrReference {
		m.Set(code.Name, responseNode(code.Value))
	}
	r.Extensions.WriteTo(m)
	return m
}

func responseNode(r ResponseOrReference) *node.Node {
	switch r := r.(type) {
	case *Response:
		m := node.NewMapping()
		compiler.PutString(m, "description", r.Description)
		compiler.PutMapOf(m, "headers", r.Headers, headerNode)
		compiler.PutMapOf(m, "content", r.Content, (*MediaType).toNode)
		compiler.PutMapOf(m, "links", r.Links, linkNode)
		r.Extensions.WriteTo(m)
		return m
	case *Reference:
		return r.ToNode()
	}
	return nil
}

func callbackNode(c CallbackOrReference) *node.Node {
	switch c := c.(type) {
	case *Callback:
		m := node.NewMapping()
		for _, item := range c.Path {
			m.Set(item.Name, item.Value.toNode())
		}
		c.Extensions.WriteTo(m)
		return m
	case *Reference:
		return c.ToNode()
	}
	return nil
}

func exampleNode(e ExampleOrReference) *node.Node {
	switch e := e.(type) {
	case *Example:
		m := node.NewMapping()
		compiler.PutString(m, "summary", e.Summary)
		compiler.PutString(m, "description", e.Description)
		compiler.PutAny(m, "value", e.Value)
		compiler.PutString(m, "externalValue", e.ExternalValue)
		e.Extensions.WriteTo(m)
		return m
	case *Reference:
		return e.ToNode()
	}
	return nil
}

func linkNode(l LinkOrReference) *node.Node {
	switch l := l.(type) {
	case *Link:
		m := node.NewMapping()
		compiler.PutString(m, "operationRef", l.OperationRef)
		compiler.PutString(m, "operationId", l.OperationID)
		if l.Parameters != nil {
			params := node.NewMapping()
			for _, p := range l.Parameters {
				compiler.PutAny(params, p.Name, p.Value)
			}
			m.Set("parameters", params)
		}
		compiler.PutAny(m, "requestBody", l.RequestBody)
		compiler.PutString(m, "description", l.Description)
		compiler.PutNode(m, "server", l.Server.toNode())
		l.Extensions.WriteTo(m)
		return m
	case *Reference:
		return l.ToNode()
	}
	return nil
}

func (c *Components) toNode() *node.Node {
	if c == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutMapOf(m, "schemas", c.Schemas, schemaNode)
	compiler.PutMapOf(m, "responses", c.Responses, responseNode)
	compiler.PutMapOf(m, "parameters", c.Parameters, parameterNode)
	compiler.PutMapOf(m, "examples", c.Examples, exampleNode)
	compiler.PutMapOf(m, "requestBodies", c.RequestBodies, requestBodyNode)
	compiler.PutMapOf(m, "headers", c.Headers, headerNode)
	compiler.PutMapOf(m, "securitySchemes", c.SecuritySchemes, securitySchemeNode)
	compiler.PutMapOf(m, "links", c.Links, linkNode)
	compiler.PutMapOf(m, "callbacks", c.Callbacks, callbackNode)
	c.Extensions.WriteTo(m)
	return m
}

func securitySchemeNode(s SecuritySchemeOrReference) *node.Node {
	switch s := s.(type) {
	case *SecurityScheme:
		m := node.NewMapping()
		compiler.PutString(m, "type", string(s.Type))
		compiler.PutString(m, "description", s.Description)
		compiler.PutString(m, "name", s.Name)
		compiler.PutString(m, "in", s.In)
		compiler.PutString(m, "scheme", s.Scheme)
		compiler.PutString(m, "bearerFormat", s.BearerFormat)
		if f := s.Flows; f != nil {
			fm := node.NewMapping()
			compiler.PutNode(fm, "implicit", f.Implicit.toNode())
			compiler.PutNode(fm, "password", f.Password.toNode())
			compiler.PutNode(fm, "clientCredentials", f.ClientCredentials.toNode())
			compiler.PutNode(fm, "authorizationCode", f.AuthorizationCode.toNode())
			f.Extensions.WriteTo(fm)
			m.Set("flows", fm)
		}
		compiler.PutString(m, "openIdConnectUrl", s.OpenIDConnectURL)
		s.Extensions.WriteTo(m)
		return m
	case *Reference:
		return s.ToNode()
	}
	return nil
}

func (f *OAuthFlow) toNode() *node.Node {
	if f == nil {
		return nil
	}
	m := node.NewMapping()
	compiler.PutString(m, "authorizationUrl", f.AuthorizationURL)
	compiler.PutString(m, "tokenUrl", f.TokenURL)
	compiler.PutString(m, "refreshUrl", f.RefreshURL)
	compiler.PutStringMap(m, "scopes", f.Scopes)
	f.Extensions.WriteTo(m)
	return m
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
