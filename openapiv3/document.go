// Package openapiv3 models OpenAPI 3.0 documents and builds them from
// untyped document nodes.
//
// Every referable object is held in a sealed union with [*Reference], for
// example [ParameterOrReference]. Consume unions with a type switch:
//
//	for _, p := range op.Parameters {
//	    switch p := p.(type) {
//	    case *openapiv3.Parameter:
//	        fmt.Println(p.Name, p.In)
//	    case *openapiv3.Reference:
//	        fmt.Println("see", p.Ref)
//	    }
//	}
//
// Schemas are [jsonschema.Schema] values built with the OpenAPI v3
// dialect; a schema reference is a schema whose Ref is set.
package openapiv3

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/jsonschema"
)

// Named is an entry of an ordered mapping.
type Named[T any] = compiler.Named[T]

// ExternalDocs points at additional documentation.
type ExternalDocs = jsonschema.ExternalDocs

// Document is the root of an OpenAPI 3.0 description.
type Document struct {
	OpenAPI      string                 `json:"openapi,omitempty"`
	Info         *Info                  `json:"info,omitempty"`
	Servers      []*Server              `json:"servers,omitempty"`
	Paths        *Paths                 `json:"paths,omitempty"`
	Components   *Components            `json:"components,omitempty"`
	Security     []*SecurityRequirement `json:"security,omitempty"`
	Tags         []*Tag                 `json:"tags,omitempty"`
	ExternalDocs *ExternalDocs          `json:"externalDocs,omitempty"`
	Extensions   compiler.Extensions    `json:"specificationExtension,omitempty"`
}

// Info is the API metadata.
type Info struct {
	Title          string              `json:"title,omitempty"`
	Description    string              `json:"description,omitempty"`
	TermsOfService string              `json:"termsOfService,omitempty"`
	Contact        *Contact            `json:"contact,omitempty"`
	License        *License            `json:"license,omitempty"`
	Version        string              `json:"version,omitempty"`
	Extensions     compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Contact is the contact information for the API.
type Contact struct {
	Name       string              `json:"name,omitempty"`
	URL        string              `json:"url,omitempty"`
	Email      string              `json:"email,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// License is the license of the API.
type License struct {
	Name       string              `json:"name,omitempty"`
	URL        string              `json:"url,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Server is a server URL, possibly templated with variables.
type Server struct {
	URL         string                    `json:"url,omitempty"`
	Description string                    `json:"description,omitempty"`
	Variables   []*Named[*ServerVariable] `json:"variables,omitempty"`
	Extensions  compiler.Extensions       `json:"specificationExtension,omitempty"`
}

// ServerVariable substitutes one variable of a server URL template.
type ServerVariable struct {
	Enum        []string            `json:"enum,omitempty"`
	Default     string              `json:"default,omitempty"`
	Description string              `json:"description,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Paths holds the path items keyed by path template, in declaration order.
type Paths struct {
	Path       []*Named[*PathItem] `json:"path,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// PathItem describes the operations available on one path.
type PathItem struct {
	Ref         string                 `json:"_ref,omitempty"`
	Summary     string                 `json:"summary,omitempty"`
	Description string                 `json:"description,omitempty"`
	Get         *Operation             `json:"get,omitempty"`
	Put         *Operation             `json:"put,omitempty"`
	Post        *Operation             `json:"post,omitempty"`
	Delete      *Operation             `json:"delete,omitempty"`
	Options     *Operation             `json:"options,omitempty"`
	Head        *Operation             `json:"head,omitempty"`
	Patch       *Operation             `json:"patch,omitempty"`
	Trace       *Operation             `json:"trace,omitempty"`
	Servers     []*Server              `json:"servers,omitempty"`
	Parameters  []ParameterOrReference `json:"parameters,omitempty"`
	Extensions  compiler.Extensions    `json:"specificationExtension,omitempty"`
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags         []string                      `json:"tags,omitempty"`
	Summary      string                        `json:"summary,omitempty"`
	Description  string                        `json:"description,omitempty"`
	ExternalDocs *ExternalDocs                 `json:"externalDocs,omitempty"`
	OperationID  string                        `json:"operationId,omitempty"`
	Parameters   []ParameterOrReference        `json:"parameters,omitempty"`
	RequestBody  RequestBodyOrReference        `json:"requestBody,omitempty"`
	Responses    *Responses                    `json:"responses,omitempty"`
	Callbacks    []*Named[CallbackOrReference] `json:"callbacks,omitempty"`
	Deprecated   bool                          `json:"deprecated,omitempty"`
	Security     []*SecurityRequirement        `json:"security,omitempty"`
	Servers      []*Server                     `json:"servers,omitempty"`
	Extensions   compiler.Extensions           `json:"specificationExtension,omitempty"`
}

// ParameterLocation is the value of a parameter's in field.
type ParameterLocation string

// Parameter locations.
const (
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InPath   ParameterLocation = "path"
	InCookie ParameterLocation = "cookie"
)

// Parameter describes a single operation parameter.
type Parameter struct {
	Name            string                       `json:"name,omitempty"`
	In              ParameterLocation            `json:"in,omitempty"`
	Description     string                       `json:"description,omitempty"`
	Required        bool                         `json:"required,omitempty"`
	Deprecated      bool                         `json:"deprecated,omitempty"`
	AllowEmptyValue bool                         `json:"allowEmptyValue,omitempty"`
	Style           string                       `json:"style,omitempty"`
	Explode         bool                         `json:"explode,omitempty"`
	AllowReserved   bool                         `json:"allowReserved,omitempty"`
	Schema          *jsonschema.Schema           `json:"schema,omitempty"`
	Example         *compiler.Any                `json:"example,omitempty"`
	Examples        []*Named[ExampleOrReference] `json:"examples,omitempty"`
	Content         []*Named[*MediaType]         `json:"content,omitempty"`
	Extensions      compiler.Extensions          `json:"specificationExtension,omitempty"`
}

// Header describes a response or encoding header. It is a Parameter
// without name and location.
type Header struct {
	Description     string                       `json:"description,omitempty"`
	Required        bool                         `json:"required,omitempty"`
	Deprecated      bool                         `json:"deprecated,omitempty"`
	AllowEmptyValue bool                         `json:"allowEmptyValue,omitempty"`
	Style           string                       `json:"style,omitempty"`
	Explode         bool                         `json:"explode,omitempty"`
	AllowReserved   bool                         `json:"allowReserved,omitempty"`
	Schema          *jsonschema.Schema           `json:"schema,omitempty"`
	Example         *compiler.Any                `json:"example,omitempty"`
	Examples        []*Named[ExampleOrReference] `json:"examples,omitempty"`
	Content         []*Named[*MediaType]         `json:"content,omitempty"`
	Extensions      compiler.Extensions          `json:"specificationExtension,omitempty"`
}

// RequestBody describes a request payload.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Content     []*Named[*MediaType] `json:"content,omitempty"`
	Required    bool                 `json:"required,omitempty"`
	Extensions  compiler.Extensions  `json:"specificationExtension,omitempty"`
}

// MediaType describes the payload for one media type.
type MediaType struct {
	Schema     *jsonschema.Schema           `json:"schema,omitempty"`
	Example    *compiler.Any                `json:"example,omitempty"`
	Examples   []*Named[ExampleOrReference] `json:"examples,omitempty"`
	Encoding   []*Named[*Encoding]          `json:"encoding,omitempty"`
	Extensions compiler.Extensions          `json:"specificationExtension,omitempty"`
}

// Encoding describes how one property of a multipart or form body is
// serialized.
type Encoding struct {
	ContentType   string                      `json:"contentType,omitempty"`
	Headers       []*Named[HeaderOrReference] `json:"headers,omitempty"`
	Style         string                      `json:"style,omitempty"`
	Explode       bool                        `json:"explode,omitempty"`
	AllowReserved bool                        `json:"allowReserved,omitempty"`
	Extensions    compiler.Extensions         `json:"specificationExtension,omitempty"`
}

// Responses maps status codes to responses. Codes are kept as written,
// including range codes such as "2XX".
type Responses struct {
	Default             ResponseOrReference           `json:"default,omitempty"`
	ResponseOrReference []*Named[ResponseOrReference] `json:"responseOrReference,omitempty"`
	Extensions          compiler.Extensions           `json:"specificationExtension,omitempty"`
}

// Response describes one response of an operation.
type Response struct {
	Description string                      `json:"description,omitempty"`
	Headers     []*Named[HeaderOrReference] `json:"headers,omitempty"`
	Content     []*Named[*MediaType]        `json:"content,omitempty"`
	Links       []*Named[LinkOrReference]   `json:"links,omitempty"`
	Extensions  compiler.Extensions         `json:"specificationExtension,omitempty"`
}

// Callback maps runtime expressions to the path items of out-of-band
// requests.
type Callback struct {
	Path       []*Named[*PathItem] `json:"path,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Example is a named example value.
type Example struct {
	Summary       string              `json:"summary,omitempty"`
	Description   string              `json:"description,omitempty"`
	Value         *compiler.Any       `json:"value,omitempty"`
	ExternalValue string              `json:"externalValue,omitempty"`
	Extensions    compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Link describes a design-time relation from a response to an operation.
type Link struct {
	OperationRef string               `json:"operationRef,omitempty"`
	OperationID  string               `json:"operationId,omitempty"`
	Parameters   []*compiler.NamedAny `json:"parameters,omitempty"`
	RequestBody  *compiler.Any        `json:"requestBody,omitempty"`
	Description  string               `json:"description,omitempty"`
	Server       *Server              `json:"server,omitempty"`
	Extensions   compiler.Extensions  `json:"specificationExtension,omitempty"`
}

// Components holds reusable objects.
type Components struct {
	Schemas         []*Named[*jsonschema.Schema]        `json:"schemas,omitempty"`
	Responses       []*Named[ResponseOrReference]       `json:"responses,omitempty"`
	Parameters      []*Named[ParameterOrReference]      `json:"parameters,omitempty"`
	Examples        []*Named[ExampleOrReference]        `json:"examples,omitempty"`
	RequestBodies   []*Named[RequestBodyOrReference]    `json:"requestBodies,omitempty"`
	Headers         []*Named[HeaderOrReference]         `json:"headers,omitempty"`
	SecuritySchemes []*Named[SecuritySchemeOrReference] `json:"securitySchemes,omitempty"`
	Links           []*Named[LinkOrReference]           `json:"links,omitempty"`
	Callbacks       []*Named[CallbackOrReference]       `json:"callbacks,omitempty"`
	Extensions      compiler.Extensions                 `json:"specificationExtension,omitempty"`
}

// SecuritySchemeType is the value of a security scheme's type field.
type SecuritySchemeType string

// Security scheme types.
const (
	SchemeAPIKey        SecuritySchemeType = "apiKey"
	SchemeHTTP          SecuritySchemeType = "http"
	SchemeOAuth2        SecuritySchemeType = "oauth2"
	SchemeOpenIDConnect SecuritySchemeType = "openIdConnect"
)

// SecurityScheme defines a security scheme usable by operations. Which
// fields apply depends on Type.
type SecurityScheme struct {
	Type             SecuritySchemeType  `json:"type,omitempty"`
	Description      string              `json:"description,omitempty"`
	Name             string              `json:"name,omitempty"`
	In               string              `json:"in,omitempty"`
	Scheme           string              `json:"scheme,omitempty"`
	BearerFormat     string              `json:"bearerFormat,omitempty"`
	Flows            *OAuthFlows         `json:"flows,omitempty"`
	OpenIDConnectURL string              `json:"openIdConnectUrl,omitempty"`
	Extensions       compiler.Extensions `json:"specificationExtension,omitempty"`
}

// OAuthFlows lists the supported OAuth2 flows.
type OAuthFlows struct {
	Implicit          *OAuthFlow          `json:"implicit,omitempty"`
	Password          *OAuthFlow          `json:"password,omitempty"`
	ClientCredentials *OAuthFlow          `json:"clientCredentials,omitempty"`
	AuthorizationCode *OAuthFlow          `json:"authorizationCode,omitempty"`
	Extensions        compiler.Extensions `json:"specificationExtension,omitempty"`
}

// OAuthFlow configures one OAuth2 flow.
type OAuthFlow struct {
	AuthorizationURL string                  `json:"authorizationUrl,omitempty"`
	TokenURL         string                  `json:"tokenUrl,omitempty"`
	RefreshURL       string                  `json:"refreshUrl,omitempty"`
	Scopes           []*compiler.NamedString `json:"scopes,omitempty"`
	Extensions       compiler.Extensions     `json:"specificationExtension,omitempty"`
}

// SecurityRequirement maps security scheme names to required scopes. An
// empty requirement makes security optional.
type SecurityRequirement struct {
	AdditionalProperties []*Named[[]string] `json:"additionalProperties,omitempty"`
}

// Tag adds metadata to a tag used by operations.
type Tag struct {
	Name         string              `json:"name,omitempty"`
	Description  string              `json:"description,omitempty"`
	ExternalDocs *ExternalDocs       `json:"externalDocs,omitempty"`
	Extensions   compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Reference points at a component in this or another document.
type Reference struct {
	Ref         string `json:"_ref,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
}

// ParameterOrReference is *Parameter or *Reference.
type ParameterOrReference interface{ isParameterOrReference() }

// RequestBodyOrReference is *RequestBody or *Reference.
type RequestBodyOrReference interface{ isRequestBodyOrReference() }

// ResponseOrReference is *Response or *Reference.
type ResponseOrReference interface{ isResponseOrReference() }

// HeaderOrReference is *Header or *Reference.
type HeaderOrReference interface{ isHeaderOrReference() }

// ExampleOrReference is *Example or *Reference.
type ExampleOrReference interface{ isExampleOrReference() }

// LinkOrReference is *Link or *Reference.
type LinkOrReference interface{ isLinkOrReference() }

// CallbackOrReference is *Callback or *Reference.
type CallbackOrReference interface{ isCallbackOrReference() }

// SecuritySchemeOrReference is *SecurityScheme or *Reference.
type SecuritySchemeOrReference interface{ isSecuritySchemeOrReference() }

func (*Parameter) isParameterOrReference()           {}
func (*RequestBody) isRequestBodyOrReference()       {}
func (*Response) isResponseOrReference()             {}
func (*Header) isHeaderOrReference()                 {}
func (*Example) isExampleOrReference()               {}
func (*Link) isLinkOrReference()                     {}
func (*Callback) isCallbackOrReference()             {}
func (*SecurityScheme) isSecuritySchemeOrReference() {}

func (*Reference) isParameterOrReference()      {}
func (*Reference) isRequestBodyOrReference()    {}
func (*Reference) isResponseOrReference()       {}
func (*Reference) isHeaderOrReference()         {}
func (*Reference) isExampleOrReference()        {}
func (*Reference) isLinkOrReference()           {}
func (*Reference) isCallbackOrReference()       {}
func (*Reference) isSecuritySchemeOrReference() {}
