// Package openapiv2 models OpenAPI 2.0 (Swagger) documents and builds them
// from untyped document nodes.
//
// Parameters and security definitions are discriminated unions. The
// variant is chosen from the in field of a parameter and from the type and
// flow fields of a security definition:
//
//	for _, p := range op.Parameters {
//	    switch p := p.(type) {
//	    case *openapiv2.BodyParameter:
//	        fmt.Println("body", p.Schema.Ref)
//	    case *openapiv2.QueryParameter:
//	        fmt.Println("query", p.Name, p.Type)
//	    case *openapiv2.JSONReference:
//	        fmt.Println("see", p.Ref)
//	    }
//	}
package openapiv2

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/jsonschema"
)

// Named is an entry of an ordered mapping.
type Named[T any] = compiler.Named[T]

// ExternalDocs points at additional documentation.
type ExternalDocs = jsonschema.ExternalDocs

// Document is the root of a Swagger 2.0 description.
type Document struct {
	Swagger             string                       `json:"swagger,omitempty"`
	Info                *Info                        `json:"info,omitempty"`
	Host                string                       `json:"host,omitempty"`
	BasePath            string                       `json:"basePath,omitempty"`
	Schemes             []string                     `json:"schemes,omitempty"`
	Consumes            []string                     `json:"consumes,omitempty"`
	Produces            []string                     `json:"produces,omitempty"`
	Paths               *Paths                       `json:"paths,omitempty"`
	Definitions         []*Named[*jsonschema.Schema] `json:"definitions,omitempty"`
	Parameters          []*Named[Parameter]          `json:"parameters,omitempty"`
	Responses           []*Named[*Response]          `json:"responses,omitempty"`
	Security            []*SecurityRequirement       `json:"security,omitempty"`
	SecurityDefinitions []*Named[SecurityDefinition] `json:"securityDefinitions,omitempty"`
	Tags                []*Tag                       `json:"tags,omitempty"`
	ExternalDocs        *ExternalDocs                `json:"externalDocs,omitempty"`
	Extensions          compiler.Extensions          `json:"specificationExtension,omitempty"`
}

// Info is the API metadata.
type Info struct {
	Title          string              `json:"title,omitempty"`
	Version        string              `json:"version,omitempty"`
	Description    string              `json:"description,omitempty"`
	TermsOfService string              `json:"termsOfService,omitempty"`
	Contact        *Contact            `json:"contact,omitempty"`
	License        *License            `json:"license,omitempty"`
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

// Paths holds the path items keyed by path template, in declaration order.
type Paths struct {
	Path       []*Named[*PathItem] `json:"path,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// PathItem describes the operations available on one path.
type PathItem struct {
	Ref        string              `json:"_ref,omitempty"`
	Get        *Operation          `json:"get,omitempty"`
	Put        *Operation          `json:"put,omitempty"`
	Post       *Operation          `json:"post,omitempty"`
	Delete     *Operation          `json:"delete,omitempty"`
	Options    *Operation          `json:"options,omitempty"`
	Head       *Operation          `json:"head,omitempty"`
	Patch      *Operation          `json:"patch,omitempty"`
	Parameters []Parameter         `json:"parameters,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Operation describes a single API operation on a path.
type Operation struct {
	Tags         []string               `json:"tags,omitempty"`
	Summary      string                 `json:"summary,omitempty"`
	Description  string                 `json:"description,omitempty"`
	ExternalDocs *ExternalDocs          `json:"externalDocs,omitempty"`
	OperationID  string                 `json:"operationId,omitempty"`
	Produces     []string               `json:"produces,omitempty"`
	Consumes     []string               `json:"consumes,omitempty"`
	Parameters   []Parameter            `json:"parameters,omitempty"`
	Responses    *Responses             `json:"responses,omitempty"`
	Schemes      []string               `json:"schemes,omitempty"`
	Deprecated   bool                   `json:"deprecated,omitempty"`
	Security     []*SecurityRequirement `json:"security,omitempty"`
	Extensions   compiler.Extensions    `json:"specificationExtension,omitempty"`
}

// Parameter is one of *BodyParameter, *HeaderParameter, *FormDataParameter,
// *QueryParameter, *PathParameter or *JSONReference.
type Parameter interface {
	// Location returns the in value of the variant, or "" for a reference.
	Location() string
	isParameter()
}

// Primitive holds the type and validation keywords shared by non-body
// parameters, headers and array items.
type Primitive struct {
	Type             string            `json:"type,omitempty"`
	Format           string            `json:"format,omitempty"`
	Items            *PrimitivesItems  `json:"items,omitempty"`
	CollectionFormat string            `json:"collectionFormat,omitempty"`
	Default          *compiler.Any     `json:"default,omitempty"`
	Maximum          jsonschema.Number `json:"maximum,omitempty"`
	ExclusiveMaximum bool              `json:"exclusiveMaximum,omitempty"`
	Minimum          jsonschema.Number `json:"minimum,omitempty"`
	ExclusiveMinimum bool              `json:"exclusiveMinimum,omitempty"`
	MaxLength        *int64            `json:"maxLength,omitempty"`
	MinLength        *int64            `json:"minLength,omitempty"`
	Pattern          string            `json:"pattern,omitempty"`
	MaxItems         *int64            `json:"maxItems,omitempty"`
	MinItems         *int64            `json:"minItems,omitempty"`
	UniqueItems      bool              `json:"uniqueItems,omitempty"`
	Enum             []*compiler.Any   `json:"enum,omitempty"`
	MultipleOf       jsonschema.Number `json:"multipleOf,omitempty"`
}

// PrimitivesItems describes the elements of an array-typed parameter or
// header.
type PrimitivesItems struct {
	Primitive
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// BodyParameter is a parameter with in: body.
type BodyParameter struct {
	Description string              `json:"description,omitempty"`
	Name        string              `json:"name,omitempty"`
	Required    bool                `json:"required,omitempty"`
	Schema      *jsonschema.Schema  `json:"schema,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// HeaderParameter is a parameter with in: header.
type HeaderParameter struct {
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Name        string `json:"name,omitempty"`
	Primitive
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// FormDataParameter is a parameter with in: formData. It is the only
// location that accepts the file type.
type FormDataParameter struct {
	Required        bool   `json:"required,omitempty"`
	Description     string `json:"description,omitempty"`
	Name            string `json:"name,omitempty"`
	AllowEmptyValue bool   `json:"allowEmptyValue,omitempty"`
	Primitive
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// QueryParameter is a parameter with in: query.
type QueryParameter struct {
	Required        bool   `json:"required,omitempty"`
	Description     string `json:"description,omitempty"`
	Name            string `json:"name,omitempty"`
	AllowEmptyValue bool   `json:"allowEmptyValue,omitempty"`
	Primitive
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// PathParameter is a parameter with in: path. Path parameters are always
// required.
type PathParameter struct {
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Name        string `json:"name,omitempty"`
	Primitive
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// JSONReference points at a parameter or response defined elsewhere.
type JSONReference struct {
	Ref         string `json:"_ref,omitempty"`
	Description string `json:"description,omitempty"`
}

func (*BodyParameter) Location() string     { return "body" }
func (*HeaderParameter) Location() string   { return "header" }
func (*FormDataParameter) Location() string { return "formData" }
func (*QueryParameter) Location() string    { return "query" }
func (*PathParameter) Location() string     { return "path" }
func (*JSONReference) Location() string     { return "" }

func (*BodyParameter) isParameter()     {}
func (*HeaderParameter) isParameter()   {}
func (*FormDataParameter) isParameter() {}
func (*QueryParameter) isParameter()    {}
func (*PathParameter) isParameter()     {}
func (*JSONReference) isParameter()     {}

// Responses maps status codes to responses.
type Responses struct {
	ResponseCode []*Named[ResponseValue] `json:"responseCode,omitempty"`
	Extensions   compiler.Extensions     `json:"specificationExtension,omitempty"`
}

// ResponseValue is *Response or *JSONReference.
type ResponseValue interface{ isResponseValue() }

func (*Response) isResponseValue()      {}
func (*JSONReference) isResponseValue() {}

// Response describes one response of an operation.
type Response struct {
	Description string               `json:"description,omitempty"`
	Schema      *jsonschema.Schema   `json:"schema,omitempty"`
	Headers     []*Named[*Header]    `json:"headers,omitempty"`
	Examples    []*compiler.NamedAny `json:"examples,omitempty"`
	Extensions  compiler.Extensions  `json:"specificationExtension,omitempty"`
}

// Header describes a response header.
type Header struct {
	Primitive
	Description string              `json:"description,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// SecurityDefinition is one of *BasicAuthenticationSecurity,
// *APIKeySecurity, *OAuth2ImplicitSecurity, *OAuth2PasswordSecurity,
// *OAuth2ApplicationSecurity or *OAuth2AccessCodeSecurity.
type SecurityDefinition interface{ isSecurityDefinition() }

// BasicAuthenticationSecurity is type: basic.
type BasicAuthenticationSecurity struct {
	Description string              `json:"description,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// APIKeySecurity is type: apiKey.
type APIKeySecurity struct {
	Name        string              `json:"name,omitempty"`
	In          string              `json:"in,omitempty"`
	Description string              `json:"description,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// OAuth2ImplicitSecurity is type: oauth2 with flow: implicit.
type OAuth2ImplicitSecurity struct {
	Scopes           []*compiler.NamedString `json:"scopes,omitempty"`
	AuthorizationURL string                  `json:"authorizationUrl,omitempty"`
	Description      string                  `json:"description,omitempty"`
	Extensions       compiler.Extensions     `json:"specificationExtension,omitempty"`
}

// OAuth2PasswordSecurity is type: oauth2 with flow: password.
type OAuth2PasswordSecurity struct {
	Scopes      []*compiler.NamedString `json:"scopes,omitempty"`
	TokenURL    string                  `json:"tokenUrl,omitempty"`
	Description string                  `json:"description,omitempty"`
	Extensions  compiler.Extensions     `json:"specificationExtension,omitempty"`
}

// OAuth2ApplicationSecurity is type: oauth2 with flow: application.
type OAuth2ApplicationSecurity struct {
	Scopes      []*compiler.NamedString `json:"scopes,omitempty"`
	TokenURL    string                  `json:"tokenUrl,omitempty"`
	Description string                  `json:"description,omitempty"`
	Extensions  compiler.Extensions     `json:"specificationExtension,omitempty"`
}

// OAuth2AccessCodeSecurity is type: oauth2 with flow: accessCode.
type OAuth2AccessCodeSecurity struct {
	Scopes           []*compiler.NamedString `json:"scopes,omitempty"`
	AuthorizationURL string                  `json:"authorizationUrl,omitempty"`
	TokenURL         string                  `json:"tokenUrl,omitempty"`
	Description      string                  `json:"description,omitempty"`
	Extensions       compiler.Extensions     `json:"specificationExtension,omitempty"`
}

func (*BasicAuthenticationSecurity) isSecurityDefinition() {}
func (*APIKeySecurity) isSecurityDefinition()              {}
func (*OAuth2ImplicitSecurity) isSecurityDefinition()      {}
func (*OAuth2PasswordSecurity) isSecurityDefinition()      {}
func (*OAuth2ApplicationSecurity) isSecurityDefinition()   {}
func (*OAuth2AccessCodeSecurity) isSecurityDefinition()    {}

// SecurityRequirement maps security definition names to required scopes.
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
