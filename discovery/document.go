// Package discovery models Google API Discovery documents and the Discovery
// directory list.
//
// Discovery documents are JSON. Large integers are usually written as
// strings there, so numeric bounds accept both spellings and keep the text
// as written.
package discovery

import "github.com/erraggy/oascompiler/compiler"

// Named is an entry of an ordered mapping.
type Named[T any] = compiler.Named[T]

// Document is the root of a Discovery document.
type Document struct {
	Kind                         string              `json:"kind,omitempty"`
	DiscoveryVersion             string              `json:"discoveryVersion,omitempty"`
	ID                           string              `json:"id,omitempty"`
	Name                         string              `json:"name,omitempty"`
	Version                      string              `json:"version,omitempty"`
	Revision                     string              `json:"revision,omitempty"`
	Title                        string              `json:"title,omitempty"`
	Description                  string              `json:"description,omitempty"`
	Icons                        *Icons              `json:"icons,omitempty"`
	DocumentationLink            string              `json:"documentationLink,omitempty"`
	Labels                       []string            `json:"labels,omitempty"`
	Protocol                     string              `json:"protocol,omitempty"`
	BaseURL                      string              `json:"baseUrl,omitempty"`
	BasePath                     string              `json:"basePath,omitempty"`
	RootURL                      string              `json:"rootUrl,omitempty"`
	ServicePath                  string              `json:"servicePath,omitempty"`
	BatchPath                    string              `json:"batchPath,omitempty"`
	Parameters                   []*Named[*Schema]   `json:"parameters,omitempty"`
	Auth                         *Auth               `json:"auth,omitempty"`
	Features                     []string            `json:"features,omitempty"`
	Schemas                      []*Named[*Schema]   `json:"schemas,omitempty"`
	Methods                      []*Named[*Method]   `json:"methods,omitempty"`
	Resources                    []*Named[*Resource] `json:"resources,omitempty"`
	Etag                         string              `json:"etag,omitempty"`
	OwnerDomain                  string              `json:"ownerDomain,omitempty"`
	OwnerName                    string              `json:"ownerName,omitempty"`
	VersionModule                bool                `json:"versionModule,omitempty"`
	CanonicalName                string              `json:"canonicalName,omitempty"`
	FullyEncodeReservedExpansion bool                `json:"fullyEncodeReservedExpansion,omitempty"`
	PackagePath                  string              `json:"packagePath,omitempty"`
	MTLSRootURL                  string              `json:"mtlsRootUrl,omitempty"`
	Extensions                   compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Icons links to 16x16 and 32x32 icons for the API.
type Icons struct {
	X16        string              `json:"x16,omitempty"`
	X32        string              `json:"x32,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// SchemaType is the type discriminator of a Schema.
type SchemaType string

// The Discovery schema types.
const (
	TypeAny     SchemaType = "any"
	TypeArray   SchemaType = "array"
	TypeBoolean SchemaType = "boolean"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeNull    SchemaType = "null"
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
)

// Schema describes a schema or a parameter. Fields that do not apply to
// Type are kept when present.
type Schema struct {
	ID                   string              `json:"id,omitempty"`
	Type                 SchemaType          `json:"type,omitempty"`
	Ref                  string              `json:"_ref,omitempty"`
	Description          string              `json:"description,omitempty"`
	Default              string              `json:"default,omitempty"`
	Required             bool                `json:"required,omitempty"`
	Format               string              `json:"format,omitempty"`
	Pattern              string              `json:"pattern,omitempty"`
	Minimum              string              `json:"minimum,omitempty"`
	Maximum              string              `json:"maximum,omitempty"`
	Enum                 []string            `json:"enum,omitempty"`
	EnumDescriptions     []string            `json:"enumDescriptions,omitempty"`
	Repeated             bool                `json:"repeated,omitempty"`
	Location             string              `json:"location,omitempty"`
	Properties           []*Named[*Schema]   `json:"properties,omitempty"`
	AdditionalProperties *Schema             `json:"additionalProperties,omitempty"`
	Items                *Schema             `json:"items,omitempty"`
	Annotations          *Annotations        `json:"annotations,omitempty"`
	ReadOnly             bool                `json:"readOnly,omitempty"`
	Deprecated           bool                `json:"deprecated,omitempty"`
	Extensions           compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Annotations lists the methods for which a property is required.
type Annotations struct {
	Required   []string            `json:"required,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Auth describes the authentication an API supports.
type Auth struct {
	OAuth2     *OAuth2             `json:"oauth2,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// OAuth2 lists the OAuth 2.0 scopes of an API.
type OAuth2 struct {
	Scopes     []*Named[*Scope]    `json:"scopes,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Scope describes one OAuth 2.0 scope.
type Scope struct {
	Description string              `json:"description,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Resource groups methods and nested resources.
type Resource struct {
	Methods    []*Named[*Method]   `json:"methods,omitempty"`
	Resources  []*Named[*Resource] `json:"resources,omitempty"`
	Deprecated bool                `json:"deprecated,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Method describes one RPC of the API.
type Method struct {
	ID                      string              `json:"id,omitempty"`
	Path                    string              `json:"path,omitempty"`
	HTTPMethod              string              `json:"httpMethod,omitempty"`
	Description             string              `json:"description,omitempty"`
	Parameters              []*Named[*Schema]   `json:"parameters,omitempty"`
	ParameterOrder          []string            `json:"parameterOrder,omitempty"`
	Request                 *Request            `json:"request,omitempty"`
	Response                *Response           `json:"response,omitempty"`
	Scopes                  []string            `json:"scopes,omitempty"`
	SupportsMediaDownload   bool                `json:"supportsMediaDownload,omitempty"`
	SupportsMediaUpload     bool                `json:"supportsMediaUpload,omitempty"`
	UseMediaDownloadService bool                `json:"useMediaDownloadService,omitempty"`
	MediaUpload             *MediaUpload        `json:"mediaUpload,omitempty"`
	SupportsSubscription    bool                `json:"supportsSubscription,omitempty"`
	FlatPath                string              `json:"flatPath,omitempty"`
	EtagRequired            bool                `json:"etagRequired,omitempty"`
	StreamingType           string              `json:"streamingType,omitempty"`
	APIVersion              string              `json:"apiVersion,omitempty"`
	Deprecated              bool                `json:"deprecated,omitempty"`
	Extensions              compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Request names the schema of a request body.
type Request struct {
	Ref           string              `json:"_ref,omitempty"`
	ParameterName string              `json:"parameterName,omitempty"`
	Extensions    compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Response names the schema of a response body.
type Response struct {
	Ref        string              `json:"_ref,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// MediaUpload describes the media upload parameters of a method.
type MediaUpload struct {
	Accept               []string            `json:"accept,omitempty"`
	MaxSize              string              `json:"maxSize,omitempty"`
	Protocols            *Protocols          `json:"protocols,omitempty"`
	SupportsSubscription bool                `json:"supportsSubscription,omitempty"`
	Extensions           compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Protocols lists the supported upload protocols.
type Protocols struct {
	Simple     *Simple             `json:"simple,omitempty"`
	Resumable  *Resumable          `json:"resumable,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Simple is the simple upload protocol.
type Simple struct {
	Multipart  bool                `json:"multipart,omitempty"`
	Path       string              `json:"path,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// Resumable is the resumable upload protocol.
type Resumable struct {
	Multipart  bool                `json:"multipart,omitempty"`
	Path       string              `json:"path,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}
