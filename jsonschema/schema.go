// Package jsonschema models JSON Schema Draft-4 and builds schemas from
// untyped document nodes.
//
// The same [Schema] type serves stand-alone Draft-4 documents and the schema
// objects embedded in OpenAPI v2 and v3 documents. A [Dialect] selects which
// of the OpenAPI keywords (nullable, discriminator, readOnly, xml, ...) a
// builder recognizes; in the plain Draft-4 dialect those keys are treated as
// extensions.
//
// Fields whose source shape varies are sealed unions. Consume them with a
// type switch:
//
//	switch t := s.Type.(type) {
//	case jsonschema.SingleType:
//	    fmt.Println("type", string(t))
//	case jsonschema.MultipleTypes:
//	    fmt.Println("one of", []string(t))
//	case nil:
//	    // unconstrained
//	}
package jsonschema

import "github.com/erraggy/oascompiler/compiler"

// Dialect selects the keyword set a Builder recognizes.
type Dialect int

const (
	// Draft4 is plain JSON Schema Draft-4.
	Draft4 Dialect = iota
	// OpenAPIv2 adds the Swagger 2.0 schema keywords.
	OpenAPIv2
	// OpenAPIv3 adds the OpenAPI 3.0 schema keywords.
	OpenAPIv3
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case OpenAPIv2:
		return "openapiv2"
	case OpenAPIv3:
		return "openapiv3"
	default:
		return "draft4"
	}
}

// Schema is a JSON Schema Draft-4 schema together with the OpenAPI dialect
// keywords. Pointer fields distinguish "absent" from the zero value.
type Schema struct {
	Schema      string        `json:"$schema,omitempty"`
	ID          string        `json:"id,omitempty"`
	Ref         string        `json:"$ref,omitempty"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Default     *compiler.Any `json:"default,omitempty"`

	MultipleOf       Number `json:"multipleOf,omitempty"`
	Maximum          Number `json:"maximum,omitempty"`
	ExclusiveMaximum *bool  `json:"exclusiveMaximum,omitempty"`
	Minimum          Number `json:"minimum,omitempty"`
	ExclusiveMinimum *bool  `json:"exclusiveMinimum,omitempty"`

	MaxLength *int64 `json:"maxLength,omitempty"`
	MinLength *int64 `json:"minLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	AdditionalItems SchemaOrBoolean `json:"additionalItems,omitempty"`
	Items           Items           `json:"items,omitempty"`
	MaxItems        *int64          `json:"maxItems,omitempty"`
	MinItems        *int64          `json:"minItems,omitempty"`
	UniqueItems     *bool           `json:"uniqueItems,omitempty"`

	MaxProperties        *int64             `json:"maxProperties,omitempty"`
	MinProperties        *int64             `json:"minProperties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties SchemaOrBoolean    `json:"additionalProperties,omitempty"`
	Definitions          NamedSchemas       `json:"definitions,omitempty"`
	Properties           NamedSchemas       `json:"properties,omitempty"`
	PatternProperties    NamedSchemas       `json:"patternProperties,omitempty"`
	Dependencies         []*NamedDependency `json:"dependencies,omitempty"`

	Enum   []*compiler.Any `json:"enum,omitempty"`
	Type   TypeValue       `json:"type,omitempty"`
	Format string          `json:"format,omitempty"`

	// Combinators are nil when absent. An empty, non-nil slice records an
	// explicitly empty list.
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`
	Not   *Schema   `json:"not,omitempty"`

	// OpenAPI dialect keywords.
	Nullable      bool           `json:"nullable,omitempty"`
	Discriminator *Discriminator `json:"discriminator,omitempty"`
	ReadOnly      bool           `json:"readOnly,omitempty"`
	WriteOnly     bool           `json:"writeOnly,omitempty"`
	XML           *XML           `json:"xml,omitempty"`
	ExternalDocs  *ExternalDocs  `json:"externalDocs,omitempty"`
	Example       *compiler.Any  `json:"example,omitempty"`
	Deprecated    bool           `json:"deprecated,omitempty"`

	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// NamedSchema pairs a property or definition name with its schema.
type NamedSchema struct {
	Name  string  `json:"name,omitempty"`
	Value *Schema `json:"value,omitempty"`
}

// NamedSchemas is an ordered name to schema mapping. A nil value means the
// keyword was absent.
type NamedSchemas []*NamedSchema

// Get returns the schema stored under name, or nil.
func (ns NamedSchemas) Get(name string) *Schema {
	for _, n := range ns {
		if n.Name == name {
			return n.Value
		}
	}
	return nil
}

// Names returns the names in declaration order.
func (ns NamedSchemas) Names() []string {
	names := make([]string, len(ns))
	for i, n := range ns {
		names[i] = n.Name
	}
	return names
}

// NamedDependency is one entry of the dependencies keyword.
type NamedDependency struct {
	Name  string     `json:"name,omitempty"`
	Value Dependency `json:"value,omitempty"`
}

// Discriminator names the property that selects a subtype. OpenAPI v2
// writes it as a bare property name, OpenAPI v3 as an object with an
// optional mapping.
type Discriminator struct {
	PropertyName string                  `json:"propertyName,omitempty"`
	Mapping      []*compiler.NamedString `json:"mapping,omitempty"`
	Extensions   compiler.Extensions     `json:"specificationExtension,omitempty"`
}

// XML holds the xml keyword of the OpenAPI dialects.
type XML struct {
	Name       string              `json:"name,omitempty"`
	Namespace  string              `json:"namespace,omitempty"`
	Prefix     string              `json:"prefix,omitempty"`
	Attribute  bool                `json:"attribute,omitempty"`
	Wrapped    bool                `json:"wrapped,omitempty"`
	Extensions compiler.Extensions `json:"specificationExtension,omitempty"`
}

// ExternalDocs points at additional documentation. The OpenAPI builders
// reuse it for their own externalDocs fields.
type ExternalDocs struct {
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Extensions  compiler.Extensions `json:"specificationExtension,omitempty"`
}

// TypeValue is the type keyword: SingleType or MultipleTypes. A nil value
// leaves the type unconstrained.
type TypeValue interface {
	isTypeValue()
}

// SingleType is a type keyword given as one string.
type SingleType string

// MultipleTypes is a type keyword given as a list of strings.
type MultipleTypes []string

func (SingleType) isTypeValue()    {}
func (MultipleTypes) isTypeValue() {}

// Items is the items keyword: *Schema or SchemaList.
type Items interface {
	isItems()
}

// SchemaList is an items keyword given as a list of schemas.
type SchemaList []*Schema

func (*Schema) isItems()    {}
func (SchemaList) isItems() {}

// SchemaOrBoolean is the additionalProperties or additionalItems keyword:
// Boolean or *Schema. A nil value is the default, which permits everything.
type SchemaOrBoolean interface {
	isSchemaOrBoolean()
}

// Boolean is a keyword given as true or false.
type Boolean bool

const (
	// AllowAll is an explicit true.
	AllowAll Boolean = true
	// DenyAll is an explicit false.
	DenyAll Boolean = false
)

func (*Schema) isSchemaOrBoolean() {}
func (Boolean) isSchemaOrBoolean() {}

// Dependency is one dependencies entry: *Schema or StringArray.
type Dependency interface {
	isDependency()
}

// StringArray is a property dependency given as a list of property names.
type StringArray []string

func (*Schema) isDependency()     {}
func (StringArray) isDependency() {}

// Number is a numeric keyword: Integer or Float. Integers stay integers so
// that 1 and 1.0 remain distinguishable.
type Number interface {
	isNumber()
}

// Integer is a number written without a fraction or exponent.
type Integer int64

// Float is any other number.
type Float float64

func (Integer) isNumber() {}
func (Float) isNumber()   {}

// NumberValue returns n as a float64. The second result is false when n is nil.
func NumberValue(n Number) (float64, bool) {
	switch v := n.(type) {
	case Integer:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}
