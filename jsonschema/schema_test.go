package jsonschema

import (
	"context"
	"testing"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, d Dialect, src string, opts ...compiler.Option) (*Schema, []compiler.Diagnostic) {
	t.Helper()
	n, err := node.Parse([]byte(src))
	require.NoError(t, err)
	ctx := compiler.NewContext(opts...)
	return Builder{Dialect: d}.Build(ctx, n), ctx.Diagnostics()
}

func diagStrings(diags []compiler.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.PathString() + " " + d.Message
	}
	return out
}

func TestAdditionalProperties(t *testing.T) {
	s, diags := build(t, Draft4, `{"type":"object","additionalProperties":false}`)
	require.Empty(t, diags)
	assert.Equal(t, DenyAll, s.AdditionalProperties)

	s, diags = build(t, Draft4, `{"additionalProperties":true}`)
	require.Empty(t, diags)
	assert.Equal(t, AllowAll, s.AdditionalProperties)

	s, diags = build(t, Draft4, `{"additionalProperties":{"type":"string"}}`)
	require.Empty(t, diags)
	nested, ok := s.AdditionalProperties.(*Schema)
	require.True(t, ok)
	assert.Equal(t, SingleType("string"), nested.Type)

	s, diags = build(t, Draft4, `{}`)
	require.Empty(t, diags)
	assert.Nil(t, s.AdditionalProperties)

	s, diags = build(t, Draft4, `{"additionalProperties":"yes"}`)
	assert.Nil(t, s.AdditionalProperties)
	assert.Equal(t, []string{"$.additionalProperties has unexpected value: yes (string)"}, diagStrings(diags))
}

func TestTypeShapes(t *testing.T) {
	s, diags := build(t, Draft4, `type: string`)
	require.Empty(t, diags)
	assert.Equal(t, SingleType("string"), s.Type)

	s, diags = build(t, Draft4, `type: [string, "null"]`)
	require.Empty(t, diags)
	assert.Equal(t, MultipleTypes{"string", "null"}, s.Type)

	s, diags = build(t, Draft4, "type: 42\ntitle: kept\n")
	assert.Nil(t, s.Type)
	assert.Equal(t, "kept", s.Title)
	require.Len(t, diags, 1)
	assert.Equal(t, "$.type", diags[0].PathString())
	assert.Equal(t, "has unexpected value: 42 (integer)", diags[0].Message)
	assert.Equal(t, 1, diags[0].Line)

	// OpenAPI v3 only allows a single type.
	s, diags = build(t, OpenAPIv3, `type: [string, integer]`)
	assert.Nil(t, s.Type)
	assert.Len(t, diags, 1)
}

func TestItemsShapes(t *testing.T) {
	s, diags := build(t, Draft4, `items: {type: integer}`)
	require.Empty(t, diags)
	single, ok := s.Items.(*Schema)
	require.True(t, ok)
	assert.Equal(t, SingleType("integer"), single.Type)

	s, diags = build(t, Draft4, `items: [{type: integer}, {type: string}]`)
	require.Empty(t, diags)
	list, ok := s.Items.(SchemaList)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, SingleType("string"), list[1].Type)

	s, diags = build(t, Draft4, `items: [{type: integer}, 7]`)
	list, ok = s.Items.(SchemaList)
	require.True(t, ok)
	assert.Len(t, list, 1)
	assert.Equal(t, []string{"$.items[1] has unexpected value: 7 (integer)"}, diagStrings(diags))

	s, diags = build(t, Draft4, `items: nope`)
	assert.Nil(t, s.Items)
	assert.Len(t, diags, 1)
}

func TestCombinators(t *testing.T) {
	s, diags := build(t, Draft4, `{"allOf":[],"anyOf":[{"type":"string"}]}`)
	require.Empty(t, diags)
	assert.NotNil(t, s.AllOf)
	assert.Empty(t, s.AllOf)
	assert.Len(t, s.AnyOf, 1)
	assert.Nil(t, s.OneOf)
	assert.Nil(t, s.Not)

	s, diags = build(t, Draft4, `not: {type: "null"}`)
	require.Empty(t, diags)
	require.NotNil(t, s.Not)
	assert.Equal(t, SingleType("null"), s.Not.Type)
}

func TestPropertiesKeepOrder(t *testing.T) {
	s, diags := build(t, Draft4, `
properties:
  zeta: {type: string}
  alpha: {type: integer}
  mid: {$ref: '#/definitions/Mid'}
definitions:
  Mid: {type: boolean}
patternProperties:
  "^x-": {}
required: [zeta]
`)
	require.Empty(t, diags)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, s.Properties.Names())
	assert.Equal(t, "#/definitions/Mid", s.Properties.Get("mid").Ref)
	assert.Equal(t, SingleType("boolean"), s.Definitions.Get("Mid").Type)
	assert.Len(t, s.PatternProperties, 1)
	assert.Equal(t, []string{"zeta"}, s.Required)
	assert.Nil(t, s.Properties.Get("missing"))
}

func TestDependencies(t *testing.T) {
	s, diags := build(t, Draft4, `
dependencies:
  billing: [address, card]
  credit: {required: [cvv]}
  bad: 3
`)
	require.Len(t, s.Dependencies, 2)
	assert.Equal(t, StringArray{"address", "card"}, s.Dependencies[0].Value)
	dep, ok := s.Dependencies[1].Value.(*Schema)
	require.True(t, ok)
	assert.Equal(t, []string{"cvv"}, dep.Required)
	assert.Equal(t, []string{"$.dependencies.bad has unexpected value: 3 (integer)"}, diagStrings(diags))
}

func TestNumbersAndLimits(t *testing.T) {
	s, diags := build(t, Draft4, `
multipleOf: 0.5
maximum: 10
exclusiveMaximum: true
minimum: 1.0
minLength: 0
maxItems: 3
uniqueItems: false
`)
	require.Empty(t, diags)
	assert.Equal(t, Float(0.5), s.MultipleOf)
	assert.Equal(t, Integer(10), s.Maximum)
	assert.Equal(t, Float(1), s.Minimum)
	require.NotNil(t, s.ExclusiveMaximum)
	assert.True(t, *s.ExclusiveMaximum)
	require.NotNil(t, s.MinLength)
	assert.Equal(t, int64(0), *s.MinLength)
	require.NotNil(t, s.UniqueItems)
	assert.False(t, *s.UniqueItems)
	assert.Nil(t, s.MaxLength)

	v, ok := NumberValue(s.Maximum)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, v, 0)
	_, ok = NumberValue(nil)
	assert.False(t, ok)

	_, diags = build(t, Draft4, `{"maximum":"10","maxLength":"5"}`)
	assert.Equal(t, []string{
		"$.maximum has unexpected value: 10 (string)",
		"$.maxLength has unexpected value: 5 (string)",
	}, diagStrings(diags))
}

func TestExtensions(t *testing.T) {
	s, diags := build(t, Draft4, "type: string\nx-internal-id: 42\n")
	require.Empty(t, diags)
	require.Len(t, s.Extensions, 1)
	assert.Equal(t, "x-internal-id", s.Extensions[0].Name)
	assert.Equal(t, "42\n", s.Extensions[0].Value.YAML)

	s, diags = build(t, Draft4, "type: string\nunknown: true\n")
	require.Len(t, s.Extensions, 1)
	assert.Equal(t, []string{"$ has invalid property: unknown"}, diagStrings(diags))

	s, _ = build(t, Draft4, "type: string\n")
	assert.NotNil(t, s.Extensions)
	assert.Empty(t, s.Extensions)
}

func TestDialects(t *testing.T) {
	src := `
type: object
discriminator: petType
readOnly: true
nullable: true
definitions: {}
externalDocs: {url: 'https://example.com'}
`
	s, diags := build(t, OpenAPIv2, src)
	require.NotNil(t, s.Discriminator)
	assert.Equal(t, "petType", s.Discriminator.PropertyName)
	assert.True(t, s.ReadOnly)
	assert.False(t, s.Nullable)
	assert.Nil(t, s.Definitions)
	assert.Equal(t, "https://example.com", s.ExternalDocs.URL)
	assert.Equal(t, []string{"nullable", "definitions"}, s.Extensions.Names())
	assert.Equal(t, []string{
		"$ has invalid property: nullable",
		"$ has invalid property: definitions",
	}, diagStrings(diags))

	s, diags = build(t, OpenAPIv3, `
nullable: true
writeOnly: true
deprecated: true
discriminator:
  propertyName: kind
  mapping:
    dog: '#/components/schemas/Dog'
xml: {name: pet, wrapped: true}
oneOf: [{$ref: '#/components/schemas/Dog'}]
`)
	require.Empty(t, diags)
	assert.True(t, s.Nullable)
	assert.True(t, s.WriteOnly)
	assert.True(t, s.Deprecated)
	assert.Equal(t, "kind", s.Discriminator.PropertyName)
	assert.Equal(t, "dog", s.Discriminator.Mapping[0].Name)
	assert.Equal(t, "pet", s.XML.Name)
	assert.True(t, s.XML.Wrapped)
	assert.Len(t, s.OneOf, 1)

	_, diags = build(t, OpenAPIv3, `discriminator: kind`)
	assert.Equal(t, []string{"$.discriminator has unexpected value: kind (string)"}, diagStrings(diags))

	// In plain Draft-4 the OpenAPI keywords are extensions.
	s, diags = build(t, Draft4, `nullable: true`)
	assert.False(t, s.Nullable)
	assert.Len(t, diags, 1)
}

func TestBuildNonMapping(t *testing.T) {
	s, diags := build(t, Draft4, `[1, 2]`)
	assert.Nil(t, s)
	assert.Equal(t, []string{"$ has unexpected value: [array]"}, diagStrings(diags))

	s, diags = build(t, Draft4, "properties:\n  a: 1\n  b: {type: string}\n")
	assert.Equal(t, []string{"b"}, s.Properties.Names())
	assert.Equal(t, []string{"$.properties.a has unexpected value: 1 (integer)"}, diagStrings(diags))
}

func TestMaxDepth(t *testing.T) {
	src := "{not: {not: {not: {not: {not: {type: string}}}}}}"
	s, diags := build(t, Draft4, src, compiler.WithMaxDepth(3))
	require.NotNil(t, s)
	require.Len(t, diags, 1)
	assert.Equal(t, "$.not.not.not", diags[0].PathString())
	assert.Equal(t, "exceeds maximum nesting depth of 3", diags[0].Message)
	assert.Nil(t, s.Not.Not.Not)
}

type docs map[string]string

func (d docs) ReadRef(_ context.Context, _, ref string) (*node.Node, string, error) {
	document, fragment, _ := cutRef(ref)
	src, ok := d[document]
	if !ok {
		return nil, "", &oaserrors.ReadError{Locator: document, Kind: oaserrors.KindNotFound}
	}
	n, err := node.Parse([]byte(src))
	if err != nil {
		return nil, "", err
	}
	if fragment != "" {
		n = n.Lookup(fragment)
	}
	return n, document, nil
}

// cutRef splits "doc#name" where the fragment is a single top-level key.
func cutRef(ref string) (string, string, bool) {
	for i := range ref {
		if ref[i] == '#' {
			return ref[:i], ref[i+1:], true
		}
	}
	return ref, "", false
}

func TestInlineExternalRefs(t *testing.T) {
	refs := docs{
		"pet.yaml": "Pet:\n  type: object\n  properties:\n    tag: {$ref: 'tag.yaml#Tag'}\n",
		"tag.yaml": "Tag:\n  type: string\n",
		"loop.yaml": "Loop:\n  properties:\n    self: {$ref: 'loop.yaml#Loop'}\n",
	}
	opts := []compiler.Option{compiler.WithRefReader(refs, "api.yaml")}

	s, diags := build(t, OpenAPIv3, "properties:\n  pet: {$ref: 'pet.yaml#Pet'}\n  local: {$ref: '#/components/schemas/X'}\n", opts...)
	require.Empty(t, diags)
	pet := s.Properties.Get("pet")
	assert.Equal(t, "", pet.Ref)
	assert.Equal(t, SingleType("object"), pet.Type)
	assert.Equal(t, SingleType("string"), pet.Properties.Get("tag").Type)
	assert.Equal(t, "#/components/schemas/X", s.Properties.Get("local").Ref)

	s, diags = build(t, OpenAPIv3, "$ref: 'loop.yaml#Loop'\n", opts...)
	require.NotNil(t, s)
	require.Len(t, diags, 1)
	assert.Equal(t, "has circular reference: loop.yaml#Loop", diags[0].Message)
	assert.Equal(t, "loop.yaml#Loop", s.Properties.Get("self").Ref)

	s, diags = build(t, OpenAPIv3, "$ref: 'missing.yaml#X'\n", opts...)
	assert.Equal(t, "missing.yaml#X", s.Ref)
	assert.Len(t, diags, 1)

	// Without a reader the reference is kept.
	s, diags = build(t, OpenAPIv3, "$ref: 'pet.yaml#Pet'\n")
	require.Empty(t, diags)
	assert.Equal(t, "pet.yaml#Pet", s.Ref)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		dialect Dialect
		src     string
	}{
		{Draft4, `
$schema: http://json-schema.org/draft-04/schema#
id: urn:pet
title: Pet
type: [object, "null"]
required: [name]
properties:
  name: {type: string, minLength: 1, pattern: '^[a-z]+$'}
  weight: {type: number, minimum: 0.0, exclusiveMinimum: true, multipleOf: 0.25}
  tags: {type: array, items: [{type: string}], additionalItems: false, uniqueItems: true}
additionalProperties: {type: integer}
patternProperties: {'^x-': {}}
dependencies: {name: [weight]}
enum: [a, 1, null]
default: {name: rex}
allOf: []
not: {type: boolean}
definitions: {Empty: {}}
`},
		{OpenAPIv2, `
type: object
discriminator: kind
readOnly: true
xml: {name: pet, attribute: true}
example: {kind: dog}
externalDocs: {description: more, url: 'https://example.com'}
properties: {kind: {type: string}}
`},
		{OpenAPIv3, `
type: object
nullable: true
discriminator: {propertyName: kind, mapping: {dog: Dog}}
oneOf: [{$ref: '#/components/schemas/Dog'}]
anyOf: []
writeOnly: true
deprecated: true
`},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			first, diags := build(t, tt.dialect, tt.src)
			require.Empty(t, diags)

			ctx := compiler.NewContext()
			second := Builder{Dialect: tt.dialect}.Build(ctx, first.ToNode(tt.dialect))
			require.Empty(t, ctx.Diagnostics())
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestString(t *testing.T) {
	s, _ := build(t, Draft4, `
title: Test Schema
description: A test schema
type: object
properties:
  name: {type: string}
`)
	out := s.String()
	assert.Contains(t, out, "title: Test Schema\n")
	assert.Contains(t, out, "type: object\n")
	assert.Contains(t, out, "description: A test schema\n")
	assert.Contains(t, out, "properties:\n  name:\n    type: string\n")

	assert.Equal(t, "one, two", Description(MultipleTypes{"one", "two"}))
	assert.Equal(t, "", (*Schema)(nil).String())
}

func TestIsEmptyAndTypeName(t *testing.T) {
	s, _ := build(t, Draft4, `{}`)
	assert.True(t, s.IsEmpty())
	_, ok := s.TypeName()
	assert.False(t, ok)

	s, _ = build(t, Draft4, `{type: [integer, string]}`)
	assert.False(t, s.IsEmpty())
	name, ok := s.TypeName()
	assert.True(t, ok)
	assert.Equal(t, "integer", name)

	s, _ = build(t, Draft4, `{format: int32}`)
	assert.True(t, s.IsEmpty())
}

func TestParse(t *testing.T) {
	s, diags, err := Parse([]byte(`{"type":"string","x-a":1}`))
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, SingleType("string"), s.Type)

	_, _, err = Parse([]byte(`"just a string"`))
	assert.ErrorIs(t, err, oaserrors.ErrParse)

	_, _, err = Parse([]byte(`{"type": `))
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}
