package openapiv3

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/jsonschema"
	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string, opts ...compiler.Option) (*Document, []compiler.Diagnostic) {
	t.Helper()
	doc, diags, err := ParseDocument([]byte(src), opts...)
	require.NoError(t, err)
	require.NotNil(t, doc)
	return doc, diags
}

func messages(diags []compiler.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.PathString() + " " + d.Message
	}
	return out
}

func readPetstore(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/petstore.yaml")
	require.NoError(t, err)
	return data
}

func TestMinimalDocument(t *testing.T) {
	doc, diags := parse(t, `{"openapi":"3.0.0","info":{"title":"Pet Store","version":"1.0.0"},"paths":{}}`)
	assert.Empty(t, diags)
	assert.Equal(t, "3.0.0", doc.OpenAPI)
	assert.Equal(t, "3.0", doc.Version())
	assert.Equal(t, "Pet Store", doc.Info.Title)
	require.NotNil(t, doc.Paths)
	assert.Empty(t, doc.Paths.Path)
	assert.NotNil(t, doc.Extensions)
}

func TestVendorExtension(t *testing.T) {
	doc, diags := parse(t, `
openapi: 3.0.0
info:
  title: X
  version: "1"
  x-internal-id: 42
paths: {}
x-logo: {url: logo.png}
`)
	assert.Empty(t, diags)
	require.Len(t, doc.Info.Extensions, 1)
	assert.Equal(t, "x-internal-id", doc.Info.Extensions[0].Name)
	assert.Equal(t, "42\n", doc.Info.Extensions[0].Value.YAML)
	assert.Equal(t, []string{"x-logo"}, doc.Extensions.Names())
}

func TestUnknownKeysAreKeptAndReported(t *testing.T) {
	doc, diags := parse(t, `
openapi: 3.0.0
info: {title: X, version: "1", colour: blue}
paths:
  /a: {get: {responses: {"200": {description: ok}}}}
  not-a-path: {}
`)
	assert.Equal(t, []string{"colour"}, doc.Info.Extensions.Names())
	assert.Equal(t, []string{"not-a-path"}, doc.Paths.Extensions.Names())
	assert.Equal(t, []string{
		"$.info has invalid property: colour",
		"$.paths has invalid property: not-a-path",
	}, messages(diags))
}

func TestMismatchIsNotFatal(t *testing.T) {
	doc, diags := parse(t, `
openapi: 3.0.0
info: {title: [not, a, string], version: "1"}
paths:
  /pets:
    get:
      deprecated: sometimes
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {type: 42}
`)
	require.NotNil(t, doc.Info)
	assert.Equal(t, "", doc.Info.Title)
	assert.Equal(t, "1", doc.Info.Version)

	item, ok := compiler.Lookup(doc.Paths.Path, "/pets")
	require.True(t, ok)
	require.NotNil(t, item.Get)
	assert.False(t, item.Get.Deprecated)
	resp, ok := compiler.Lookup(item.Get.Responses.ResponseOrReference, "200")
	require.True(t, ok)
	media, ok := compiler.Lookup(resp.(*Response).Content, "application/json")
	require.True(t, ok)
	assert.Nil(t, media.Schema.Type)

	assert.Equal(t, []string{
		"$.info.title has unexpected value: [array]",
		"$.paths./pets.get.responses.200.content.application/json.schema.type has unexpected value: 42 (integer)",
		"$.paths./pets.get.deprecated has unexpected value: sometimes (string)",
	}, messages(diags))
}

func TestMissingRequiredProperties(t *testing.T) {
	_, diags := parse(t, `
info: {title: X}
paths:
  /a:
    get: {}
`)
	assert.Equal(t, []string{
		"$ is missing required property: openapi",
		"$.info is missing required property: version",
		"$.paths./a.get is missing required property: responses",
	}, messages(diags))
}

func TestPetstore(t *testing.T) {
	doc, diags, err := ParseDocument(readPetstore(t))
	require.NoError(t, err)
	assert.Empty(t, messages(diags))

	assert.Equal(t, "Swagger Petstore", doc.Info.Title)
	assert.Equal(t, "apiteam@example.com", doc.Info.Contact.Email)
	require.Len(t, doc.Servers, 1)
	region, ok := compiler.Lookup(doc.Servers[0].Variables, "region")
	require.True(t, ok)
	assert.Equal(t, []string{"us", "eu"}, region.Enum)

	assert.Equal(t, []string{"/pets", "/pets/{petId}"}, compiler.EntryNames(doc.Paths.Path))
	pets, _ := compiler.Lookup(doc.Paths.Path, "/pets")

	get := pets.Get
	assert.Equal(t, "listPets", get.OperationID)
	require.Len(t, get.Parameters, 1)
	limit, ok := get.Parameters[0].(*Parameter)
	require.True(t, ok)
	assert.Equal(t, InQuery, limit.In)
	assert.Equal(t, jsonschema.SingleType("integer"), limit.Schema.Type)
	assert.Equal(t, jsonschema.Integer(100), limit.Schema.Maximum)

	def, ok := get.Responses.Default.(*Reference)
	require.True(t, ok)
	assert.Equal(t, "#/components/responses/Error", def.Ref)
	ok200, _ := compiler.Lookup(get.Responses.ResponseOrReference, "200")
	next, ok := compiler.Lookup(ok200.(*Response).Headers, "x-next")
	require.True(t, ok)
	assert.Equal(t, "A link to the next page of responses", next.(*Header).Description)

	post := pets.Post
	body, ok := post.RequestBody.(*RequestBody)
	require.True(t, ok)
	assert.True(t, body.Required)
	media, _ := compiler.Lookup(body.Content, "application/json")
	assert.Equal(t, "#/components/schemas/Pet", media.Schema.Ref)
	rex, _ := compiler.Lookup(media.Examples, "rex")
	assert.Equal(t, "id: 1\nname: Rex\n", rex.(*Example).Value.YAML)

	created, _ := compiler.Lookup(post.Responses.ResponseOrReference, "201")
	link, _ := compiler.Lookup(created.(*Response).Links, "GetPet")
	assert.Equal(t, "showPetById", link.(*Link).OperationID)
	assert.Equal(t, "petId", link.(*Link).Parameters[0].Name)

	cb, _ := compiler.Lookup(post.Callbacks, "onCreated")
	callback, ok := cb.(*Callback)
	require.True(t, ok)
	assert.Equal(t, []string{"{$request.body#/callbackUrl}"}, compiler.EntryNames(callback.Path))

	require.Len(t, post.Security, 1)
	assert.Equal(t, "petstore_auth", post.Security[0].AdditionalProperties[0].Name)
	assert.Equal(t, []string{"write:pets", "read:pets"}, post.Security[0].AdditionalProperties[0].Value)

	byID, _ := compiler.Lookup(doc.Paths.Path, "/pets/{petId}")
	ref, ok := byID.Parameters[0].(*Reference)
	require.True(t, ok)
	assert.Equal(t, "#/components/parameters/PetID", ref.Ref)
	assert.Equal(t, []string{"200", "4XX"}, compiler.EntryNames(byID.Get.Responses.ResponseOrReference))

	c := doc.Components
	assert.Equal(t, []string{"Pet", "Pets", "Error"}, compiler.EntryNames(c.Schemas))
	pet, _ := compiler.Lookup(c.Schemas, "Pet")
	assert.True(t, pet.Properties.Get("tag").Nullable)
	petID, _ := compiler.Lookup(c.Parameters, "PetID")
	assert.Equal(t, InPath, petID.(*Parameter).In)

	auth, _ := compiler.Lookup(c.SecuritySchemes, "petstore_auth")
	scheme := auth.(*SecurityScheme)
	assert.Equal(t, SchemeOAuth2, scheme.Type)
	require.NotNil(t, scheme.Flows.Implicit)
	assert.Equal(t, "write:pets", scheme.Flows.Implicit.Scopes[0].Name)
	key, _ := compiler.Lookup(c.SecuritySchemes, "api_key")
	assert.Equal(t, "header", key.(*SecurityScheme).In)

	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "https://example.com/docs", doc.ExternalDocs.URL)
}

func TestParameterLocationFallback(t *testing.T) {
	doc, diags := parse(t, `
openapi: 3.0.0
info: {title: X, version: "1"}
paths:
  /a:
    parameters:
      - {name: sid, in: cookie}
      - {name: q, in: body}
`)
	item, _ := compiler.Lookup(doc.Paths.Path, "/a")
	require.Len(t, item.Parameters, 2)
	assert.Equal(t, InCookie, item.Parameters[0].(*Parameter).In)
	assert.Equal(t, InQuery, item.Parameters[1].(*Parameter).In)
	assert.Equal(t, []string{"$.paths./a.parameters[1].in has unexpected value: body (string)"}, messages(diags))
}

func TestSecuritySchemeTypes(t *testing.T) {
	doc, diags := parse(t, `
openapi: 3.0.0
info: {title: X, version: "1"}
paths: {}
components:
  securitySchemes:
    bearer: {type: http, scheme: bearer, bearerFormat: JWT}
    oidc: {type: openIdConnect}
    odd: {type: mutualTLS, description: kept}
`)
	bearer, _ := compiler.Lookup(doc.Components.SecuritySchemes, "bearer")
	assert.Equal(t, "JWT", bearer.(*SecurityScheme).BearerFormat)
	odd, _ := compiler.Lookup(doc.Components.SecuritySchemes, "odd")
	assert.Equal(t, SecuritySchemeType("mutualTLS"), odd.(*SecurityScheme).Type)
	assert.Equal(t, "kept", odd.(*SecurityScheme).Description)
	assert.Equal(t, []string{
		"$.components.securitySchemes.oidc is missing required property: openIdConnectUrl",
		"$.components.securitySchemes.odd.type has unexpected value: mutualTLS (string)",
	}, messages(diags))
}

func TestReferenceSiblings(t *testing.T) {
	doc, diags := parse(t, `
openapi: 3.0.0
info: {title: X, version: "1"}
paths: {}
components:
  parameters:
    P: {$ref: '#/components/parameters/Q', description: see Q, name: ignored}
`)
	p, _ := compiler.Lookup(doc.Components.Parameters, "P")
	ref := p.(*Reference)
	assert.Equal(t, "see Q", ref.Description)
	assert.Equal(t, []string{"$.components.parameters.P has invalid property: name"}, messages(diags))
}

type docs map[string]string

func (d docs) ReadRef(_ context.Context, _, ref string) (*node.Node, string, error) {
	document, fragment, _ := strings.Cut(ref, "#")
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

func TestInlineExternalReferences(t *testing.T) {
	refs := docs{
		"common.yaml": `
Limit: {name: limit, in: query, schema: {type: integer}}
NotFound: {description: not found}
`,
	}
	doc, diags := parse(t, `
openapi: 3.0.0
info: {title: X, version: "1"}
paths:
  /a:
    get:
      parameters:
        - $ref: 'common.yaml#Limit'
        - $ref: '#/components/parameters/Local'
      responses:
        "404": {$ref: 'common.yaml#NotFound'}
        "500": {$ref: 'missing.yaml#Oops'}
`, compiler.WithRefReader(refs, "api.yaml"))

	item, _ := compiler.Lookup(doc.Paths.Path, "/a")
	limit, ok := item.Get.Parameters[0].(*Parameter)
	require.True(t, ok)
	assert.Equal(t, "limit", limit.Name)
	_, ok = item.Get.Parameters[1].(*Reference)
	assert.True(t, ok)

	notFound, _ := compiler.Lookup(item.Get.Responses.ResponseOrReference, "404")
	assert.Equal(t, "not found", notFound.(*Response).Description)
	broken, _ := compiler.Lookup(item.Get.Responses.ResponseOrReference, "500")
	assert.Equal(t, "missing.yaml#Oops", broken.(*Reference).Ref)

	require.Len(t, diags, 1)
	assert.Equal(t, "$.paths./a.get.responses.500", diags[0].PathString())
}

func TestMalformedRoot(t *testing.T) {
	for _, src := range []string{`- a list`, `just text`, `{"openapi": `} {
		doc, diags, err := ParseDocument([]byte(src))
		assert.ErrorIs(t, err, oaserrors.ErrParse, src)
		assert.Nil(t, doc)
		assert.Nil(t, diags)
	}

	_, err := Build(compiler.NewContext(), nil)
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

func TestIdempotent(t *testing.T) {
	data := readPetstore(t)
	first, _, err := ParseDocument(data)
	require.NoError(t, err)
	second, _, err := ParseDocument(data)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second build differs (-first +second):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	first, _, err := ParseDocument(readPetstore(t))
	require.NoError(t, err)

	out, err := MarshalYAML(first)
	require.NoError(t, err)
	second, diags, err := ParseDocument(out)
	require.NoError(t, err)
	assert.Empty(t, diags)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestMarshalJSON(t *testing.T) {
	doc, _ := parse(t, `
openapi: 3.0.0
info: {title: X, version: "1"}
paths:
  /a:
    $ref: 'other.yaml#/paths/~1a'
x-a: 1
`)
	out, err := MarshalJSON(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n  \"openapi\": \"3.0.0\",\n  \"info\": {\n    \"title\": \"X\""))

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	paths := generic["paths"].(map[string]any)["path"].([]any)
	assert.Equal(t, "other.yaml#/paths/~1a", paths[0].(map[string]any)["value"].(map[string]any)["_ref"])
	ext := generic["specificationExtension"].([]any)[0].(map[string]any)
	assert.Equal(t, "x-a", ext["name"])
	assert.NotContains(t, string(out), "servers")
}
