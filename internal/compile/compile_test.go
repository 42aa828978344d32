package compile

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/discovery"
	"github.com/erraggy/oascompiler/jsonschema"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/erraggy/oascompiler/openapiv2"
	"github.com/erraggy/oascompiler/openapiv3"
	"github.com/erraggy/oascompiler/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesDetectsFormat(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format oascompiler.Format
		want   any
	}{
		{"v3", `{"openapi": "3.0.3", "info": {"title": "T", "version": "1"}, "paths": {}}`, oascompiler.FormatOpenAPIv3, &openapiv3.Document{}},
		{"v2", `{"swagger": "2.0", "info": {"title": "T", "version": "1"}, "paths": {}}`, oascompiler.FormatOpenAPIv2, &openapiv2.Document{}},
		{"discovery", `{"discoveryVersion": "v1", "title": "T"}`, oascompiler.FormatDiscovery, &discovery.Document{}},
		{"wrapped discovery", `[{"discoveryVersion": "v1", "title": "T"}]`, oascompiler.FormatDiscovery, &discovery.Document{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Bytes(context.Background(), []byte(tt.input), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.format, res.Format)
			assert.IsType(t, tt.want, res.Document)
			assert.Empty(t, res.Diagnostics)
			assert.Equal(t, "T", res.Summary().Title)
		})
	}
}

func TestBytesForcedFormat(t *testing.T) {
	res, err := Bytes(context.Background(), []byte(`{"info": {"title": "T"}}`), Options{Format: oascompiler.FormatOpenAPIv2})
	require.NoError(t, err)
	assert.Equal(t, oascompiler.FormatOpenAPIv2, res.Format)
	assert.NotEmpty(t, res.Diagnostics)
}

func TestBytesUnknownFormat(t *testing.T) {
	_, err := Bytes(context.Background(), []byte(`{"info": {}}`), Options{})
	assert.ErrorIs(t, err, oaserrors.ErrParse)

	_, err = Bytes(context.Background(), []byte("{unclosed"), Options{})
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

func TestStrict(t *testing.T) {
	res, err := Bytes(context.Background(), []byte(`{"swagger": "2.0"}`), Options{Strict: true})
	var group *compiler.ErrorGroup
	require.ErrorAs(t, err, &group)
	require.NotNil(t, res)
	assert.Equal(t, res.Diagnostics, group.Diagnostics)
}

func TestLocatorInlinesReferences(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.yaml"), []byte(`
Pet:
  type: object
  properties:
    name: {type: string}
`), 0o600))
	api := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(api, []byte(`
openapi: 3.0.3
info: {title: Pets, version: "1"}
paths: {}
components:
  schemas:
    Pet:
      $ref: common.yaml#/Pet
`), 0o600))

	r, err := reader.New()
	require.NoError(t, err)

	res, err := Locator(context.Background(), r, api, Options{})
	require.NoError(t, err)
	doc := res.Document.(*openapiv3.Document)
	pet, _ := compiler.Lookup(doc.Components.Schemas, "Pet")
	require.NotNil(t, pet)
	assert.Equal(t, "common.yaml#/Pet", pet.Ref)
	assert.Equal(t, api, res.Locator)

	res, err = Locator(context.Background(), r, api, Options{Inline: true})
	require.NoError(t, err)
	doc = res.Document.(*openapiv3.Document)
	pet, _ = compiler.Lookup(doc.Components.Schemas, "Pet")
	require.NotNil(t, pet)
	assert.Empty(t, pet.Ref)
	assert.Equal(t, []string{"name"}, pet.Properties.Names())
}

func TestLocatorInlinesLocalReferencesOfInlinedDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "common.yaml"), []byte(`
definitions:
  Code:
    type: integer
  Error:
    type: object
    properties:
      code:
        $ref: '#/definitions/Code'
`), 0o600))
	api := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(api, []byte(`
openapi: 3.0.3
info: {title: Errors, version: "1"}
paths: {}
components:
  schemas:
    Local:
      type: string
    E:
      $ref: common.yaml#/definitions/Error
    Alias:
      $ref: '#/components/schemas/Local'
`), 0o600))

	r, err := reader.New()
	require.NoError(t, err)
	res, err := Locator(context.Background(), r, api, Options{Inline: true})
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	doc := res.Document.(*openapiv3.Document)
	e, _ := compiler.Lookup(doc.Components.Schemas, "E")
	require.NotNil(t, e)
	code := e.Properties.Get("code")
	require.NotNil(t, code)
	assert.Empty(t, code.Ref)
	assert.Equal(t, jsonschema.SingleType("integer"), code.Type)

	// References into the root document stay references.
	alias, _ := compiler.Lookup(doc.Components.Schemas, "Alias")
	require.NotNil(t, alias)
	assert.Equal(t, "#/components/schemas/Local", alias.Ref)
}

func TestLocatorKeepsRemoteDocumentsOffTheFilesystem(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("TOP-SECRET-TOKEN\n"), 0o600))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, `{"openapi": "3.0.3", "info": {"title": "T", "version": "1"}, "paths": {},
"components": {"schemas": {"Leak": {"$ref": "file://%s"}}}}`, filepath.ToSlash(secret))
	}))
	defer srv.Close()

	r, err := reader.New()
	require.NoError(t, err)
	res, err := Locator(context.Background(), r, srv.URL+"/api.json", Options{Inline: true})
	require.NoError(t, err)

	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "unsupported scheme")
	assert.NotContains(t, res.Diagnostics[0].Message, "TOP-SECRET-TOKEN")
	doc := res.Document.(*openapiv3.Document)
	leak, _ := compiler.Lookup(doc.Components.Schemas, "Leak")
	require.NotNil(t, leak)
	assert.Equal(t, "file://"+filepath.ToSlash(secret), leak.Ref)
	assert.False(t, r.Cached(secret))
}

func TestLocatorReadError(t *testing.T) {
	r, err := reader.New()
	require.NoError(t, err)
	_, err = Locator(context.Background(), r, filepath.Join(t.TempDir(), "missing.yaml"), Options{})
	assert.ErrorIs(t, err, oaserrors.ErrNotFound)
}

func TestRender(t *testing.T) {
	res, err := Bytes(context.Background(), []byte(`{"discoveryVersion": "v1", "name": "books"}`), Options{})
	require.NoError(t, err)

	js, err := res.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(js), `"name": "books"`)

	y, err := res.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(y), "name: books")

	_, err = (&Result{Document: 3}).JSON()
	assert.Error(t, err)
}
