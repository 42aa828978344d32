package discovery

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/erraggy/oascompiler/reader"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBooks(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/books.json")
	require.NoError(t, err)
	return data
}

func messages(diags []compiler.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.PathString() + " " + d.Message
	}
	return out
}

func TestBooks(t *testing.T) {
	doc, diags, err := ParseDocument(readBooks(t))
	require.NoError(t, err)
	assert.Empty(t, messages(diags))

	assert.Equal(t, "books", doc.Name)
	assert.Equal(t, "books:v1", doc.ID)
	assert.Equal(t, "rest", doc.Protocol)
	assert.Equal(t, "https://books.googleapis.com/", doc.BaseURL)
	assert.Equal(t, "batch", doc.BatchPath)
	assert.True(t, doc.VersionModule)
	assert.Equal(t, []string{"dataWrapper"}, doc.Features)
	require.NotNil(t, doc.Icons)
	assert.Contains(t, doc.Icons.X16, "16dp")

	assert.Equal(t, []string{"alt", "prettyPrint"}, compiler.EntryNames(doc.Parameters))
	alt, _ := compiler.Lookup(doc.Parameters, "alt")
	assert.Equal(t, TypeString, alt.Type)
	assert.Equal(t, "json", alt.Default)
	assert.Len(t, alt.EnumDescriptions, 3)

	assert.Equal(t, "https://www.googleapis.com/auth/books", doc.Auth.OAuth2.Scopes[0].Name)

	volume, _ := compiler.Lookup(doc.Schemas, "Volume")
	assert.Equal(t, TypeObject, volume.Type)
	pageCount, _ := compiler.Lookup(volume.Properties, "pageCount")
	assert.Equal(t, "0", pageCount.Minimum)
	assert.Equal(t, "100000", pageCount.Maximum)
	authors, _ := compiler.Lookup(volume.Properties, "authors")
	assert.Equal(t, TypeString, authors.Items.Type)
	saleInfo, _ := compiler.Lookup(volume.Properties, "saleInfo")
	assert.Equal(t, "SaleInfo", saleInfo.Ref)
	labels, _ := compiler.Lookup(volume.Properties, "labels")
	assert.Equal(t, TypeString, labels.AdditionalProperties.Type)
	title, _ := compiler.Lookup(volume.Properties, "title")
	assert.Equal(t, []string{"books.volumes.insert"}, title.Annotations.Required)
	assert.True(t, title.ReadOnly)

	volumes, _ := compiler.Lookup(doc.Resources, "volumes")
	get, _ := compiler.Lookup(volumes.Methods, "get")
	assert.Equal(t, "GET", get.HTTPMethod)
	assert.Equal(t, []string{"volumeId"}, get.ParameterOrder)
	assert.Equal(t, "Volume", get.Response.Ref)
	volumeID, _ := compiler.Lookup(get.Parameters, "volumeId")
	assert.True(t, volumeID.Required)

	insert, _ := compiler.Lookup(volumes.Methods, "insert")
	assert.Equal(t, "volume", insert.Request.ParameterName)
	require.NotNil(t, insert.MediaUpload)
	assert.Equal(t, "10MB", insert.MediaUpload.MaxSize)
	assert.True(t, insert.MediaUpload.Protocols.Resumable.Multipart)

	associated, _ := compiler.Lookup(volumes.Resources, "associated")
	list, _ := compiler.Lookup(associated.Methods, "list")
	maxResults, _ := compiler.Lookup(list.Parameters, "maxResults")
	assert.Equal(t, "40", maxResults.Maximum)
}

func TestUnknownSchemaType(t *testing.T) {
	doc, diags, err := ParseDocument([]byte(`{
  "discoveryVersion": "v1",
  "schemas": {
    "A": {"type": "date", "format": "full-date"},
    "B": {"type": "integer", "minimum": "low"}
  }
}`))
	require.NoError(t, err)
	a, _ := compiler.Lookup(doc.Schemas, "A")
	assert.Equal(t, TypeAny, a.Type)
	assert.Equal(t, "full-date", a.Format)
	b, _ := compiler.Lookup(doc.Schemas, "B")
	assert.Empty(t, b.Minimum)
	assert.Equal(t, []string{
		"$.schemas.A.type has unexpected value: date (string)",
		"$.schemas.B.minimum has unexpected value: low (string)",
	}, messages(diags))
}

func TestUnknownKeysAreKept(t *testing.T) {
	doc, diags, err := ParseDocument([]byte(`{"discoveryVersion": "v1", "kind": "discovery#restDescription", "x-owner": "books-team", "legacy": 1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x-owner", "legacy"}, doc.Extensions.Names())
	assert.Equal(t, []string{"$ has invalid property: legacy"}, messages(diags))
}

func TestSingleDocumentSequence(t *testing.T) {
	doc, diags, err := ParseDocument([]byte(`[{"discoveryVersion": "v1", "name": "books"}]`))
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "books", doc.Name)

	_, _, err = ParseDocument([]byte(`[{"name": "a"}, {"name": "b"}]`))
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

func TestRoundTrip(t *testing.T) {
	first, _, err := ParseDocument(readBooks(t))
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
	doc, _, err := ParseDocument(readBooks(t))
	require.NoError(t, err)
	out, err := MarshalJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"discoveryVersion\": \"v1\",")
	assert.Contains(t, string(out), `"_ref": "SaleInfo"`)
	assert.NotContains(t, string(out), `"basePath"`)
}

const directory = `{
  "kind": "discovery#directoryList",
  "discoveryVersion": "v1",
  "items": [
    {"kind": "discovery#directoryItem", "id": "books:v1", "name": "books", "version": "v1",
     "title": "Books API", "description": "Searches for books.",
     "discoveryRestUrl": "https://books.googleapis.com/$discovery/rest?version=v1", "preferred": true},
    {"kind": "discovery#directoryItem", "id": "books:v0", "name": "books", "version": "v0",
     "title": "Books API", "description": "Old.",
     "discoveryRestUrl": "https://books.googleapis.com/$discovery/rest?version=v0"}
  ]
}`

func TestParseList(t *testing.T) {
	l, err := ParseList([]byte(directory))
	require.NoError(t, err)
	assert.Equal(t, "discovery#directoryList", l.Kind)
	require.Len(t, l.Items, 2)

	assert.Equal(t, "books:v0", l.APIWithNameAndVersion("books", "v0").ID)
	assert.Nil(t, l.APIWithNameAndVersion("books", "v9"))
	assert.Equal(t, "v1", l.PreferredAPI("books").Version)
	assert.Nil(t, l.PreferredAPI("drive"))

	_, err = ParseList([]byte(`{"items": 3}`))
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

func TestFetchListAndDocument(t *testing.T) {
	books := readBooks(t)
	var calls atomic.Int32
	r, err := reader.New(reader.WithFetcher(func(_ context.Context, locator string) ([]byte, error) {
		calls.Add(1)
		if strings.HasSuffix(locator, "/discovery/v1/apis") {
			return []byte(directory), nil
		}
		return books, nil
	}))
	require.NoError(t, err)

	ctx := context.Background()
	l, err := FetchList(ctx, r)
	require.NoError(t, err)
	api := l.PreferredAPI("books")
	require.NotNil(t, api)

	doc, diags, err := FetchDocument(ctx, r, api)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "books:v1", doc.ID)

	_, err = FetchList(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
