// Package oascompiler compiles API description documents into typed Go models.
//
// oascompiler reads YAML or JSON documents in three formats and builds a
// statically shaped model for each, preserving declaration order and vendor
// extensions and reporting structural problems as positioned diagnostics
// instead of failing on the first one.
//
// # Overview
//
// The library consists of these packages:
//
//   - node: the untyped, order-preserving document tree with source positions
//   - compiler: the build context, diagnostics, field readers and extension registry
//   - reader: a caching, single-flight document reader for files and http(s) URLs
//   - jsonschema: the JSON Schema Draft-4 model and its builder
//   - openapiv3: OpenAPI 3.0 documents
//   - openapiv2: OpenAPI 2.0 (Swagger) documents
//   - discovery: Google API Discovery documents and the Discovery directory list
//   - oaserrors: typed errors shared by all packages
//
// # Quick Start
//
// Build an OpenAPI 3 document:
//
//	doc, diags, err := openapiv3.ParseDocument(data)
//	if err != nil {
//	    log.Fatal(err) // the root is not a mapping, or the bytes are not YAML/JSON
//	}
//	for _, d := range diags {
//	    fmt.Println(d) // e.g. "[12,7] $.paths./pets.get.responses has unexpected value: [array]"
//	}
//	fmt.Println(doc.Info.Title)
//
// Inline references to other documents while building:
//
//	r, _ := reader.New()
//	doc, diags, err := openapiv3.ParseDocument(data,
//	    compiler.WithRefReader(r, "specs/openapi.yaml"),
//	)
//
// # Extensions
//
// Keys a record does not define are routed through a
// [compiler.ExtensionRegistry]. Keys starting with "x-" are vendor
// extensions; other unknown keys are kept as well but also reported.
// Handlers registered by name or prefix can turn extension values into
// structured data; by default the raw YAML is kept.
//
// # Command Line
//
// The oascompile command builds documents, compares the output with a
// reference serialization and lists the Discovery directory:
//
//	oascompile compile openapi.yaml
//	oascompile compare openapi.yaml openapi.json
//	oascompile discovery-list
package oascompiler
