// Package compile runs the detect and build steps shared by the command
// line and the MCP server.
package compile

import (
	"context"
	"fmt"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/discovery"
	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/oaserrors"
	"github.com/erraggy/oascompiler/openapiv2"
	"github.com/erraggy/oascompiler/openapiv3"
	"github.com/erraggy/oascompiler/reader"
)

// Options selects how a document is built.
type Options struct {
	// Format forces a grammar. FormatUnknown detects it from the top-level keys.
	Format oascompiler.Format
	// Inline replaces external references with the nodes they point at.
	// It needs a reader and has no effect on in-memory input.
	Inline bool
	// MaxDepth caps the nesting depth. Zero keeps the compiler default.
	MaxDepth int
	// Extensions handles vendor extension keys. Nil keeps them as raw values.
	Extensions *compiler.ExtensionRegistry
	// Logger receives debug output from the build.
	Logger compiler.Logger
	// Strict escalates diagnostics to a *compiler.ErrorGroup.
	Strict bool
}

// Result is a built document with its diagnostics.
type Result struct {
	Locator     string
	Format      oascompiler.Format
	Document    any
	Diagnostics []compiler.Diagnostic
}

// Locator reads the document at locator through r and builds it.
func Locator(ctx context.Context, r *reader.Reader, locator string, opts Options) (*Result, error) {
	root, err := r.ReadNode(ctx, locator)
	if err != nil {
		return nil, err
	}
	var copts []compiler.Option
	if opts.Inline {
		copts = append(copts, compiler.WithRefReader(r, locator))
	}
	res, err := build(ctx, root, opts, copts)
	if err != nil {
		return nil, err
	}
	res.Locator = locator
	return res, nil
}

// Bytes decodes data and builds it. References are never inlined.
func Bytes(ctx context.Context, data []byte, opts Options) (*Result, error) {
	root, err := compiler.Decode(data, "document")
	if err != nil {
		return nil, err
	}
	return build(ctx, root, opts, nil)
}

// Detect reports the format of root. A sequence holding one document is
// looked through, as Discovery directories sometimes wrap documents that way.
func Detect(root *node.Node) oascompiler.Format {
	if root.IsSequence() && len(root.Items) == 1 {
		root = root.Items[0]
	}
	return oascompiler.DetectNodeFormat(root)
}

func build(ctx context.Context, root *node.Node, opts Options, copts []compiler.Option) (*Result, error) {
	format := opts.Format
	if format == oascompiler.FormatUnknown {
		format = Detect(root)
	}
	copts = append(copts,
		compiler.WithGoContext(ctx),
		compiler.WithMaxDepth(opts.MaxDepth),
		compiler.WithExtensions(opts.Extensions),
		compiler.WithLogger(opts.Logger),
	)
	cctx := compiler.NewContext(copts...)

	var (
		doc any
		err error
	)
	switch format {
	case oascompiler.FormatOpenAPIv2:
		doc, err = openapiv2.Build(cctx, root)
	case oascompiler.FormatOpenAPIv3:
		doc, err = openapiv3.Build(cctx, root)
	case oascompiler.FormatDiscovery:
		doc, err = discovery.Build(cctx, root)
	default:
		return nil, &oaserrors.ParseError{Message: "unrecognized document format: expected an openapi, swagger or discoveryVersion key"}
	}
	if err != nil {
		return nil, err
	}

	res := &Result{Format: format, Document: doc, Diagnostics: cctx.Diagnostics()}
	if opts.Strict {
		return res, cctx.Err()
	}
	return res, nil
}

// JSON renders the model with two-space indentation.
func (r *Result) JSON() ([]byte, error) {
	switch d := r.Document.(type) {
	case *openapiv2.Document:
		return openapiv2.MarshalJSON(d)
	case *openapiv3.Document:
		return openapiv3.MarshalJSON(d)
	case *discovery.Document:
		return discovery.MarshalJSON(d)
	}
	return nil, fmt.Errorf("compile: unsupported document %T", r.Document)
}

// YAML renders the model back in its source spelling.
func (r *Result) YAML() ([]byte, error) {
	switch d := r.Document.(type) {
	case *openapiv2.Document:
		return openapiv2.MarshalYAML(d)
	case *openapiv3.Document:
		return openapiv3.MarshalYAML(d)
	case *discovery.Document:
		return discovery.MarshalYAML(d)
	}
	return nil, fmt.Errorf("compile: unsupported document %T", r.Document)
}

// Summary is the headline of a built document.
type Summary struct {
	Format  string `json:"format"`
	Version string `json:"version,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Summary returns the format, declared version and title.
func (r *Result) Summary() Summary {
	s := Summary{Format: r.Format.String()}
	switch d := r.Document.(type) {
	case *openapiv2.Document:
		s.Version = d.Version()
		if d.Info != nil {
			s.Title = d.Info.Title
		}
	case *openapiv3.Document:
		s.Version = d.Version()
		if d.Info != nil {
			s.Title = d.Info.Title
		}
	case *discovery.Document:
		s.Version = d.DiscoveryVersion
		s.Title = d.Title
	}
	return s
}
