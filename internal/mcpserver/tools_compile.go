package mcpserver

import (
	"context"
	"fmt"

	"github.com/erraggy/oascompiler"
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/internal/compile"
	"github.com/erraggy/oascompiler/node"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type compileInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The document to compile"`
	Format string    `json:"format,omitempty" jsonschema:"Force the input format: v2, v3 or discovery (default: detect)"`
	Inline *bool     `json:"inline,omitempty" jsonschema:"Inline references to other documents (default from OASCOMPILER_INLINE)"`
	Model  string    `json:"model,omitempty"  jsonschema:"Also return the compiled model encoded as json or yaml"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N diagnostics"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of diagnostics to return"`
}

type diagnosticOutput struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type compileOutput struct {
	Format          string             `json:"format"`
	Version         string             `json:"version,omitempty"`
	Title           string             `json:"title,omitempty"`
	DiagnosticCount int                `json:"diagnostic_count"`
	Returned        int                `json:"returned"`
	Diagnostics     []diagnosticOutput `json:"diagnostics,omitempty"`
	Model           string             `json:"model,omitempty"`
}

func handleCompile(ctx context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	opts := compile.Options{MaxDepth: cfg.MaxDepth, Inline: cfg.Inline}
	if input.Format != "" {
		f, ok := oascompiler.ParseFormat(input.Format)
		if !ok {
			return errResult(fmt.Errorf("invalid format %q: use v2, v3 or discovery", input.Format)), compileOutput{}, nil
		}
		opts.Format = f
	}
	if input.Inline != nil {
		opts.Inline = *input.Inline
	}
	if input.Model != "" && input.Model != "json" && input.Model != "yaml" {
		return errResult(fmt.Errorf("invalid model encoding %q: use json or yaml", input.Model)), compileOutput{}, nil
	}

	result, err := input.Spec.resolve(ctx, opts)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	summary := result.Summary()
	page := paginate(result.Diagnostics, input.Offset, input.Limit)
	output := compileOutput{
		Format:          summary.Format,
		Version:         summary.Version,
		Title:           summary.Title,
		DiagnosticCount: len(result.Diagnostics),
		Returned:        len(page),
		Diagnostics:     diagnosticsOutput(page),
	}

	if input.Model != "" {
		var data []byte
		if input.Model == "yaml" {
			data, err = result.YAML()
		} else {
			data, err = result.JSON()
		}
		if err != nil {
			return errResult(err), compileOutput{}, nil
		}
		output.Model = string(data)
	}

	return nil, output, nil
}

func diagnosticsOutput(diags []compiler.Diagnostic) []diagnosticOutput {
	if len(diags) == 0 {
		return nil
	}
	out := make([]diagnosticOutput, len(diags))
	for i, d := range diags {
		out[i] = diagnosticOutput{Path: d.PathString(), Message: d.Message, Line: d.Line, Column: d.Column}
	}
	return out
}

type detectInput struct {
	Spec specInput `json:"spec" jsonschema:"The document to inspect"`
}

type detectOutput struct {
	Format string `json:"format"`
}

func handleDetect(ctx context.Context, _ *mcp.CallToolRequest, input detectInput) (*mcp.CallToolResult, detectOutput, error) {
	var (
		root *node.Node
		err  error
	)
	switch {
	case input.Spec.Content != "" && input.Spec.File == "" && input.Spec.URL == "":
		if int64(len(input.Spec.Content)) > cfg.MaxInlineSize {
			return errResult(fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes", len(input.Spec.Content), cfg.MaxInlineSize)), detectOutput{}, nil
		}
		root, err = compiler.Decode([]byte(input.Spec.Content), "document")
	case input.Spec.Content == "" && (input.Spec.File == "") != (input.Spec.URL == ""):
		locator := input.Spec.File
		if locator == "" {
			locator = input.Spec.URL
		}
		r, rerr := newDocumentReader()
		if rerr != nil {
			return errResult(rerr), detectOutput{}, nil
		}
		root, err = r.ReadNode(ctx, locator)
	default:
		err = fmt.Errorf("exactly one of file, url, or content must be provided")
	}
	if err != nil {
		return errResult(err), detectOutput{}, nil
	}
	return nil, detectOutput{Format: compile.Detect(root).String()}, nil
}
