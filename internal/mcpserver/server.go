// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the oascompiler builders as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/oascompiler"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oascompiler MCP server: compiles OpenAPI v2, OpenAPI v3 and Google Discovery documents into typed models and reports structural diagnostics with field paths.

Configuration: All defaults are configurable via OASCOMPILER_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- OASCOMPILER_CACHE_FILE_TTL (default: 15m): cache TTL for local file documents
- OASCOMPILER_CACHE_URL_TTL (default: 5m): cache TTL for URL-fetched documents
- OASCOMPILER_CACHE_ENABLED (default: true): disable caching entirely
- OASCOMPILER_DIAGNOSTIC_LIMIT (default: 100): default number of diagnostics returned
- OASCOMPILER_MAX_DEPTH (default: 256): nesting depth cap for a single build
- OASCOMPILER_INLINE (default: false): inline references to other documents by default
- OASCOMPILER_ALLOW_PRIVATE_IPS (default: false): allow fetching from private networks

Caching: Compiled documents are cached per session. File entries use path+mtime as key (auto-invalidated on change). URL entries are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oascompiler", Version: oascompiler.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Compile an OpenAPI v2 (Swagger), OpenAPI v3 or Google Discovery document into its typed model. The format is detected from the top-level keys unless format is set. Returns the format, title, declared version and structural diagnostics with JSON-style field paths such as $.paths./pets.get.responses. Use offset/limit to page through diagnostics. Set model=json or model=yaml to also return the compiled model; leave it empty for large documents. Set inline=true to replace references to other documents with their targets.",
	}, handleCompile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect",
		Description: "Report whether a document is OpenAPI v2, OpenAPI v3 or a Google Discovery document, without compiling it.",
	}, handleDetect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "discovery_list",
		Description: "List APIs from the Google API Discovery directory. Filter by name or preferred versions. Each entry includes the discovery_rest_url that can be passed to compile as url.",
	}, handleDiscoveryList)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.DiagnosticLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.DiagnosticLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
