package oascompiler

import (
	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/oaserrors"
)

// Format identifies the grammar a document is written in.
type Format int

const (
	// FormatUnknown means no format marker was found.
	FormatUnknown Format = iota
	// FormatOpenAPIv2 is Swagger 2.0, marked by a top-level "swagger" key.
	FormatOpenAPIv2
	// FormatOpenAPIv3 is OpenAPI 3.x, marked by a top-level "openapi" key.
	FormatOpenAPIv3
	// FormatDiscovery is a Google API Discovery document, marked by "discoveryVersion".
	FormatDiscovery
)

// String returns the short name used on the command line.
func (f Format) String() string {
	switch f {
	case FormatOpenAPIv2:
		return "v2"
	case FormatOpenAPIv3:
		return "v3"
	case FormatDiscovery:
		return "discovery"
	default:
		return "unknown"
	}
}

// ParseFormat parses a short format name as produced by String.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "v2", "openapiv2", "swagger":
		return FormatOpenAPIv2, true
	case "v3", "openapiv3", "openapi":
		return FormatOpenAPIv3, true
	case "discovery":
		return FormatDiscovery, true
	}
	return FormatUnknown, false
}

// DetectNodeFormat inspects the top-level keys of a parsed document.
func DetectNodeFormat(n *node.Node) Format {
	switch {
	case !n.IsMapping():
		return FormatUnknown
	case n.Has("openapi"):
		return FormatOpenAPIv3
	case n.Has("swagger"):
		return FormatOpenAPIv2
	case n.Has("discoveryVersion"):
		return FormatDiscovery
	}
	return FormatUnknown
}

// DetectFormat parses data and reports its format. Undecodable input is a
// *oaserrors.ParseError.
func DetectFormat(data []byte) (Format, error) {
	n, err := node.Parse(data)
	if err != nil {
		return FormatUnknown, &oaserrors.ParseError{Message: "decoding document", Cause: err}
	}
	return DetectNodeFormat(n), nil
}
