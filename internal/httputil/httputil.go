// Package httputil holds the HTTP vocabulary shared by the OpenAPI builders.
package httputil

import "strings"

// HTTP Method Constants, spelled as OpenAPI path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

// OpenAPIv2Methods are the operation keys of a Swagger 2.0 path item, in
// declaration order.
var OpenAPIv2Methods = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch}

// OpenAPIv3Methods adds trace to OpenAPIv2Methods.
var OpenAPIv3Methods = append(append([]string(nil), OpenAPIv2Methods...), MethodTrace)

// StatusCodeLength is the length of a status code key such as "200" or "2XX".
const StatusCodeLength = 3

// IsStatusCode reports whether code is three ASCII digits.
func IsStatusCode(code string) bool {
	if len(code) != StatusCodeLength {
		return false
	}
	for i := 0; i < StatusCodeLength; i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// IsStatusRange reports whether code is a range such as "2XX". The X may
// be written in either case.
func IsStatusRange(code string) bool {
	return len(code) == StatusCodeLength &&
		code[0] >= '1' && code[0] <= '5' &&
		strings.EqualFold(code[1:], "xx")
}
