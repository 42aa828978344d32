package compiler

import (
	"errors"

	"github.com/erraggy/oascompiler/node"
	"github.com/erraggy/oascompiler/oaserrors"
)

// Decode parses data into a document tree. what names the document kind in
// the error, for example "OpenAPI v3 document". A document whose aliases
// expand past the node budget yields the *oaserrors.ResourceLimitError.
func Decode(data []byte, what string) (*node.Node, error) {
	root, err := node.Parse(data)
	if err != nil {
		var limit *oaserrors.ResourceLimitError
		if errors.As(err, &limit) {
			return nil, limit
		}
		return nil, &oaserrors.ParseError{Message: "decoding " + what, Cause: err}
	}
	return root, nil
}

// CheckRoot returns a *oaserrors.ParseError when root is not a mapping. No
// partial model is built from such a root.
func CheckRoot(root *node.Node, what string) error {
	if root.IsMapping() {
		return nil
	}
	e := &oaserrors.ParseError{Message: what + " root must be a mapping"}
	if root != nil {
		e.Line, e.Column = root.Line, root.Column
		e.Message += ", got " + root.Describe()
	}
	return e
}
