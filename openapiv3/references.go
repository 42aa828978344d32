package openapiv3

import (
	"github.com/erraggy/oascompiler/compiler"
	"github.com/erraggy/oascompiler/node"
)

// orReference builds n as a Reference when it carries $ref and with build
// otherwise. References to other documents are inlined when the context
// has a reference reader.
func orReference[U any](b *builder, n *node.Node, build func(*node.Node) U) (U, bool) {
	var zero U
	if !b.mapping(n) || !b.ctx.CheckDepth(n) {
		return zero, false
	}
	ref := n.Lookup("$ref")
	if ref == nil {
		return build(n), true
	}
	if ref.Kind == node.String {
		if target, done, ok := b.ctx.InlineRef(ref, ref.Value); ok {
			defer done()
			return orReference(b, target, build)
		}
	}
	r, ok := any(b.reference(n)).(U)
	return r, ok
}

// reference builds a Reference. Sibling keys other than summary and
// description carry no meaning next to $ref and are reported.
func (b *builder) reference(n *node.Node) *Reference {
	f := b.fields(n)
	r := &Reference{
		Ref:         f.String("$ref"),
		Summary:     f.String("summary"),
		Description: f.String("description"),
	}
	f.Ignore()
	return r
}

func (b *builder) parameterOrReference(n *node.Node) (ParameterOrReference, bool) {
	return orReference(b, n, func(n *node.Node) ParameterOrReference { return b.parameter(n) })
}

func (b *builder) namedParameterOrReference(_ string, n *node.Node) (ParameterOrReference, bool) {
	return b.parameterOrReference(n)
}

func (b *builder) requestBodyOrReference(n *node.Node) (RequestBodyOrReference, bool) {
	return orReference(b, n, func(n *node.Node) RequestBodyOrReference { return b.requestBody(n) })
}

func (b *builder) namedRequestBodyOrReference(_ string, n *node.Node) (RequestBodyOrReference, bool) {
	return b.requestBodyOrReference(n)
}

func (b *builder) responseOrReference(n *node.Node) (ResponseOrReference, bool) {
	return orReference(b, n, func(n *node.Node) ResponseOrReference { return b.response(n) })
}

func (b *builder) namedResponseOrReference(_ string, n *node.Node) (ResponseOrReference, bool) {
	return b.responseOrReference(n)
}

func (b *builder) headerOrReference(_ string, n *node.Node) (HeaderOrReference, bool) {
	return orReference(b, n, func(n *node.Node) HeaderOrReference { return b.header(n) })
}

func (b *builder) exampleOrReference(_ string, n *node.Node) (ExampleOrReference, bool) {
	return orReference(b, n, func(n *node.Node) ExampleOrReference { return b.example(n) })
}

func (b *builder) linkOrReference(_ string, n *node.Node) (LinkOrReference, bool) {
	return orReference(b, n, func(n *node.Node) LinkOrReference { return b.link(n) })
}

func (b *builder) callbackOrReference(_ string, n *node.Node) (CallbackOrReference, bool) {
	return orReference(b, n, func(n *node.Node) CallbackOrReference { return b.callback(n) })
}

func (b *builder) securitySchemeOrReference(_ string, n *node.Node) (SecuritySchemeOrReference, bool) {
	return orReference(b, n, func(n *node.Node) SecuritySchemeOrReference { return b.securityScheme(n) })
}

// ToNode renders the reference.
func (r *Reference) ToNode() *node.Node {
	m := node.NewMapping()
	compiler.PutString(m, "$ref", r.Ref)
	compiler.PutString(m, "summary", r.Summary)
	compiler.PutString(m, "description", r.Description)
	return m
}
