// Package pathutil builds the field paths attached to compiler diagnostics
// and splits JSON Pointer fragments used by cross-document references.
//
// [PathBuilder] uses push/pop semantics while a builder descends a document;
// the rendered string is only materialized when a diagnostic needs it:
//
//	var p pathutil.PathBuilder
//	p.Push("paths")
//	p.Push("/pets")
//	p.Push("parameters")
//	p.PushIndex(0)
//	p.String() // "$.paths./pets.parameters[0]"
package pathutil
