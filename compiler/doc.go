// Package compiler is the support library shared by the format builders.
//
// A build call creates one [Context], which tracks the field path and
// collects [Diagnostic] values instead of failing on the first structural
// problem. Builders read each mapping through [Fields], whose typed
// accessors consume known keys and report type mismatches; the keys left
// over are routed through the [ExtensionRegistry] and attached to the record
// as [Extensions].
//
//	ctx := compiler.NewContext()
//	f := compiler.NewFields(ctx, n)
//	info.Title = f.String("title")
//	info.Version = f.String("version")
//	info.Extensions = f.Extensions()
//	for _, d := range ctx.Diagnostics() {
//	    fmt.Println(d)
//	}
package compiler
