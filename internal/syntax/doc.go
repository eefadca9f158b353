// Package syntax reads the fixture notation that ir.Render writes.
//
// The notation is the rendered form extended with names: binder
// parameters may be named and referenced by name, and items may be named
// instead of written as #id. Names are resolved to de Bruijn indices while
// parsing, so
//
//	forall<T> { if (Implemented(T: Clone)) { Implemented(Vec<T>: Clone) } }
//
// and
//
//	forall<_> { if (Implemented(^1.0: #0)) { Implemented(#0<^0.0>: #0) } }
//
// denote the same goal once Vec and Clone have been assigned id 0 in their
// namespaces. Every clause is parsed under its own binder, which is empty
// unless the clause starts with forall; references to enclosing binders
// from inside a clause are one level deeper than outside it.
//
// Item names are interned into a Symbols table on first use. Symbols
// implements ir.Namer, so RenderWith(in, syms, v) writes the names back.
// Identifiers are NFC-normalized before lookup.
package syntax
