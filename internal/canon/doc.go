// Package canon turns values from a solving session into canonical cache
// keys and back.
//
// An InferenceTable owns a session's inference variables: their kinds,
// universes, union-find structure and bindings. Canonicalize replaces each
// distinct unbound variable of a value with a slot of a canonical binder,
// in first-occurrence order; UCanonicalize then compacts the universes the
// value mentions into 0..n-1. FromCanonical and the Instantiate functions
// go the other way, allocating fresh variables or placeholders for each
// slot.
//
// Traversal order is fixed: depth-first, left to right in field
// declaration order, with an environment visited before its goal. The
// order only has to be deterministic; changing it changes every cache key.
//
// Thread-safety: an InferenceTable belongs to one solving session and is
// not safe for concurrent use. Canonical values are immutable and may be
// shared freely.
package canon
