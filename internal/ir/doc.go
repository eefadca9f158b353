// Package ir provides the term algebra of the trait solver: types,
// lifetimes, constants, goals, where-clauses and program clauses, together
// with the machinery that constructs, traverses, rewrites, compares and
// canonicalizes them.
//
// Every term is stored behind an Interner. Handles (Ty, Goal, Substitution,
// ...) are opaque; payloads are read back with the interner. All code in
// this package is written once against the Interner contract and must
// behave identically for any conforming implementation.
//
// Key design constraints:
//   - Variables are de Bruijn indexed (DebruijnIndex, BoundVar); Binders
//     introduce one level of nesting each.
//   - Payload structs are comparable Go values, so an interner may
//     deduplicate them with a map.
//   - Traversals (fold, visit, zip) thread the current binder depth and
//     carry no state across calls.
//   - Contract violations (arity or kind mismatches) panic with an "ir:"
//     prefix; NoSolution and Floundered are returned as errors.
//
// ir imports nothing internal except digest, which is used for cache keys.
package ir
