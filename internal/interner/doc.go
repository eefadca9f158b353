// Package interner provides the two ir.Interner implementations.
//
// Boxed keeps every payload behind its own pointer and never deduplicates,
// so handle equality implies structural equality but not the reverse.
// HashCons deduplicates payloads into small integer handles, so equal
// payloads always share a handle.
//
// Every operation in package ir behaves identically under both; tests run
// against the pair through testutil.Interners.
//
// Thread-safety: Boxed is stateless. HashCons guards its tables with a
// sync.RWMutex; lookups share the read lock and interning takes the write
// lock only for payloads it has not seen. Handles from one interner must
// not be passed to another; doing so panics.
package interner
