// Package harness provides conformance testing for the trait IR.
//
// The harness loads scenario files, runs their steps against every
// interner strategy, and checks expectations and trace assertions. It is
// the executable contract for canonicalization and the term operations
// the solver relies on.
//
// # Scenario Format
//
// Scenarios are YAML or CUE files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	items:
//	  adt: [Vec]
//	  trait: [Clone, Copy]
//	steps:
//	  - id: first
//	    op: canonicalize
//	    input: "Implemented(Vec<?0>: Clone)"
//	    vars: "ty U0"
//	    expect:
//	      output: "ucanonical<1> { canonical<ty U0> { env<U0> {} |- Implemented(Vec<^0.0>: Clone) } }"
//	      subst: "[?0]"
//	assertions:
//	  - type: same_key
//	    steps: [first, second]
//
// Terms are written in fixture notation (see package syntax). Declared
// items render by name in outputs. CUE scenarios are checked against an
// embedded #Scenario schema before decoding.
//
// # Operations
//
//   - render: parse and print a term
//   - canonicalize: build an inference table from vars, unify and bind,
//     then canonicalize and universe-compact a query
//   - ucanonicalize: compact the universes of a canonical query
//   - instantiate, roundtrip: instantiate a u-canonical query, optionally
//     canonicalizing it again
//   - key: the cache key of a u-canonical query
//   - substitute, shift: binder operations
//   - equal, could_match: structural comparison
//   - max_universe, check_universes: universe queries
//   - closed_goal, peeled_goal: goal to query conversion
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - trace_contains: Verifies an operation produced an output
//   - trace_order: Verifies operations appear in specified order
//   - trace_count: Verifies an operation appears exactly N times
//   - same_key: Verifies steps produced the same cache key
//   - distinct_keys: Verifies steps produced pairwise different keys
//
// # Deterministic Testing
//
// Traces are reproducible, so they can be compared across interners and
// against golden snapshots. The harness uses:
//   - A deterministic step sequence (testutil.Sequence)
//   - A fixed inference table session (testutil.FixedSession)
//   - Content-addressed cache keys that ignore variable numbering
//
// Only the run id and error details vary between runs; both are left out
// of golden snapshots.
package harness
