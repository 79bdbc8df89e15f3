// Package concat implements call concatenation (spec.md §4.4, §6): given a
// set of call sites invoking the same function definition, produce a
// single concatenated call whose bindings (and returns) splice the
// per-site values along a chosen axis, then slice the original
// NamedCallResults back out. ConcatenateCalls (transform.go) is the
// whole-DAG entry point spec.md §6 names (concatenate_calls); the other
// exported types (FunctionConcatenability, Batch, Slicer, ...) are the
// per-batch building blocks it composes, left exported for callers that
// already have a batch of call sites in hand.
//
// Grounded on pytato's transform/calls.py (the bulk of that file covers
// exactly this problem: Concatenatability, the input-concatenability
// accumulator, FunctionConcatenability, plan validation and rewriting, and
// the top-level concatenate_calls driver).
//
// Scope simplification (documented in DESIGN.md): this package only
// concatenates call sites that share one literal *arraygraph.
// FunctionDefinition (the common case spec.md's own scenario 4 describes,
// "two call sites to f(x)"). The general case of distinct-but-
// "structurally similar" FunctionDefinitions across sites -- which would
// require a node-correspondence search between independently built
// bodies -- is not implemented; ValidatePlan rejects sites whose Function
// pointers differ.
package concat
