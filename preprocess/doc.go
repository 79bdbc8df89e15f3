// Package preprocess implements the codegen preprocessing pass (spec.md
// §4.5): replace every DataWrapper with a freshly named Placeholder
// (capturing its data into a bound-arguments side map), lower every
// remaining high-level node to IndexLambda form, check input-argument
// names for conflicts, and compute a reverse topological order over the
// outputs' inter-dependencies.
//
// Grounded on pytato's codegen.py (CodeGenPreprocessor, _generate_name_for_temp,
// NamesValidityChecker, preprocess()). Runs after inline.InlineCalls; like
// pytato's CodeGenPreprocessor.map_named_call_result, a NamedCallResult
// surviving to this pass is treated as a usage error, not re-inlined here.
//
// This repo's arraygraph has no node kind standing in for pytato's
// LoopyCall (an opaque pre-lowered external-kernel invocation), so
// spec.md §4.5's "loopy-call kernel de-duplication" bullet has no call
// site at this layer. No other layer de-duplicates kernels either:
// loopir.MergeKernels splices one kernel into another and renames
// colliding names, but never compares kernels or aliases identical ones
// (see DESIGN.md).
package preprocess
