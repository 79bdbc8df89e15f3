// Package inline implements call inlining (spec.md §4.3): replacing a Call
// tagged for inlining with its body, every Placeholder reference
// substituted by the corresponding caller-side binding.
//
// Grounded on pytato's transform/calls.py (Inliner, PlaceholderSubstitutor,
// _UnusedCallBindingZeroer) and, for the mapper-composition idiom, package
// transform's CopyMapper (sentra's compiler/compiler.go visitor-dispatch
// shape).
package inline
