// Package polyhedral stands in for the external polyhedral-set
// collaborator of spec.md §6: "BasicSet with universe, empty, set
// operations, space creation from named set/parameter dimensions,
// affine-from-expression construction."
//
// Grounded on pytato's target/loopy/codegen.py domain_for_shape, which
// builds an islpy.BasicSet by starting from BasicSet.universe over a space
// of named set dimensions (the inames) and parameter dimensions (the free
// size-parameter names appearing in the bounds), then conjoining a
// half-open affine constraint per dimension via repeated intersection
// (dom &= ...). This package models that same universe-then-intersect
// shape directly rather than wrapping an external isl binding: the box
// domains spec.md §4.6.2 actually needs (axis bounds, reduction bounds)
// are always conjunctions of half-open intervals, never a general
// polytope, so there is no case here that needs isl's full constraint
// solver. Intersecting two constant bounds on the same dimension is plain
// interval tightening (max of the lowers, min of the uppers) -- see
// DESIGN.md for why that rules out a genuine call site for
// modernc.org/mathutil's gcd helpers in this package.
package polyhedral
