// Package arraygraph implements the array DAG algebra (spec.md §3.1, C2):
// the immutable node variants (Placeholder, DataWrapper, SizeParam,
// IndexLambda, the high-level sugar ops, Call/NamedCallResult/
// FunctionDefinition, DictOfNamedArrays), their shape/dtype/axes/tags, and
// structural equality/hashing.
//
// Node dispatch follows the same Accept(Visitor)-over-a-closed-sum-type
// idiom as scalarexpr (itself grounded on sentra's internal/parser/ast.go
// Expr/ExprVisitor), generalized to the richer node set pytato's array.py
// defines. Object identity in the original Python (used there for
// memoized-visitor cache keys) is represented here the natural Go way: a
// Go interface value wrapping a pointer already compares equal iff it is
// the same node, so package transform's caches key directly on Array/*Call/
// *FunctionDefinition values -- no synthetic arena-index bookkeeping is
// needed.
package arraygraph
