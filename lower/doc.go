// Package lower translates the high-level sugar array operations
// (Einsum, Reshape, AxisPermutation, Stack, Concatenate, Roll, BasicIndex,
// AdvancedIndex) into the single canonical node, IndexLambda (spec.md
// §4.2, C4). Grounded on pytato's transform/lower_to_index_lambda.py,
// whose per-operation translations this package's per-operation functions
// mirror one-to-one; the scalar-expression construction idiom (elementwise
// index variables, subscripts, reductions, builtin calls for piecewise
// selection) follows scalarexpr's own vocabulary, itself grounded on
// sentra's parser/ast.go expression-tree shape.
package lower
