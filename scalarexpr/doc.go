// Package scalarexpr implements the small arithmetic/call/reduction
// expression algebra referenced from IndexLambda bodies (spec.md §3.2, C1).
//
// Expr is a closed sum type (Const, Var, Subscript, Unary, Binary, Call,
// Reduce, Cast) dispatched through Accept(Visitor), the same double-dispatch
// shape as sentra's internal/parser/ast.go Expr/Accept/ExprVisitor. Rewriter
// generalizes that idiom to support partial overrides via embedding (see
// visitor.go) since Go has no virtual-method inheritance.
package scalarexpr
